package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"minifignet/internal/database"
	"minifignet/internal/domain"
	"minifignet/internal/repository"
)

// ProfileRepository implements the profile repository for PostgreSQL
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetProfile retrieves a user's profile; returns (nil, nil) when absent.
func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT user_id, rank, available_votes, last_vote_update
		FROM profiles
		WHERE user_id = $1`

	var profile domain.Profile
	err = r.db.QueryRow(ctx, query, userUUID).Scan(
		&profile.UserID, &profile.Rank, &profile.AvailableVotes, &profile.LastVoteUpdate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// BeginTx starts a transaction and returns a ProfileTx
func (r *ProfileRepository) BeginTx(ctx context.Context) (repository.ProfileTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	return &profileTx{tx: tx}, nil
}

type profileTx struct {
	tx pgx.Tx
}

func (t *profileTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *profileTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetProfileForUpdate locks the profile row for the rest of the
// transaction; returns (nil, nil) when absent.
func (t *profileTx) GetProfileForUpdate(ctx context.Context, userID string) (*domain.Profile, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT user_id, rank, available_votes, last_vote_update
		FROM profiles
		WHERE user_id = $1
		FOR UPDATE`

	var profile domain.Profile
	err = t.tx.QueryRow(ctx, query, userUUID).Scan(
		&profile.UserID, &profile.Rank, &profile.AvailableVotes, &profile.LastVoteUpdate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile for update: %w", err)
	}
	return &profile, nil
}

func (t *profileTx) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	userUUID, err := parseUserUUID(profile.UserID)
	if err != nil {
		return err
	}

	const query = `
		UPDATE profiles
		SET rank = $2, available_votes = $3, last_vote_update = $4
		WHERE user_id = $1`

	tag, err := t.tx.Exec(ctx, query, userUUID, profile.Rank, profile.AvailableVotes, profile.LastVoteUpdate)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, profile.UserID)
	}
	return nil
}
