package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/cases"

	"minifignet/internal/database"
	"minifignet/internal/domain"
	"minifignet/internal/repository"
)

// foldUsername produces the stored username_key; the same fold is
// applied on lookup so comparison stays case-insensitive. A Caser is
// stateful, so each call gets its own.
func foldUsername(username string) string {
	return cases.Fold().String(username)
}

// UserRepository implements the user repository for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GetUserByID retrieves a user; returns (nil, nil) when absent.
func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT id, username, is_networker
		FROM users
		WHERE id = $1`

	var user domain.User
	err = r.db.QueryRow(ctx, query, userUUID).Scan(&user.ID, &user.Username, &user.IsNetworker)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by folded username key; returns
// (nil, nil) when absent. Callers fold before lookup so comparison is
// case-insensitive.
func (r *UserRepository) GetUserByUsername(ctx context.Context, usernameKey string) (*domain.User, error) {
	const query = `
		SELECT id, username, is_networker
		FROM users
		WHERE username_key = $1`

	var user domain.User
	err := r.db.QueryRow(ctx, query, usernameKey).Scan(&user.ID, &user.Username, &user.IsNetworker)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

// BeginTx starts a transaction and returns a UserTx
func (r *UserRepository) BeginTx(ctx context.Context) (repository.UserTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	return &userTx{stackTx: stackTx{tx: tx}}, nil
}

// userTx embeds stackTx so registration seeds starting stacks in the
// same transaction as the user and profile rows.
type userTx struct {
	stackTx
}

func (t *userTx) InsertUser(ctx context.Context, user *domain.User) error {
	userUUID, err := parseUserUUID(user.ID)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO users (id, username, username_key, is_networker)
		VALUES ($1, $2, $3, $4)`

	if _, err := t.tx.Exec(ctx, query, userUUID, user.Username, foldUsername(user.Username), user.IsNetworker); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (t *userTx) InsertProfile(ctx context.Context, profile domain.Profile) error {
	userUUID, err := parseUserUUID(profile.UserID)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO profiles (user_id, rank, available_votes, last_vote_update)
		VALUES ($1, $2, $3, $4)`

	if _, err := t.tx.Exec(ctx, query, userUUID, profile.Rank, profile.AvailableVotes, profile.LastVoteUpdate); err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}
