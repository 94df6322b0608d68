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

// FriendshipRepository implements the friendship repository for PostgreSQL
type FriendshipRepository struct {
	db *pgxpool.Pool
}

// NewFriendshipRepository creates a new friendship repository
func NewFriendshipRepository(db *pgxpool.Pool) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// GetEdge retrieves the directed edge from one user to another;
// returns (nil, nil) when no edge exists.
func (r *FriendshipRepository) GetEdge(ctx context.Context, fromUserID, toUserID string) (*domain.Friendship, error) {
	fromUUID, err := parseUserUUID(fromUserID)
	if err != nil {
		return nil, err
	}
	toUUID, err := parseUserUUID(toUserID)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT from_user_id, to_user_id, status, updated_at
		FROM friendships
		WHERE from_user_id = $1 AND to_user_id = $2`

	var edge domain.Friendship
	err = r.db.QueryRow(ctx, query, fromUUID, toUUID).Scan(
		&edge.FromUserID, &edge.ToUserID, &edge.Status, &edge.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship edge: %w", err)
	}
	return &edge, nil
}

// AreFriends reports whether a FRIEND edge exists in either direction.
func (r *FriendshipRepository) AreFriends(ctx context.Context, userID, otherUserID string) (bool, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return false, err
	}
	otherUUID, err := parseUserUUID(otherUserID)
	if err != nil {
		return false, err
	}

	const query = `
		SELECT EXISTS (
			SELECT 1 FROM friendships
			WHERE status = $3
			  AND ((from_user_id = $1 AND to_user_id = $2)
			    OR (from_user_id = $2 AND to_user_id = $1))
		)`

	var friends bool
	if err := r.db.QueryRow(ctx, query, userUUID, otherUUID, domain.FriendshipFriend).Scan(&friends); err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return friends, nil
}

// ListFriends returns all FRIEND edges touching the user, in either
// direction.
func (r *FriendshipRepository) ListFriends(ctx context.Context, userID string) ([]domain.Friendship, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT from_user_id, to_user_id, status, updated_at
		FROM friendships
		WHERE status = $2 AND (from_user_id = $1 OR to_user_id = $1)
		ORDER BY updated_at DESC`

	rows, err := r.db.Query(ctx, query, userUUID, domain.FriendshipFriend)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var edges []domain.Friendship
	for rows.Next() {
		var edge domain.Friendship
		if err := rows.Scan(&edge.FromUserID, &edge.ToUserID, &edge.Status, &edge.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friendship edge: %w", err)
		}
		edges = append(edges, edge)
	}
	return edges, rows.Err()
}

// BeginTx starts a transaction and returns a FriendshipTx
func (r *FriendshipRepository) BeginTx(ctx context.Context) (repository.FriendshipTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	return &friendshipTx{tx: tx}, nil
}

type friendshipTx struct {
	tx pgx.Tx
}

func (t *friendshipTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *friendshipTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetEdgeForUpdate locks the directed edge row for the rest of the
// transaction; returns (nil, nil) when no edge exists.
func (t *friendshipTx) GetEdgeForUpdate(ctx context.Context, fromUserID, toUserID string) (*domain.Friendship, error) {
	fromUUID, err := parseUserUUID(fromUserID)
	if err != nil {
		return nil, err
	}
	toUUID, err := parseUserUUID(toUserID)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT from_user_id, to_user_id, status, updated_at
		FROM friendships
		WHERE from_user_id = $1 AND to_user_id = $2
		FOR UPDATE`

	var edge domain.Friendship
	err = t.tx.QueryRow(ctx, query, fromUUID, toUUID).Scan(
		&edge.FromUserID, &edge.ToUserID, &edge.Status, &edge.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship edge for update: %w", err)
	}
	return &edge, nil
}

func (t *friendshipTx) UpsertEdge(ctx context.Context, edge domain.Friendship) error {
	fromUUID, err := parseUserUUID(edge.FromUserID)
	if err != nil {
		return err
	}
	toUUID, err := parseUserUUID(edge.ToUserID)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO friendships (from_user_id, to_user_id, status, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (from_user_id, to_user_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = now()`

	if _, err := t.tx.Exec(ctx, query, fromUUID, toUUID, edge.Status); err != nil {
		return fmt.Errorf("failed to upsert friendship edge: %w", err)
	}
	return nil
}
