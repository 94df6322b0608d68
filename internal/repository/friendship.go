package repository

import (
	"context"

	"minifignet/internal/domain"
)

// Friendship defines the interface for friendship edge persistence.
// Edges are directional; AreFriends is the derived symmetric read
// (a FRIEND edge in either direction).
type Friendship interface {
	GetEdge(ctx context.Context, fromUserID, toUserID string) (*domain.Friendship, error)
	AreFriends(ctx context.Context, userID, otherUserID string) (bool, error)
	ListFriends(ctx context.Context, userID string) ([]domain.Friendship, error)
	BeginTx(ctx context.Context) (FriendshipTx, error)
}

// FriendshipTx locks edge rows for the request/accept/block
// read-check-write sequences.
type FriendshipTx interface {
	Tx
	GetEdgeForUpdate(ctx context.Context, fromUserID, toUserID string) (*domain.Friendship, error)
	UpsertEdge(ctx context.Context, edge domain.Friendship) error
}
