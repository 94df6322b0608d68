package repository

import (
	"context"

	"minifignet/internal/domain"
)

// User defines the interface for user persistence.
type User interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	BeginTx(ctx context.Context) (UserTx, error)
}

// UserTx covers the registration transaction: user row, profile row
// and starting stacks are created atomically.
type UserTx interface {
	StackTx
	InsertUser(ctx context.Context, user *domain.User) error
	InsertProfile(ctx context.Context, profile domain.Profile) error
}
