package repository

import (
	"context"

	"minifignet/internal/domain"
)

// Profile defines the interface for profile persistence.
type Profile interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	BeginTx(ctx context.Context) (ProfileTx, error)
}

// ProfileTx holds a row lock on one profile for the vote
// regeneration read-modify-write.
type ProfileTx interface {
	Tx
	GetProfileForUpdate(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profile domain.Profile) error
}
