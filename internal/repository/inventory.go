package repository

import (
	"context"

	"minifignet/internal/domain"
)

// Inventory defines the interface for inventory stack persistence.
type Inventory interface {
	GetStack(ctx context.Context, ownerID string, itemID int) (*domain.Stack, error)
	ListStacks(ctx context.Context, ownerID string) ([]domain.Stack, error)
	BeginTx(ctx context.Context) (StackTx, error)
}
