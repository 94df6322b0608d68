package repository

import (
	"context"

	"minifignet/internal/domain"
)

// Tx is the base handle for transactional operations.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// StackTx provides row-locked stack operations inside a transaction.
// GetStackForUpdate returns (nil, nil) when no stack exists; the row,
// when present, stays locked until the transaction ends.
type StackTx interface {
	Tx
	GetStackForUpdate(ctx context.Context, ownerID string, itemID int) (*domain.Stack, error)
	UpsertStack(ctx context.Context, stack domain.Stack) error
	DeleteStack(ctx context.Context, ownerID string, itemID int) error
}
