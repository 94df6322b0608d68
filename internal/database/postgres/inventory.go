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

// InventoryRepository implements the inventory repository for PostgreSQL
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// GetStack retrieves a single stack; returns (nil, nil) when absent.
func (r *InventoryRepository) GetStack(ctx context.Context, ownerID string, itemID int) (*domain.Stack, error) {
	ownerUUID, err := parseUserUUID(ownerID)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT owner_id, item_id, quantity
		FROM inventory_stacks
		WHERE owner_id = $1 AND item_id = $2`

	var stack domain.Stack
	err = r.db.QueryRow(ctx, query, ownerUUID, itemID).Scan(&stack.OwnerID, &stack.ItemID, &stack.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stack: %w", err)
	}
	return &stack, nil
}

// ListStacks retrieves all stacks for an owner ordered by item id.
func (r *InventoryRepository) ListStacks(ctx context.Context, ownerID string) ([]domain.Stack, error) {
	ownerUUID, err := parseUserUUID(ownerID)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT owner_id, item_id, quantity
		FROM inventory_stacks
		WHERE owner_id = $1
		ORDER BY item_id`

	rows, err := r.db.Query(ctx, query, ownerUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stacks: %w", err)
	}
	defer rows.Close()

	var stacks []domain.Stack
	for rows.Next() {
		var stack domain.Stack
		if err := rows.Scan(&stack.OwnerID, &stack.ItemID, &stack.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan stack: %w", err)
		}
		stacks = append(stacks, stack)
	}
	return stacks, rows.Err()
}

// BeginTx starts a transaction and returns a StackTx
func (r *InventoryRepository) BeginTx(ctx context.Context) (repository.StackTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	return &stackTx{tx: tx}, nil
}

// stackTx implements repository.StackTx over a pgx transaction. Other
// transaction types embed it so composite operations share the stack
// statements.
type stackTx struct {
	tx pgx.Tx
}

func (t *stackTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *stackTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetStackForUpdate locks the stack row for the rest of the
// transaction; returns (nil, nil) when the stack does not exist.
func (t *stackTx) GetStackForUpdate(ctx context.Context, ownerID string, itemID int) (*domain.Stack, error) {
	ownerUUID, err := parseUserUUID(ownerID)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT owner_id, item_id, quantity
		FROM inventory_stacks
		WHERE owner_id = $1 AND item_id = $2
		FOR UPDATE`

	var stack domain.Stack
	err = t.tx.QueryRow(ctx, query, ownerUUID, itemID).Scan(&stack.OwnerID, &stack.ItemID, &stack.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stack for update: %w", err)
	}
	return &stack, nil
}

func (t *stackTx) UpsertStack(ctx context.Context, stack domain.Stack) error {
	ownerUUID, err := parseUserUUID(stack.OwnerID)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO inventory_stacks (owner_id, item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, item_id) DO UPDATE SET quantity = EXCLUDED.quantity`

	if _, err := t.tx.Exec(ctx, query, ownerUUID, stack.ItemID, stack.Quantity); err != nil {
		return fmt.Errorf("failed to upsert stack: %w", err)
	}
	return nil
}

func (t *stackTx) DeleteStack(ctx context.Context, ownerID string, itemID int) error {
	ownerUUID, err := parseUserUUID(ownerID)
	if err != nil {
		return err
	}

	const query = `DELETE FROM inventory_stacks WHERE owner_id = $1 AND item_id = $2`

	if _, err := t.tx.Exec(ctx, query, ownerUUID, itemID); err != nil {
		return fmt.Errorf("failed to delete stack: %w", err)
	}
	return nil
}
