package inventory

import (
	"context"
	"fmt"

	"minifignet/internal/domain"
	"minifignet/internal/logger"
	"minifignet/internal/repository"
)

// ItemCatalog is the read-only item lookup the service validates
// item ids against.
type ItemCatalog interface {
	Item(id int) (*domain.Item, bool)
}

// Service owns the (owner, item) -> quantity mapping. Add and Remove
// are the primitive stack mutations every other game operation
// composes; the Tx variants run inside a caller-owned transaction so
// composite operations (crafting, attachment detach) stay atomic.
type Service interface {
	Add(ctx context.Context, ownerID string, itemID, quantity int) (*domain.Stack, error)
	Remove(ctx context.Context, ownerID string, itemID, quantity int) (*domain.Stack, error)
	List(ctx context.Context, ownerID string) ([]domain.Stack, error)

	// AddTx and RemoveTx mutate stacks inside tx without committing it.
	// RemoveTx returns nil when the stack was deleted (quantity hit zero).
	AddTx(ctx context.Context, tx repository.StackTx, ownerID string, itemID, quantity int) (*domain.Stack, error)
	RemoveTx(ctx context.Context, tx repository.StackTx, ownerID string, itemID, quantity int) (*domain.Stack, error)
}

type service struct {
	repo    repository.Inventory
	catalog ItemCatalog
}

// NewService creates a new inventory service
func NewService(repo repository.Inventory, catalog ItemCatalog) Service {
	return &service{repo: repo, catalog: catalog}
}

func (s *service) withTx(ctx context.Context, operation func(tx repository.StackTx) error) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := operation(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Add increments the owner's stack of the item, creating it on first
// add. The returned stack reflects the persisted quantity.
func (s *service) Add(ctx context.Context, ownerID string, itemID, quantity int) (*domain.Stack, error) {
	if _, ok := s.catalog.Item(itemID); !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrItemNotFound, itemID)
	}

	var stack *domain.Stack
	err := s.withTx(ctx, func(tx repository.StackTx) error {
		var err error
		stack, err = s.AddTx(ctx, tx, ownerID, itemID, quantity)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stack, nil
}

// Remove decrements the owner's stack of the item, deleting it when
// the quantity reaches zero. Returns the remaining stack, or nil when
// the stack was deleted.
func (s *service) Remove(ctx context.Context, ownerID string, itemID, quantity int) (*domain.Stack, error) {
	if _, ok := s.catalog.Item(itemID); !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrItemNotFound, itemID)
	}

	var stack *domain.Stack
	err := s.withTx(ctx, func(tx repository.StackTx) error {
		var err error
		stack, err = s.RemoveTx(ctx, tx, ownerID, itemID, quantity)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stack, nil
}

// List returns all of the owner's stacks.
func (s *service) List(ctx context.Context, ownerID string) ([]domain.Stack, error) {
	stacks, err := s.repo.ListStacks(ctx, ownerID)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to list stacks", "error", err, "ownerID", ownerID)
		return nil, fmt.Errorf("failed to list stacks: %w", err)
	}
	return stacks, nil
}

func (s *service) AddTx(ctx context.Context, tx repository.StackTx, ownerID string, itemID, quantity int) (*domain.Stack, error) {
	if quantity <= 0 || quantity > domain.MaxTransactionQuantity {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, quantity)
	}

	stack, err := tx.GetStackForUpdate(ctx, ownerID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stack: %w", err)
	}
	if stack == nil {
		stack = &domain.Stack{OwnerID: ownerID, ItemID: itemID, Quantity: quantity}
	} else {
		stack.Quantity += quantity
	}

	if err := tx.UpsertStack(ctx, *stack); err != nil {
		return nil, fmt.Errorf("failed to upsert stack: %w", err)
	}
	return stack, nil
}

func (s *service) RemoveTx(ctx context.Context, tx repository.StackTx, ownerID string, itemID, quantity int) (*domain.Stack, error) {
	if quantity <= 0 || quantity > domain.MaxTransactionQuantity {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, quantity)
	}

	stack, err := tx.GetStackForUpdate(ctx, ownerID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stack: %w", err)
	}
	if stack == nil {
		return nil, fmt.Errorf("%w: item %d", domain.ErrItemMissing, itemID)
	}

	switch {
	case stack.Quantity > quantity:
		stack.Quantity -= quantity
		if err := tx.UpsertStack(ctx, *stack); err != nil {
			return nil, fmt.Errorf("failed to upsert stack: %w", err)
		}
		return stack, nil
	case stack.Quantity == quantity:
		if err := tx.DeleteStack(ctx, ownerID, itemID); err != nil {
			return nil, fmt.Errorf("failed to delete stack: %w", err)
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: item %d has %d, requested %d", domain.ErrInsufficientQuantity, itemID, stack.Quantity, quantity)
	}
}
