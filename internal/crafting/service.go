package crafting

import (
	"context"
	"fmt"
	"sort"

	"minifignet/internal/domain"
	"minifignet/internal/inventory"
	"minifignet/internal/logger"
	"minifignet/internal/repository"
)

// BlueprintCatalog is the read-only blueprint lookup.
type BlueprintCatalog interface {
	Blueprint(itemID int) (*domain.Blueprint, bool)
}

// Result describes a successful craft.
type Result struct {
	Produced domain.Stack                  `json:"produced"`
	Consumed []domain.BlueprintRequirement `json:"consumed"`
}

// Service turns blueprint requirements into the built item. The whole
// operation is one transaction: verify every requirement under row
// locks, then deduct and add, so a concurrent reader never observes a
// half-applied craft.
type Service interface {
	Craft(ctx context.Context, ownerID string, blueprintItemID int) (*Result, error)
}

type service struct {
	repo      repository.Inventory
	inventory inventory.Service
	catalog   BlueprintCatalog
}

// NewService creates a new crafting service
func NewService(repo repository.Inventory, inventorySvc inventory.Service, catalog BlueprintCatalog) Service {
	return &service{repo: repo, inventory: inventorySvc, catalog: catalog}
}

func (s *service) Craft(ctx context.Context, ownerID string, blueprintItemID int) (*Result, error) {
	log := logger.FromContext(ctx)

	bp, ok := s.catalog.Blueprint(blueprintItemID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrBlueprintNotFound, blueprintItemID)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// Verify phase: lock every involved stack in ascending item-ID
	// order (deadlock avoidance), then check quantities. No mutation
	// happens until every check has passed.
	stacks, err := lockStacks(ctx, tx, ownerID, lockOrder(bp))
	if err != nil {
		return nil, err
	}

	// Holding the blueprint is required; crafting does not consume it
	if stacks[bp.ItemID] == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrBlueprintNotOwned, bp.ItemID)
	}
	for _, req := range bp.Requirements {
		held := stacks[req.ItemID]
		if held == nil || held.Quantity < req.Quantity {
			return nil, fmt.Errorf("%w: item %d", domain.ErrBlueprintRequirementsNotMet, req.ItemID)
		}
	}

	// Commit phase: deduct requirements, add one built item. Any
	// failure here aborts the transaction as a whole.
	for _, req := range bp.Requirements {
		if _, err := s.inventory.RemoveTx(ctx, tx, ownerID, req.ItemID, req.Quantity); err != nil {
			return nil, fmt.Errorf("failed to consume requirement %d: %w", req.ItemID, err)
		}
	}
	produced, err := s.inventory.AddTx(ctx, tx, ownerID, bp.BuildItemID, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to add built item: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit craft: %w", err)
	}

	log.Info("Blueprint used", "ownerID", ownerID, "blueprint", bp.ItemID, "built", bp.BuildItemID)
	return &Result{Produced: *produced, Consumed: bp.Requirements}, nil
}

// lockOrder returns the distinct item IDs a craft touches, ascending.
func lockOrder(bp *domain.Blueprint) []int {
	seen := map[int]bool{bp.ItemID: true}
	ids := []int{bp.ItemID}
	for _, req := range bp.Requirements {
		if !seen[req.ItemID] {
			seen[req.ItemID] = true
			ids = append(ids, req.ItemID)
		}
	}
	sort.Ints(ids)
	return ids
}

func lockStacks(ctx context.Context, tx repository.StackTx, ownerID string, itemIDs []int) (map[int]*domain.Stack, error) {
	stacks := make(map[int]*domain.Stack, len(itemIDs))
	for _, id := range itemIDs {
		stack, err := tx.GetStackForUpdate(ctx, ownerID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to lock stack %d: %w", id, err)
		}
		stacks[id] = stack
	}
	return stacks, nil
}
