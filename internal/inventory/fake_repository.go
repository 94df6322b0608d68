package inventory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"minifignet/internal/domain"
	"minifignet/internal/repository"
)

// FakeRepository is a stateful in-memory implementation of
// repository.Inventory for testing. Transactions stage their writes
// on a copy and only publish them on Commit, so rollback behavior of
// composite operations can be asserted for real. Crafting tests reuse
// it since the crafting engine runs on the same repository interface.
type FakeRepository struct {
	mu     sync.Mutex
	stacks map[string]map[int]int // ownerID -> itemID -> quantity

	// Error injection for testing failure paths
	FailBeginTx  bool
	FailGetStack bool
	FailUpsert   bool
	FailDelete   bool
	FailCommit   bool
}

var errInjected = errors.New("injected repository failure")

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{stacks: make(map[string]map[int]int)}
}

// SetStack seeds a stack directly, bypassing transactional checks.
func (f *FakeRepository) SetStack(ownerID string, itemID, quantity int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stacks[ownerID] == nil {
		f.stacks[ownerID] = make(map[int]int)
	}
	f.stacks[ownerID][itemID] = quantity
}

// Quantity reports the stored quantity, zero when no stack exists.
func (f *FakeRepository) Quantity(ownerID string, itemID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stacks[ownerID][itemID]
}

func (f *FakeRepository) GetStack(ctx context.Context, ownerID string, itemID int) (*domain.Stack, error) {
	if f.FailGetStack {
		return nil, errInjected
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	qty, ok := f.stacks[ownerID][itemID]
	if !ok {
		return nil, nil
	}
	return &domain.Stack{OwnerID: ownerID, ItemID: itemID, Quantity: qty}, nil
}

func (f *FakeRepository) ListStacks(ctx context.Context, ownerID string) ([]domain.Stack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owned := f.stacks[ownerID]
	stacks := make([]domain.Stack, 0, len(owned))
	for itemID, qty := range owned {
		stacks = append(stacks, domain.Stack{OwnerID: ownerID, ItemID: itemID, Quantity: qty})
	}
	sort.Slice(stacks, func(i, j int) bool { return stacks[i].ItemID < stacks[j].ItemID })
	return stacks, nil
}

func (f *FakeRepository) BeginTx(ctx context.Context) (repository.StackTx, error) {
	if f.FailBeginTx {
		return nil, errInjected
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	staged := make(map[string]map[int]int, len(f.stacks))
	for owner, owned := range f.stacks {
		staged[owner] = make(map[int]int, len(owned))
		for itemID, qty := range owned {
			staged[owner][itemID] = qty
		}
	}
	return &fakeStackTx{repo: f, staged: staged}, nil
}

type fakeStackTx struct {
	repo   *FakeRepository
	staged map[string]map[int]int
	closed bool
}

func (t *fakeStackTx) GetStackForUpdate(ctx context.Context, ownerID string, itemID int) (*domain.Stack, error) {
	if t.repo.FailGetStack {
		return nil, errInjected
	}
	qty, ok := t.staged[ownerID][itemID]
	if !ok {
		return nil, nil
	}
	return &domain.Stack{OwnerID: ownerID, ItemID: itemID, Quantity: qty}, nil
}

func (t *fakeStackTx) UpsertStack(ctx context.Context, stack domain.Stack) error {
	if t.repo.FailUpsert {
		return errInjected
	}
	if t.staged[stack.OwnerID] == nil {
		t.staged[stack.OwnerID] = make(map[int]int)
	}
	t.staged[stack.OwnerID][stack.ItemID] = stack.Quantity
	return nil
}

func (t *fakeStackTx) DeleteStack(ctx context.Context, ownerID string, itemID int) error {
	if t.repo.FailDelete {
		return errInjected
	}
	delete(t.staged[ownerID], itemID)
	return nil
}

func (t *fakeStackTx) Commit(ctx context.Context) error {
	if t.repo.FailCommit {
		return errInjected
	}
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.closed = true
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	t.repo.stacks = t.staged
	return nil
}

func (t *fakeStackTx) Rollback(ctx context.Context) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.closed = true
	return nil
}
