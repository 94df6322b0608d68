package user

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/text/cases"

	"minifignet/internal/domain"
	"minifignet/internal/repository"
)

// FakeRepository is an in-memory repository.User for tests.
// Registration writes are staged on a transaction copy and only
// published by Commit.
type FakeRepository struct {
	mu       sync.Mutex
	users    map[string]domain.User  // by id
	byName   map[string]string       // folded username -> id
	profiles map[string]domain.Profile
	stacks   map[string]map[int]int

	FailBeginTx       bool
	FailGetUser       bool
	FailInsertUser    bool
	FailInsertProfile bool
	FailCommit        bool
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		users:    make(map[string]domain.User),
		byName:   make(map[string]string),
		profiles: make(map[string]domain.Profile),
		stacks:   make(map[string]map[int]int),
	}
}

// SeedUser inserts a user directly, bypassing transactions.
func (f *FakeRepository) SeedUser(user domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	f.byName[cases.Fold().String(user.Username)] = user.ID
}

// Profile returns the stored profile for assertions.
func (f *FakeRepository) Profile(userID string) (domain.Profile, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	return p, ok
}

// Quantity reports a stack size, 0 when absent.
func (f *FakeRepository) Quantity(ownerID string, itemID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stacks[ownerID][itemID]
}

// UserCount reports the number of stored users.
func (f *FakeRepository) UserCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

func (f *FakeRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailGetUser {
		return nil, errors.New("fake get user error")
	}
	user, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (f *FakeRepository) GetUserByUsername(ctx context.Context, usernameKey string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailGetUser {
		return nil, errors.New("fake get user error")
	}
	id, ok := f.byName[usernameKey]
	if !ok {
		return nil, nil
	}
	user := f.users[id]
	return &user, nil
}

func (f *FakeRepository) BeginTx(ctx context.Context) (repository.UserTx, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailBeginTx {
		return nil, errors.New("fake begin tx error")
	}
	tx := &fakeUserTx{
		repo:     f,
		users:    make(map[string]domain.User, len(f.users)),
		byName:   make(map[string]string, len(f.byName)),
		profiles: make(map[string]domain.Profile, len(f.profiles)),
		stacks:   make(map[string]map[int]int, len(f.stacks)),
	}
	for id, u := range f.users {
		tx.users[id] = u
	}
	for name, id := range f.byName {
		tx.byName[name] = id
	}
	for id, p := range f.profiles {
		tx.profiles[id] = p
	}
	for owner, items := range f.stacks {
		tx.stacks[owner] = make(map[int]int, len(items))
		for item, qty := range items {
			tx.stacks[owner][item] = qty
		}
	}
	return tx, nil
}

type fakeUserTx struct {
	repo     *FakeRepository
	users    map[string]domain.User
	byName   map[string]string
	profiles map[string]domain.Profile
	stacks   map[string]map[int]int
	closed   bool
}

func (t *fakeUserTx) InsertUser(ctx context.Context, user *domain.User) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	if t.repo.FailInsertUser {
		return errors.New("fake insert user error")
	}
	key := cases.Fold().String(user.Username)
	if _, taken := t.byName[key]; taken {
		return errors.New("fake: duplicate username")
	}
	t.users[user.ID] = *user
	t.byName[key] = user.ID
	return nil
}

func (t *fakeUserTx) InsertProfile(ctx context.Context, profile domain.Profile) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	if t.repo.FailInsertProfile {
		return errors.New("fake insert profile error")
	}
	t.profiles[profile.UserID] = profile
	return nil
}

func (t *fakeUserTx) GetStackForUpdate(ctx context.Context, ownerID string, itemID int) (*domain.Stack, error) {
	if t.closed {
		return nil, errors.New(domain.ErrMsgTxClosed)
	}
	qty, ok := t.stacks[ownerID][itemID]
	if !ok {
		return nil, nil
	}
	return &domain.Stack{OwnerID: ownerID, ItemID: itemID, Quantity: qty}, nil
}

func (t *fakeUserTx) UpsertStack(ctx context.Context, stack domain.Stack) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	if t.stacks[stack.OwnerID] == nil {
		t.stacks[stack.OwnerID] = make(map[int]int)
	}
	t.stacks[stack.OwnerID][stack.ItemID] = stack.Quantity
	return nil
}

func (t *fakeUserTx) DeleteStack(ctx context.Context, ownerID string, itemID int) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	delete(t.stacks[ownerID], itemID)
	return nil
}

func (t *fakeUserTx) Commit(ctx context.Context) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	if t.repo.FailCommit {
		t.closed = true
		return errors.New("fake commit error")
	}
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	t.repo.users = t.users
	t.repo.byName = t.byName
	t.repo.profiles = t.profiles
	t.repo.stacks = t.stacks
	t.closed = true
	return nil
}

func (t *fakeUserTx) Rollback(ctx context.Context) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.closed = true
	return nil
}
