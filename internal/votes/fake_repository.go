package votes

import (
	"context"
	"errors"
	"sync"

	"minifignet/internal/domain"
	"minifignet/internal/repository"
)

// FakeRepository is an in-memory repository.Profile for testing, with
// staged transaction writes so rollback paths can be verified.
type FakeRepository struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile

	FailBeginTx bool
	FailUpdate  bool
	FailCommit  bool
}

var errInjected = errors.New("injected repository failure")

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{profiles: make(map[string]domain.Profile)}
}

func (f *FakeRepository) SetProfile(p domain.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.UserID] = p
}

func (f *FakeRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *FakeRepository) BeginTx(ctx context.Context) (repository.ProfileTx, error) {
	if f.FailBeginTx {
		return nil, errInjected
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	staged := make(map[string]domain.Profile, len(f.profiles))
	for id, p := range f.profiles {
		staged[id] = p
	}
	return &fakeProfileTx{repo: f, staged: staged}, nil
}

type fakeProfileTx struct {
	repo   *FakeRepository
	staged map[string]domain.Profile
	closed bool
}

func (t *fakeProfileTx) GetProfileForUpdate(ctx context.Context, userID string) (*domain.Profile, error) {
	p, ok := t.staged[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (t *fakeProfileTx) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	if t.repo.FailUpdate {
		return errInjected
	}
	t.staged[profile.UserID] = profile
	return nil
}

func (t *fakeProfileTx) Commit(ctx context.Context) error {
	if t.repo.FailCommit {
		return errInjected
	}
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.closed = true
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	t.repo.profiles = t.staged
	return nil
}

func (t *fakeProfileTx) Rollback(ctx context.Context) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.closed = true
	return nil
}
