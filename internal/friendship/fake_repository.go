package friendship

import (
	"context"
	"errors"
	"sync"

	"minifignet/internal/domain"
	"minifignet/internal/repository"
)

type edgeKey struct{ from, to string }

// FakeRepository is an in-memory repository.Friendship for testing
// with staged transaction writes.
type FakeRepository struct {
	mu    sync.Mutex
	edges map[edgeKey]domain.Friendship

	FailBeginTx bool
	FailUpsert  bool
	FailCommit  bool
}

var errInjected = errors.New("injected repository failure")

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{edges: make(map[edgeKey]domain.Friendship)}
}

func (f *FakeRepository) SetEdge(from, to string, status domain.FriendshipStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edges[edgeKey{from, to}] = domain.Friendship{FromUserID: from, ToUserID: to, Status: status}
}

func (f *FakeRepository) GetEdge(ctx context.Context, fromUserID, toUserID string) (*domain.Friendship, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	edge, ok := f.edges[edgeKey{fromUserID, toUserID}]
	if !ok {
		return nil, nil
	}
	return &edge, nil
}

func (f *FakeRepository) AreFriends(ctx context.Context, userID, otherUserID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.edges[edgeKey{userID, otherUserID}]; ok && e.Status == domain.FriendshipFriend {
		return true, nil
	}
	if e, ok := f.edges[edgeKey{otherUserID, userID}]; ok && e.Status == domain.FriendshipFriend {
		return true, nil
	}
	return false, nil
}

func (f *FakeRepository) ListFriends(ctx context.Context, userID string) ([]domain.Friendship, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var friends []domain.Friendship
	for key, edge := range f.edges {
		if edge.Status != domain.FriendshipFriend {
			continue
		}
		if key.from == userID || key.to == userID {
			friends = append(friends, edge)
		}
	}
	return friends, nil
}

func (f *FakeRepository) BeginTx(ctx context.Context) (repository.FriendshipTx, error) {
	if f.FailBeginTx {
		return nil, errInjected
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	staged := make(map[edgeKey]domain.Friendship, len(f.edges))
	for k, v := range f.edges {
		staged[k] = v
	}
	return &fakeFriendshipTx{repo: f, staged: staged}, nil
}

type fakeFriendshipTx struct {
	repo   *FakeRepository
	staged map[edgeKey]domain.Friendship
	closed bool
}

func (t *fakeFriendshipTx) GetEdgeForUpdate(ctx context.Context, fromUserID, toUserID string) (*domain.Friendship, error) {
	edge, ok := t.staged[edgeKey{fromUserID, toUserID}]
	if !ok {
		return nil, nil
	}
	return &edge, nil
}

func (t *fakeFriendshipTx) UpsertEdge(ctx context.Context, edge domain.Friendship) error {
	if t.repo.FailUpsert {
		return errInjected
	}
	t.staged[edgeKey{edge.FromUserID, edge.ToUserID}] = edge
	return nil
}

func (t *fakeFriendshipTx) Commit(ctx context.Context) error {
	if t.repo.FailCommit {
		return errInjected
	}
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.closed = true
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	t.repo.edges = t.staged
	return nil
}

func (t *fakeFriendshipTx) Rollback(ctx context.Context) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.closed = true
	return nil
}
