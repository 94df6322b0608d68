package friendship

import (
	"context"
	"fmt"
	"time"

	"minifignet/internal/domain"
	"minifignet/internal/logger"
	"minifignet/internal/repository"
)

// Service is the directed friendship state machine. Every ordered
// user pair has at most one edge (absent, PENDING, FRIEND or
// BLOCKED); edges are never deleted, only overwritten. Effective
// friendship between two users is a FRIEND edge in either direction
// -- the single canonical rule every read path uses.
type Service interface {
	// SendRequest records a pending invitation from fromUserID to toUserID.
	SendRequest(ctx context.Context, fromUserID, toUserID string) (*domain.Friendship, error)
	// Accept lets toUserID accept the pending invitation sent by fromUserID.
	Accept(ctx context.Context, fromUserID, toUserID string) (*domain.Friendship, error)
	// Block unconditionally marks toUserID as blocked by fromUserID.
	Block(ctx context.Context, fromUserID, toUserID string) (*domain.Friendship, error)

	AreFriends(ctx context.Context, userID, otherUserID string) (bool, error)
	ListFriends(ctx context.Context, userID string) ([]domain.Friendship, error)
}

type service struct {
	repo repository.Friendship
	now  func() time.Time
}

// NewService creates a new friendship service
func NewService(repo repository.Friendship) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) withTx(ctx context.Context, operation func(tx repository.FriendshipTx) error) error {
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

// lockBothDirections fetches both edges of a pair under row locks,
// always locking the lexicographically smaller ordered pair first so
// concurrent writers on the same pair cannot deadlock.
func lockBothDirections(ctx context.Context, tx repository.FriendshipTx, a, b string) (ab, ba *domain.Friendship, err error) {
	first, second := a, b
	swap := a > b
	if swap {
		first, second = b, a
	}

	firstEdge, err := tx.GetEdgeForUpdate(ctx, first, second)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get edge: %w", err)
	}
	secondEdge, err := tx.GetEdgeForUpdate(ctx, second, first)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get edge: %w", err)
	}

	if swap {
		return secondEdge, firstEdge, nil
	}
	return firstEdge, secondEdge, nil
}

func (s *service) SendRequest(ctx context.Context, fromUserID, toUserID string) (*domain.Friendship, error) {
	if fromUserID == toUserID {
		return nil, fmt.Errorf("%w: cannot friend yourself", domain.ErrInvalidInput)
	}

	var edge *domain.Friendship
	err := s.withTx(ctx, func(tx repository.FriendshipTx) error {
		forward, reverse, err := lockBothDirections(ctx, tx, fromUserID, toUserID)
		if err != nil {
			return err
		}

		if reverse != nil {
			switch reverse.Status {
			case domain.FriendshipBlocked:
				return domain.ErrYouAreBlocked
			case domain.FriendshipFriend:
				return domain.ErrAlreadyFriends
			}
		}
		if forward != nil {
			switch forward.Status {
			case domain.FriendshipFriend:
				return domain.ErrAlreadyFriends
			case domain.FriendshipPending:
				return domain.ErrInvitationAlreadyExists
			}
		}

		edge = &domain.Friendship{
			FromUserID: fromUserID,
			ToUserID:   toUserID,
			Status:     domain.FriendshipPending,
			UpdatedAt:  s.now(),
		}
		return tx.UpsertEdge(ctx, *edge)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Friend request sent", "from", fromUserID, "to", toUserID)
	return edge, nil
}

func (s *service) Accept(ctx context.Context, fromUserID, toUserID string) (*domain.Friendship, error) {
	var edge *domain.Friendship
	err := s.withTx(ctx, func(tx repository.FriendshipTx) error {
		forward, err := tx.GetEdgeForUpdate(ctx, fromUserID, toUserID)
		if err != nil {
			return fmt.Errorf("failed to get edge: %w", err)
		}
		if forward == nil || forward.Status != domain.FriendshipPending {
			return domain.ErrInvitationNotFound
		}

		forward.Status = domain.FriendshipFriend
		forward.UpdatedAt = s.now()
		edge = forward
		return tx.UpsertEdge(ctx, *forward)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Friend request accepted", "from", fromUserID, "to", toUserID)
	return edge, nil
}

func (s *service) Block(ctx context.Context, fromUserID, toUserID string) (*domain.Friendship, error) {
	if fromUserID == toUserID {
		return nil, fmt.Errorf("%w: cannot block yourself", domain.ErrInvalidInput)
	}

	edge := &domain.Friendship{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     domain.FriendshipBlocked,
		UpdatedAt:  s.now(),
	}
	err := s.withTx(ctx, func(tx repository.FriendshipTx) error {
		// Lock the row first so the overwrite serializes with
		// concurrent request/accept on the same pair
		if _, err := tx.GetEdgeForUpdate(ctx, fromUserID, toUserID); err != nil {
			return fmt.Errorf("failed to get edge: %w", err)
		}
		return tx.UpsertEdge(ctx, *edge)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("User blocked", "from", fromUserID, "to", toUserID)
	return edge, nil
}

func (s *service) AreFriends(ctx context.Context, userID, otherUserID string) (bool, error) {
	return s.repo.AreFriends(ctx, userID, otherUserID)
}

func (s *service) ListFriends(ctx context.Context, userID string) ([]domain.Friendship, error) {
	return s.repo.ListFriends(ctx, userID)
}
