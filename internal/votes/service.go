package votes

import (
	"context"
	"fmt"
	"time"

	"minifignet/internal/domain"
	"minifignet/internal/logger"
	"minifignet/internal/repository"
)

const (
	// BaseCapacity is the vote ceiling at rank 0.
	BaseCapacity = 20
	// CapacityPerRank is the ceiling increase per rank.
	CapacityPerRank = 8

	regenPeriod = 24 * time.Hour
)

// MaxCapacity returns the vote ceiling for a rank.
func MaxCapacity(rank int) int {
	return BaseCapacity + CapacityPerRank*rank
}

// RegenInterval returns the time needed to regenerate one vote at a
// rank. Higher ranks regenerate faster in absolute terms but cap at a
// higher ceiling: the full bar always refills in one day.
func RegenInterval(rank int) time.Duration {
	return regenPeriod / time.Duration(MaxCapacity(rank))
}

// Regenerate applies lazy vote regeneration to the profile as of now.
// Whole elapsed intervals become votes (clamped to capacity); the
// fractional remainder stays encoded in LastVoteUpdate so no
// regeneration time is lost between calls. Returns false when nothing
// changed (less than one interval elapsed).
func Regenerate(p *domain.Profile, now time.Time) bool {
	interval := RegenInterval(p.Rank)
	elapsed := now.Sub(p.LastVoteUpdate)
	if elapsed < interval {
		return false
	}

	newVotes := int(elapsed / interval)
	remainder := elapsed % interval

	p.AvailableVotes = min(p.AvailableVotes+newVotes, MaxCapacity(p.Rank))
	p.LastVoteUpdate = now.Add(-remainder)
	return true
}

// Service maintains the time-regenerating vote resource. There is no
// background clock: Update must run before any read of the available
// count, and Spend refreshes before deducting.
type Service interface {
	Update(ctx context.Context, userID string) (*domain.Profile, error)
	Spend(ctx context.Context, userID string, amount int) (*domain.Profile, error)
}

type service struct {
	repo repository.Profile
	now  func() time.Time
}

// NewService creates a new vote service using the wall clock.
func NewService(repo repository.Profile) Service {
	return NewServiceWithClock(repo, time.Now)
}

// NewServiceWithClock creates a vote service with an injectable clock.
func NewServiceWithClock(repo repository.Profile, now func() time.Time) Service {
	return &service{repo: repo, now: now}
}

func (s *service) withTx(ctx context.Context, operation func(tx repository.ProfileTx) error) error {
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

// Update refreshes the profile's available votes and returns it.
// A call with less than one regen interval elapsed is a no-op.
func (s *service) Update(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile *domain.Profile
	err := s.withTx(ctx, func(tx repository.ProfileTx) error {
		var err error
		profile, err = s.refreshTx(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// Spend refreshes the profile, then deducts amount votes.
func (s *service) Spend(ctx context.Context, userID string, amount int) (*domain.Profile, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, amount)
	}

	var profile *domain.Profile
	err := s.withTx(ctx, func(tx repository.ProfileTx) error {
		var err error
		profile, err = s.refreshTx(ctx, tx, userID)
		if err != nil {
			return err
		}

		if profile.AvailableVotes < amount {
			return fmt.Errorf("%w: have %d, need %d", domain.ErrOutOfVotes, profile.AvailableVotes, amount)
		}
		profile.AvailableVotes -= amount

		if err := tx.UpdateProfile(ctx, *profile); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Votes spent", "userID", userID, "amount", amount, "remaining", profile.AvailableVotes)
	return profile, nil
}

// refreshTx applies regeneration under the profile row lock,
// persisting only when the vote count or update time moved.
func (s *service) refreshTx(ctx context.Context, tx repository.ProfileTx, userID string) (*domain.Profile, error) {
	profile, err := tx.GetProfileForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}

	if Regenerate(profile, s.now()) {
		if err := tx.UpdateProfile(ctx, *profile); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	return profile, nil
}
