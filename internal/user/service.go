package user

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"minifignet/internal/domain"
	"minifignet/internal/inventory"
	"minifignet/internal/logger"
	"minifignet/internal/repository"
	"minifignet/internal/votes"
)

const (
	userCacheSize = 1000
	userCacheTTL  = 5 * time.Minute

	minUsernameLength = 3
	maxUsernameLength = 32
)

// StartingCatalog supplies the stacks seeded into every new account.
type StartingCatalog interface {
	StartingStacks() []domain.StartingStack
}

// Service owns account lifecycle and lookup. Registration creates the
// user row, its vote profile and the starting inventory in one
// transaction. Username lookup is case-insensitive via Unicode case
// folding, with a small LRU in front of the database.
type Service interface {
	Register(ctx context.Context, username string) (*domain.User, error)
	RegisterNetworker(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type service struct {
	repo      repository.User
	inventory inventory.Service
	catalog   StartingCatalog
	userCache *userCache
}

// NewService creates a new user service
func NewService(repo repository.User, inventorySvc inventory.Service, catalog StartingCatalog) Service {
	return &service{
		repo:      repo,
		inventory: inventorySvc,
		catalog:   catalog,
		userCache: newUserCache(userCacheSize, userCacheTTL),
	}
}

// foldUsername normalizes a username for case-insensitive comparison.
// Two usernames are the same account name iff their folded forms are
// equal. A Caser is stateful, so each call gets its own.
func (s *service) foldUsername(username string) string {
	return cases.Fold().String(username)
}

// Register creates a regular account.
func (s *service) Register(ctx context.Context, username string) (*domain.User, error) {
	return s.register(ctx, username, false)
}

// RegisterNetworker creates an account exempt from the friends-only
// mail rule. Networkers are operator-created story accounts, not
// sign-ups.
func (s *service) RegisterNetworker(ctx context.Context, username string) (*domain.User, error) {
	return s.register(ctx, username, true)
}

func (s *service) register(ctx context.Context, username string, isNetworker bool) (*domain.User, error) {
	log := logger.FromContext(ctx)

	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	key := s.foldUsername(username)
	existing, err := s.repo.GetUserByUsername(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserExists, username)
	}

	user := &domain.User{
		ID:          uuid.NewString(),
		Username:    username,
		IsNetworker: isNetworker,
	}
	profile := domain.Profile{
		UserID:         user.ID,
		Rank:           0,
		AvailableVotes: votes.MaxCapacity(0),
		LastVoteUpdate: time.Now().UTC(),
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.InsertUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	if err := tx.InsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to insert profile: %w", err)
	}
	for _, starting := range s.catalog.StartingStacks() {
		if _, err := s.inventory.AddTx(ctx, tx, user.ID, starting.ItemID, starting.Quantity); err != nil {
			return nil, fmt.Errorf("failed to seed starting stack %d: %w", starting.ItemID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	s.userCache.Set(key, user)
	log.Info("User registered", "userID", user.ID, "username", username, "networker", isNetworker)
	return user, nil
}

// GetByID fetches a user; returns ErrUserNotFound when absent.
func (s *service) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return user, nil
}

// GetByUsername fetches a user by name, ignoring case.
func (s *service) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	log := logger.FromContext(ctx)
	key := s.foldUsername(strings.TrimSpace(username))

	if user, ok := s.userCache.Get(key); ok {
		log.Debug("User cache hit", "username", username)
		return user, nil
	}

	user, err := s.repo.GetUserByUsername(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
	}

	s.userCache.Set(key, user)
	return user, nil
}

func validateUsername(username string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return fmt.Errorf("%w: username must be %d-%d characters", domain.ErrInvalidInput, minUsernameLength, maxUsernameLength)
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return fmt.Errorf("%w: username contains invalid character %q", domain.ErrInvalidInput, r)
		}
	}
	return nil
}
