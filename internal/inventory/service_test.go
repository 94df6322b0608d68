package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minifignet/internal/catalog"
	"minifignet/internal/domain"
)

const (
	testOwner = "user-1"

	itemApple  = 1
	itemBrick  = 2
	itemUnreal = 99
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]domain.Item{
		{ID: itemApple, Name: "Apple", Type: domain.ItemTypeItem},
		{ID: itemBrick, Name: "Red Brick", Type: domain.ItemTypeItem},
	}, nil, nil, nil)
	require.NoError(t, err)
	return c
}

func newTestService(t *testing.T) (Service, *FakeRepository) {
	repo := NewFakeRepository()
	return NewService(repo, testCatalog(t)), repo
}

func TestAddCreatesThenMergesStack(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	stack, err := svc.Add(ctx, testOwner, itemApple, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, stack.Quantity)

	stack, err = svc.Add(ctx, testOwner, itemApple, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, stack.Quantity, "second add must merge into the same stack")

	stacks, err := svc.List(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, stacks, 1, "exactly one stack per (owner, item)")
	assert.Equal(t, 7, repo.Quantity(testOwner, itemApple))
}

func TestAddRejectsInvalidQuantity(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	for _, qty := range []int{0, -1, domain.MaxTransactionQuantity + 1} {
		_, err := svc.Add(ctx, testOwner, itemApple, qty)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "quantity %d", qty)
	}
	assert.Equal(t, 0, repo.Quantity(testOwner, itemApple))
}

func TestAddUnknownItem(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Add(context.Background(), testOwner, itemUnreal, 1)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestRemovePartial(t *testing.T) {
	svc, repo := newTestService(t)
	repo.SetStack(testOwner, itemApple, 5)

	stack, err := svc.Remove(context.Background(), testOwner, itemApple, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, stack.Quantity)
	assert.Equal(t, 3, repo.Quantity(testOwner, itemApple))
}

func TestRemoveExactQuantityDeletesStack(t *testing.T) {
	svc, repo := newTestService(t)
	repo.SetStack(testOwner, itemApple, 5)

	stack, err := svc.Remove(context.Background(), testOwner, itemApple, 5)
	require.NoError(t, err)
	assert.Nil(t, stack, "deleted stack is reported as nil")

	stacks, err := svc.List(context.Background(), testOwner)
	require.NoError(t, err)
	assert.Empty(t, stacks, "zero-quantity stacks must not be stored")
}

func TestRemoveMoreThanHeld(t *testing.T) {
	svc, repo := newTestService(t)
	repo.SetStack(testOwner, itemApple, 2)

	_, err := svc.Remove(context.Background(), testOwner, itemApple, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
	assert.Equal(t, 2, repo.Quantity(testOwner, itemApple), "failed remove must not mutate")
}

func TestRemoveMissingStack(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Remove(context.Background(), testOwner, itemBrick, 1)
	assert.ErrorIs(t, err, domain.ErrItemMissing)
}

func TestRemoveRejectsInvalidQuantity(t *testing.T) {
	svc, repo := newTestService(t)
	repo.SetStack(testOwner, itemApple, 5)

	_, err := svc.Remove(context.Background(), testOwner, itemApple, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, 5, repo.Quantity(testOwner, itemApple))
}

func TestAddRollsBackOnCommitFailure(t *testing.T) {
	svc, repo := newTestService(t)
	repo.FailCommit = true

	_, err := svc.Add(context.Background(), testOwner, itemApple, 3)
	assert.Error(t, err)
	assert.Equal(t, 0, repo.Quantity(testOwner, itemApple))
}
