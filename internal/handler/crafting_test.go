package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minifignet/internal/crafting"
	"minifignet/internal/inventory"
)

func newCraftingFixture(t *testing.T) (crafting.Service, *inventory.FakeRepository) {
	t.Helper()
	repo := inventory.NewFakeRepository()
	cat := testCatalog(t)
	return crafting.NewService(repo, inventory.NewService(repo, cat), cat), repo
}

func TestHandleCraft(t *testing.T) {
	svc, repo := newCraftingFixture(t)
	userID := uuid.NewString()
	repo.SetStack(userID, itemBlueprint, 1)
	repo.SetStack(userID, itemBrick, 4)
	repo.SetStack(userID, itemGear, 1)

	rec := doJSON(t, HandleCraft(svc), http.MethodPost, "/craft", CraftRequest{
		UserID:          userID,
		BlueprintItemID: itemBlueprint,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CraftResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, itemWindmill, resp.Result.Produced.ItemID)
	assert.Equal(t, 1, repo.Quantity(userID, itemWindmill))
	assert.Equal(t, 0, repo.Quantity(userID, itemBrick))
	// The blueprint survives crafting.
	assert.Equal(t, 1, repo.Quantity(userID, itemBlueprint))
}

func TestHandleCraftBlueprintNotOwned(t *testing.T) {
	svc, repo := newCraftingFixture(t)
	userID := uuid.NewString()
	repo.SetStack(userID, itemBrick, 4)
	repo.SetStack(userID, itemGear, 1)

	rec := doJSON(t, HandleCraft(svc), http.MethodPost, "/craft", CraftRequest{
		UserID:          userID,
		BlueprintItemID: itemBlueprint,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeBlueprintNotOwned, errorCode(t, rec))
}

func TestHandleCraftRequirementsNotMet(t *testing.T) {
	svc, repo := newCraftingFixture(t)
	userID := uuid.NewString()
	repo.SetStack(userID, itemBlueprint, 1)
	repo.SetStack(userID, itemBrick, 1)
	repo.SetStack(userID, itemGear, 1)

	rec := doJSON(t, HandleCraft(svc), http.MethodPost, "/craft", CraftRequest{
		UserID:          userID,
		BlueprintItemID: itemBlueprint,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeRequirementsNotMet, errorCode(t, rec))
	// The verify failure must leave every stack untouched.
	assert.Equal(t, 1, repo.Quantity(userID, itemBrick))
}

func TestHandleCraftUnknownBlueprint(t *testing.T) {
	svc, _ := newCraftingFixture(t)

	rec := doJSON(t, HandleCraft(svc), http.MethodPost, "/craft", CraftRequest{
		UserID:          uuid.NewString(),
		BlueprintItemID: 999,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeBlueprintNotFound, errorCode(t, rec))
}
