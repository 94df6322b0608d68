package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minifignet/internal/inventory"
	"minifignet/internal/user"
)

func newUserFixture(t *testing.T) (user.Service, *user.FakeRepository) {
	t.Helper()
	repo := user.NewFakeRepository()
	cat := testCatalog(t)
	inventorySvc := inventory.NewService(inventory.NewFakeRepository(), cat)
	return user.NewService(repo, inventorySvc, cat), repo
}

func TestHandleRegisterUser(t *testing.T) {
	svc, repo := newUserFixture(t)

	rec := doJSON(t, HandleRegisterUser(svc), http.MethodPost, "/user/register", RegisterUserRequest{
		Username: "brickfan42",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp RegisterUserResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "brickfan42", resp.User.Username)
	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, 1, repo.UserCount())

	// Starting stacks from the catalog are seeded during registration.
	assert.Equal(t, 5, repo.Quantity(resp.User.ID, itemBrick))
}

func TestHandleRegisterUserDuplicate(t *testing.T) {
	svc, _ := newUserFixture(t)

	rec := doJSON(t, HandleRegisterUser(svc), http.MethodPost, "/user/register", RegisterUserRequest{Username: "brickfan42"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, HandleRegisterUser(svc), http.MethodPost, "/user/register", RegisterUserRequest{Username: "BrickFan42"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, CodeUserExists, errorCode(t, rec))
}

func TestHandleRegisterUserValidation(t *testing.T) {
	svc, _ := newUserFixture(t)

	tests := []struct {
		name     string
		username string
	}{
		{name: "empty", username: ""},
		{name: "too short", username: "ab"},
		{name: "too long", username: "a-username-well-past-the-thirty-two-limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, HandleRegisterUser(svc), http.MethodPost, "/user/register", RegisterUserRequest{Username: tt.username})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, CodeInvalidRequest, errorCode(t, rec))
		})
	}
}

func TestHandleRegisterUserMalformedBody(t *testing.T) {
	svc, _ := newUserFixture(t)

	rec := doJSON(t, HandleRegisterUser(svc), http.MethodPost, "/user/register", "not an object")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeInvalidRequest, errorCode(t, rec))
}
