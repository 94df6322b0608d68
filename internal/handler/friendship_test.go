package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minifignet/internal/domain"
	"minifignet/internal/friendship"
)

func TestHandleFriendRequestAndAccept(t *testing.T) {
	svc := friendship.NewService(friendship.NewFakeRepository())
	alice, bob := uuid.NewString(), uuid.NewString()

	rec := doJSON(t, HandleFriendRequest(svc), http.MethodPost, "/friends/request", FriendshipRequest{
		FromUserID: alice,
		ToUserID:   bob,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp FriendshipResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, domain.FriendshipPending, resp.Edge.Status)

	rec = doJSON(t, HandleFriendAccept(svc), http.MethodPost, "/friends/accept", FriendshipRequest{
		FromUserID: alice,
		ToUserID:   bob,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	assert.Equal(t, domain.FriendshipFriend, resp.Edge.Status)
}

func TestHandleFriendRequestDuplicate(t *testing.T) {
	repo := friendship.NewFakeRepository()
	svc := friendship.NewService(repo)
	alice, bob := uuid.NewString(), uuid.NewString()
	repo.SetEdge(alice, bob, domain.FriendshipPending)

	rec := doJSON(t, HandleFriendRequest(svc), http.MethodPost, "/friends/request", FriendshipRequest{
		FromUserID: alice,
		ToUserID:   bob,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, CodeInvitationAlreadyExists, errorCode(t, rec))
}

func TestHandleFriendRequestToBlocker(t *testing.T) {
	repo := friendship.NewFakeRepository()
	svc := friendship.NewService(repo)
	alice, bob := uuid.NewString(), uuid.NewString()
	repo.SetEdge(bob, alice, domain.FriendshipBlocked)

	rec := doJSON(t, HandleFriendRequest(svc), http.MethodPost, "/friends/request", FriendshipRequest{
		FromUserID: alice,
		ToUserID:   bob,
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, CodeBlocked, errorCode(t, rec))
}

func TestHandleFriendAcceptWithoutInvitation(t *testing.T) {
	svc := friendship.NewService(friendship.NewFakeRepository())

	rec := doJSON(t, HandleFriendAccept(svc), http.MethodPost, "/friends/accept", FriendshipRequest{
		FromUserID: uuid.NewString(),
		ToUserID:   uuid.NewString(),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeInvitationNotFound, errorCode(t, rec))
}

func TestHandleFriendBlock(t *testing.T) {
	svc := friendship.NewService(friendship.NewFakeRepository())
	alice, bob := uuid.NewString(), uuid.NewString()

	rec := doJSON(t, HandleFriendBlock(svc), http.MethodPost, "/friends/block", FriendshipRequest{
		FromUserID: alice,
		ToUserID:   bob,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp FriendshipResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, domain.FriendshipBlocked, resp.Edge.Status)
}

func TestHandleListFriends(t *testing.T) {
	repo := friendship.NewFakeRepository()
	svc := friendship.NewService(repo)
	alice, bob, carol := uuid.NewString(), uuid.NewString(), uuid.NewString()
	repo.SetEdge(alice, bob, domain.FriendshipFriend)
	repo.SetEdge(carol, alice, domain.FriendshipFriend)

	rec := doJSON(t, HandleListFriends(svc), http.MethodGet, "/friends?user_id="+alice, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp FriendListResponse
	decodeBody(t, rec, &resp)
	assert.Len(t, resp.Friends, 2)
}

func TestHandleFriendshipValidation(t *testing.T) {
	svc := friendship.NewService(friendship.NewFakeRepository())

	rec := doJSON(t, HandleFriendRequest(svc), http.MethodPost, "/friends/request", FriendshipRequest{
		FromUserID: "not-a-uuid",
		ToUserID:   uuid.NewString(),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeInvalidRequest, errorCode(t, rec))
}
