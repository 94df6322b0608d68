package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minifignet/internal/domain"
	"minifignet/internal/votes"
)

func TestHandleGetVotesRefreshes(t *testing.T) {
	repo := votes.NewFakeRepository()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := votes.NewServiceWithClock(repo, func() time.Time { return now })

	userID := uuid.NewString()
	// Rank 0 regenerates one vote every 72 minutes; two hours covers one.
	repo.SetProfile(domain.Profile{
		UserID:         userID,
		Rank:           0,
		AvailableVotes: 10,
		LastVoteUpdate: now.Add(-2 * time.Hour),
	})

	rec := doJSON(t, HandleGetVotes(svc), http.MethodGet, "/votes?user_id="+userID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ProfileResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, 11, resp.Profile.AvailableVotes)
}

func TestHandleGetVotesMissingUserID(t *testing.T) {
	svc := votes.NewService(votes.NewFakeRepository())

	rec := doJSON(t, HandleGetVotes(svc), http.MethodGet, "/votes", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetVotesUnknownUser(t *testing.T) {
	svc := votes.NewService(votes.NewFakeRepository())

	rec := doJSON(t, HandleGetVotes(svc), http.MethodGet, "/votes?user_id="+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeUserNotFound, errorCode(t, rec))
}

func TestHandleSpendVotes(t *testing.T) {
	repo := votes.NewFakeRepository()
	svc := votes.NewService(repo)

	userID := uuid.NewString()
	repo.SetProfile(domain.Profile{
		UserID:         userID,
		Rank:           0,
		AvailableVotes: 20,
		LastVoteUpdate: time.Now().UTC(),
	})

	rec := doJSON(t, HandleSpendVotes(svc), http.MethodPost, "/votes/spend", SpendVotesRequest{
		UserID: userID,
		Amount: 3,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ProfileResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, 17, resp.Profile.AvailableVotes)
}

func TestHandleSpendVotesOutOfVotes(t *testing.T) {
	repo := votes.NewFakeRepository()
	svc := votes.NewService(repo)

	userID := uuid.NewString()
	repo.SetProfile(domain.Profile{
		UserID:         userID,
		Rank:           0,
		AvailableVotes: 1,
		LastVoteUpdate: time.Now().UTC(),
	})

	rec := doJSON(t, HandleSpendVotes(svc), http.MethodPost, "/votes/spend", SpendVotesRequest{
		UserID: userID,
		Amount: 5,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeOutOfVotes, errorCode(t, rec))
}

func TestHandleSpendVotesValidation(t *testing.T) {
	svc := votes.NewService(votes.NewFakeRepository())

	rec := doJSON(t, HandleSpendVotes(svc), http.MethodPost, "/votes/spend", SpendVotesRequest{
		UserID: uuid.NewString(),
		Amount: 0,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeInvalidRequest, errorCode(t, rec))
}
