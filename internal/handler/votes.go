package handler

import (
	"encoding/json"
	"net/http"

	"minifignet/internal/domain"
	"minifignet/internal/logger"
	"minifignet/internal/metrics"
	"minifignet/internal/votes"
)

type SpendVotesRequest struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
	Amount int    `json:"amount" validate:"required,min=1"`
}

type ProfileResponse struct {
	Profile domain.Profile `json:"profile"`
}

// HandleGetVotes refreshes regeneration and returns the profile
func HandleGetVotes(svc votes.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		profile, err := svc.Update(r.Context(), userID)
		if err != nil {
			log.Error("Failed to update votes", "error", err, "userID", userID)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, ProfileResponse{Profile: *profile})
	}
}

// HandleSpendVotes refreshes regeneration, then consumes votes
func HandleSpendVotes(svc votes.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SpendVotesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode spend votes request", "error", err)
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid spend votes request", "error", err)
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		profile, err := svc.Spend(r.Context(), req.UserID, req.Amount)
		if err != nil {
			log.Error("Failed to spend votes", "error", err, "userID", req.UserID, "amount", req.Amount)
			respondServiceError(w, err)
			return
		}

		metrics.VotesSpent.Add(float64(req.Amount))
		respondJSON(w, http.StatusOK, ProfileResponse{Profile: *profile})
	}
}
