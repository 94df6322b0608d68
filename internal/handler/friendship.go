package handler

import (
	"encoding/json"
	"net/http"

	"minifignet/internal/domain"
	"minifignet/internal/friendship"
	"minifignet/internal/logger"
	"minifignet/internal/metrics"
)

type FriendshipRequest struct {
	FromUserID string `json:"from_user_id" validate:"required,uuid4"`
	ToUserID   string `json:"to_user_id" validate:"required,uuid4"`
}

type FriendshipResponse struct {
	Edge domain.Friendship `json:"edge"`
}

type FriendListResponse struct {
	Friends []domain.Friendship `json:"friends"`
}

func decodeFriendshipRequest(w http.ResponseWriter, r *http.Request) (*FriendshipRequest, bool) {
	log := logger.FromContext(r.Context())

	var req FriendshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("Failed to decode friendship request", "error", err)
		respondError(w, http.StatusBadRequest, CodeInvalidRequest)
		return nil, false
	}

	if err := GetValidator().ValidateStruct(req); err != nil {
		log.Warn("Invalid friendship request", "error", err)
		respondError(w, http.StatusBadRequest, CodeInvalidRequest)
		return nil, false
	}
	return &req, true
}

// HandleFriendRequest records a pending invitation
func HandleFriendRequest(svc friendship.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeFriendshipRequest(w, r)
		if !ok {
			return
		}

		edge, err := svc.SendRequest(r.Context(), req.FromUserID, req.ToUserID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to send friend request", "error", err)
			respondServiceError(w, err)
			return
		}

		metrics.FriendRequests.Inc()
		respondJSON(w, http.StatusOK, FriendshipResponse{Edge: *edge})
	}
}

// HandleFriendAccept accepts a pending invitation. FromUserID is the
// original requester; ToUserID is the accepting user.
func HandleFriendAccept(svc friendship.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeFriendshipRequest(w, r)
		if !ok {
			return
		}

		edge, err := svc.Accept(r.Context(), req.FromUserID, req.ToUserID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to accept friend request", "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, FriendshipResponse{Edge: *edge})
	}
}

// HandleFriendBlock marks ToUserID as blocked by FromUserID
func HandleFriendBlock(svc friendship.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeFriendshipRequest(w, r)
		if !ok {
			return
		}

		edge, err := svc.Block(r.Context(), req.FromUserID, req.ToUserID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to block user", "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, FriendshipResponse{Edge: *edge})
	}
}

// HandleListFriends lists FRIEND edges touching the user
func HandleListFriends(svc friendship.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		friends, err := svc.ListFriends(r.Context(), userID)
		if err != nil {
			log.Error("Failed to list friends", "error", err, "userID", userID)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, FriendListResponse{Friends: friends})
	}
}
