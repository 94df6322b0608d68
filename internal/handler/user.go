package handler

import (
	"encoding/json"
	"net/http"

	"minifignet/internal/domain"
	"minifignet/internal/logger"
	"minifignet/internal/metrics"
	"minifignet/internal/user"
)

type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
}

type RegisterUserResponse struct {
	User domain.User `json:"user"`
}

// HandleRegisterUser creates a new account with its vote profile and
// starting inventory.
func HandleRegisterUser(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RegisterUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode register request", "error", err)
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid register request", "error", err)
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		created, err := svc.Register(r.Context(), req.Username)
		if err != nil {
			log.Error("Failed to register user", "error", err, "username", req.Username)
			respondServiceError(w, err)
			return
		}

		metrics.UsersRegistered.Inc()
		respondJSON(w, http.StatusCreated, RegisterUserResponse{User: *created})
	}
}
