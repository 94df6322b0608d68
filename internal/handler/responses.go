package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"minifignet/internal/domain"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse carries a stable machine-readable error code.
// Clients translate codes to display text; the server never sends
// localized messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Encode to a pooled buffer first so a marshal failure never
	// produces a half-written body.
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, code string) {
	respondJSON(w, status, ErrorResponse{Error: code})
}

// respondServiceError maps a domain error to its HTTP status and code
// and writes the response.
func respondServiceError(w http.ResponseWriter, err error) {
	status, code := mapServiceError(err)
	respondError(w, status, code)
}

// Stable error codes returned to clients.
const (
	CodeInvalidRequest          = "INVALID_REQUEST"
	CodeInvalidQuantity         = "INVALID_QUANTITY"
	CodeUserNotFound            = "USER_NOT_FOUND"
	CodeUserExists              = "USER_EXISTS"
	CodeItemNotFound            = "ITEM_NOT_FOUND"
	CodeItemMissing             = "ITEM_MISSING"
	CodeInsufficientQuantity    = "INSUFFICIENT_QUANTITY"
	CodeBlueprintNotFound       = "BLUEPRINT_NOT_FOUND"
	CodeBlueprintNotOwned       = "BLUEPRINT_NOT_OWNED"
	CodeRequirementsNotMet      = "REQUIREMENTS_NOT_MET"
	CodeOutOfVotes              = "OUT_OF_VOTES"
	CodeInvitationAlreadyExists = "INVITATION_ALREADY_EXISTS"
	CodeInvitationNotFound      = "INVITATION_NOT_FOUND"
	CodeAlreadyFriends          = "ALREADY_FRIENDS"
	CodeBlocked                 = "BLOCKED"
	CodeNotYourFriend           = "NOT_YOUR_FRIEND"
	CodeMessageNotFound         = "MESSAGE_NOT_FOUND"
	CodeMessageBodyNotFound     = "MESSAGE_BODY_NOT_FOUND"
	CodeInvalidEasyReply        = "INVALID_EASY_REPLY"
	CodeForbidden               = "FORBIDDEN"
	CodeInternalError           = "INTERNAL_ERROR"
)

// mapServiceError maps domain errors to HTTP status and stable code.
func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, CodeInvalidRequest
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, CodeInvalidQuantity
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, CodeUserNotFound
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, CodeUserExists
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusBadRequest, CodeItemNotFound
	case errors.Is(err, domain.ErrItemMissing):
		return http.StatusBadRequest, CodeItemMissing
	case errors.Is(err, domain.ErrInsufficientQuantity):
		return http.StatusBadRequest, CodeInsufficientQuantity
	case errors.Is(err, domain.ErrBlueprintNotFound):
		return http.StatusBadRequest, CodeBlueprintNotFound
	case errors.Is(err, domain.ErrBlueprintNotOwned):
		return http.StatusBadRequest, CodeBlueprintNotOwned
	case errors.Is(err, domain.ErrBlueprintRequirementsNotMet):
		return http.StatusBadRequest, CodeRequirementsNotMet
	case errors.Is(err, domain.ErrOutOfVotes):
		return http.StatusBadRequest, CodeOutOfVotes
	case errors.Is(err, domain.ErrInvitationAlreadyExists):
		return http.StatusConflict, CodeInvitationAlreadyExists
	case errors.Is(err, domain.ErrInvitationNotFound):
		return http.StatusBadRequest, CodeInvitationNotFound
	case errors.Is(err, domain.ErrAlreadyFriends):
		return http.StatusConflict, CodeAlreadyFriends
	case errors.Is(err, domain.ErrYouAreBlocked):
		return http.StatusForbidden, CodeBlocked
	case errors.Is(err, domain.ErrNotYourFriend):
		return http.StatusForbidden, CodeNotYourFriend
	case errors.Is(err, domain.ErrMessageNotFound):
		return http.StatusNotFound, CodeMessageNotFound
	case errors.Is(err, domain.ErrMessageBodyNotFound):
		return http.StatusBadRequest, CodeMessageBodyNotFound
	case errors.Is(err, domain.ErrInvalidEasyReply):
		return http.StatusBadRequest, CodeInvalidEasyReply
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, CodeForbidden
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}
