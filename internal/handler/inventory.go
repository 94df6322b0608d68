package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"minifignet/internal/domain"
	"minifignet/internal/inventory"
	"minifignet/internal/logger"
	"minifignet/internal/metrics"
)

type AddItemRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid4"`
	ItemID   int    `json:"item_id" validate:"required,min=1"`
	Quantity int    `json:"quantity" validate:"required,min=1,max=10000"`
}

type RemoveItemRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid4"`
	ItemID   int    `json:"item_id" validate:"required,min=1"`
	Quantity int    `json:"quantity" validate:"required,min=1,max=10000"`
}

type StackResponse struct {
	Stack *domain.Stack `json:"stack"`
}

type InventoryResponse struct {
	Stacks []domain.Stack `json:"stacks"`
}

// HandleAddItem adds items to a user's inventory
func HandleAddItem(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req AddItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode add item request", "error", err)
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid add item request", "error", err)
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		stack, err := svc.Add(r.Context(), req.UserID, req.ItemID, req.Quantity)
		if err != nil {
			log.Error("Failed to add item", "error", err, "userID", req.UserID, "itemID", req.ItemID)
			respondServiceError(w, err)
			return
		}

		metrics.StacksAdded.WithLabelValues(strconv.Itoa(req.ItemID)).Add(float64(req.Quantity))
		respondJSON(w, http.StatusOK, StackResponse{Stack: stack})
	}
}

// HandleRemoveItem removes items from a user's inventory. The stack in
// the response is nil when the removal emptied it.
func HandleRemoveItem(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RemoveItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode remove item request", "error", err)
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid remove item request", "error", err)
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		stack, err := svc.Remove(r.Context(), req.UserID, req.ItemID, req.Quantity)
		if err != nil {
			log.Error("Failed to remove item", "error", err, "userID", req.UserID, "itemID", req.ItemID)
			respondServiceError(w, err)
			return
		}

		metrics.StacksRemoved.WithLabelValues(strconv.Itoa(req.ItemID)).Add(float64(req.Quantity))
		respondJSON(w, http.StatusOK, StackResponse{Stack: stack})
	}
}

// HandleGetInventory lists all of a user's stacks
func HandleGetInventory(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		stacks, err := svc.List(r.Context(), userID)
		if err != nil {
			log.Error("Failed to list inventory", "error", err, "userID", userID)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, InventoryResponse{Stacks: stacks})
	}
}
