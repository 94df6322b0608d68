package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"minifignet/internal/crafting"
	"minifignet/internal/logger"
	"minifignet/internal/metrics"
)

type CraftRequest struct {
	UserID          string `json:"user_id" validate:"required,uuid4"`
	BlueprintItemID int    `json:"blueprint_item_id" validate:"required,min=1"`
}

type CraftResponse struct {
	Result crafting.Result `json:"result"`
}

// HandleCraft consumes blueprint requirements and produces the built item
func HandleCraft(svc crafting.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CraftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode craft request", "error", err)
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid craft request", "error", err)
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		result, err := svc.Craft(r.Context(), req.UserID, req.BlueprintItemID)
		if err != nil {
			log.Error("Failed to craft", "error", err, "userID", req.UserID, "blueprintItemID", req.BlueprintItemID)
			respondServiceError(w, err)
			return
		}

		metrics.ItemsCrafted.WithLabelValues(
			strconv.Itoa(req.BlueprintItemID),
			strconv.Itoa(result.Produced.ItemID),
		).Inc()
		respondJSON(w, http.StatusOK, CraftResponse{Result: *result})
	}
}
