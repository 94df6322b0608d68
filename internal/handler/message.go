package handler

import (
	"encoding/json"
	"net/http"

	"minifignet/internal/domain"
	"minifignet/internal/logger"
	"minifignet/internal/messaging"
	"minifignet/internal/metrics"
)

type SendMessageRequest struct {
	SenderID    string                      `json:"sender_id" validate:"required,uuid4"`
	RecipientID string                      `json:"recipient_id" validate:"required,uuid4"`
	BodyID      int                         `json:"body_id" validate:"required,min=1"`
	Attachments []messaging.AttachmentInput `json:"attachments,omitempty" validate:"dive"`
}

type EasyReplyRequest struct {
	SenderID       string                      `json:"sender_id" validate:"required,uuid4"`
	RecipientID    string                      `json:"recipient_id" validate:"required,uuid4"`
	OriginalBodyID int                         `json:"original_body_id" validate:"required,min=1"`
	ReplyBodyID    int                         `json:"reply_body_id" validate:"required,min=1"`
	Attachments    []messaging.AttachmentInput `json:"attachments,omitempty" validate:"dive"`
}

type MessageIDRequest struct {
	UserID    string `json:"user_id" validate:"required,uuid4"`
	MessageID int64  `json:"message_id" validate:"required,min=1"`
}

type MessageResponse struct {
	Message domain.Message `json:"message"`
}

type InboxResponse struct {
	Messages []domain.Message `json:"messages"`
}

type DetachResponse struct {
	Stacks []domain.Stack `json:"stacks"`
}

// HandleSendMessage sends a prefabricated message, optionally with
// attachments.
func HandleSendMessage(svc messaging.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode send message request", "error", err)
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid send message request", "error", err)
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		message, err := svc.Send(r.Context(), req.SenderID, req.RecipientID, req.BodyID, req.Attachments)
		if err != nil {
			log.Error("Failed to send message", "error", err, "sender", req.SenderID, "recipient", req.RecipientID)
			respondServiceError(w, err)
			return
		}

		metrics.MessagesSent.Inc()
		respondJSON(w, http.StatusCreated, MessageResponse{Message: *message})
	}
}

// HandleEasyReply sends a registered easy reply to a received message
func HandleEasyReply(svc messaging.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req EasyReplyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode easy reply request", "error", err)
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid easy reply request", "error", err)
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		message, err := svc.EasyReply(r.Context(), req.SenderID, req.RecipientID, req.OriginalBodyID, req.ReplyBodyID, req.Attachments)
		if err != nil {
			log.Error("Failed to send easy reply", "error", err, "sender", req.SenderID)
			respondServiceError(w, err)
			return
		}

		metrics.MessagesSent.Inc()
		respondJSON(w, http.StatusCreated, MessageResponse{Message: *message})
	}
}

// HandleListInbox returns the user's messages newest first
func HandleListInbox(svc messaging.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			respondError(w, http.StatusBadRequest, CodeInvalidRequest)
			return
		}

		messages, err := svc.ListInbox(r.Context(), userID)
		if err != nil {
			log.Error("Failed to list inbox", "error", err, "userID", userID)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, InboxResponse{Messages: messages})
	}
}

func decodeMessageIDRequest(w http.ResponseWriter, r *http.Request) (*MessageIDRequest, bool) {
	log := logger.FromContext(r.Context())

	var req MessageIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("Failed to decode message request", "error", err)
		respondError(w, http.StatusBadRequest, CodeInvalidRequest)
		return nil, false
	}

	if err := GetValidator().ValidateStruct(req); err != nil {
		log.Warn("Invalid message request", "error", err)
		respondError(w, http.StatusBadRequest, CodeInvalidRequest)
		return nil, false
	}
	return &req, true
}

// HandleOpenMessage marks a message read and returns it with its
// reply options.
func HandleOpenMessage(svc messaging.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeMessageIDRequest(w, r)
		if !ok {
			return
		}

		result, err := svc.Open(r.Context(), req.UserID, req.MessageID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to open message", "error", err, "messageID", req.MessageID)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

// HandleDeleteMessage deletes a message and its attachments
func HandleDeleteMessage(svc messaging.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeMessageIDRequest(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), req.UserID, req.MessageID); err != nil {
			logger.FromContext(r.Context()).Error("Failed to delete message", "error", err, "messageID", req.MessageID)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Message deleted"})
	}
}

// HandleDetachAttachments moves a message's attachments into the
// recipient's inventory.
func HandleDetachAttachments(svc messaging.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeMessageIDRequest(w, r)
		if !ok {
			return
		}

		stacks, err := svc.DetachAttachments(r.Context(), req.UserID, req.MessageID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to detach attachments", "error", err, "messageID", req.MessageID)
			respondServiceError(w, err)
			return
		}

		metrics.AttachmentsDetached.Add(float64(len(stacks)))
		respondJSON(w, http.StatusOK, DetachResponse{Stacks: stacks})
	}
}
