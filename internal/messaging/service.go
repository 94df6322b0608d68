package messaging

import (
	"context"
	"fmt"

	"minifignet/internal/domain"
	"minifignet/internal/inventory"
	"minifignet/internal/logger"
	"minifignet/internal/repository"
)

// Catalog is the read-only reference data the mail flow consults:
// message bodies (with their easy-reply sets) and item definitions
// for attachments.
type Catalog interface {
	MessageBody(id int) (*domain.MessageBody, bool)
	Item(id int) (*domain.Item, bool)
}

// UserDirectory resolves user ids; the networker flag decides whether
// the friends-only mail rule applies to the sender.
type UserDirectory interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// FriendChecker is the effective-friendship read (FRIEND edge in
// either direction).
type FriendChecker interface {
	AreFriends(ctx context.Context, userID, otherUserID string) (bool, error)
}

// AttachmentInput is an attachment requested on send. Attachments are
// newly materialized stacks owned by the message; nothing is deducted
// from the sender's inventory.
type AttachmentInput struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

// OpenResult is a message read by its recipient, with the reply
// options its body supports.
type OpenResult struct {
	Message   domain.Message   `json:"message"`
	ReplyKind domain.ReplyKind `json:"reply_kind"`
}

// Service owns the message lifecycle: send, open, delete, attachment
// detachment and easy replies. Composite operations (delete, detach,
// send with attachments) run in a single transaction.
type Service interface {
	Send(ctx context.Context, senderID, recipientID string, bodyID int, attachments []AttachmentInput) (*domain.Message, error)
	Open(ctx context.Context, userID string, messageID int64) (*OpenResult, error)
	Delete(ctx context.Context, userID string, messageID int64) error
	DetachAttachments(ctx context.Context, userID string, messageID int64) ([]domain.Stack, error)
	EasyReply(ctx context.Context, senderID, recipientID string, originalBodyID, replyBodyID int, attachments []AttachmentInput) (*domain.Message, error)
	ListInbox(ctx context.Context, userID string) ([]domain.Message, error)
}

type service struct {
	repo      repository.Message
	users     UserDirectory
	friends   FriendChecker
	inventory inventory.Service
	catalog   Catalog
}

// NewService creates a new messaging service
func NewService(repo repository.Message, users UserDirectory, friends FriendChecker, inventorySvc inventory.Service, catalog Catalog) Service {
	return &service{
		repo:      repo,
		users:     users,
		friends:   friends,
		inventory: inventorySvc,
		catalog:   catalog,
	}
}

// Send creates an unread message from sender to recipient. User
// messages can only be sent to friends; networker accounts are exempt.
func (s *service) Send(ctx context.Context, senderID, recipientID string, bodyID int, attachments []AttachmentInput) (*domain.Message, error) {
	return s.send(ctx, senderID, recipientID, bodyID, nil, attachments)
}

// EasyReply sends one of the original body's registered easy replies.
// The created message records the original body so the display layer
// can render "RE: <original subject>".
func (s *service) EasyReply(ctx context.Context, senderID, recipientID string, originalBodyID, replyBodyID int, attachments []AttachmentInput) (*domain.Message, error) {
	original, ok := s.catalog.MessageBody(originalBodyID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrMessageBodyNotFound, originalBodyID)
	}
	if !original.HasEasyReply(replyBodyID) {
		return nil, fmt.Errorf("%w: body %d does not allow reply %d", domain.ErrInvalidEasyReply, originalBodyID, replyBodyID)
	}
	return s.send(ctx, senderID, recipientID, replyBodyID, &originalBodyID, attachments)
}

func (s *service) send(ctx context.Context, senderID, recipientID string, bodyID int, replyBodyID *int, attachments []AttachmentInput) (*domain.Message, error) {
	log := logger.FromContext(ctx)

	if _, ok := s.catalog.MessageBody(bodyID); !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrMessageBodyNotFound, bodyID)
	}

	sender, err := s.users.GetUserByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sender: %w", err)
	}
	if sender == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, senderID)
	}
	recipient, err := s.users.GetUserByID(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}
	if recipient == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, recipientID)
	}

	if !sender.IsNetworker {
		friends, err := s.friends.AreFriends(ctx, senderID, recipientID)
		if err != nil {
			return nil, fmt.Errorf("failed to check friendship: %w", err)
		}
		if !friends {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotYourFriend, recipientID)
		}
	}

	if err := s.validateAttachments(attachments); err != nil {
		return nil, err
	}

	message := &domain.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		BodyID:      bodyID,
		ReplyBodyID: replyBodyID,
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.InsertMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	for _, att := range attachments {
		attachment := domain.Attachment{MessageID: message.ID, ItemID: att.ItemID, Quantity: att.Quantity}
		if err := tx.InsertAttachment(ctx, attachment); err != nil {
			return nil, fmt.Errorf("failed to insert attachment: %w", err)
		}
		message.Attachments = append(message.Attachments, attachment)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit send: %w", err)
	}

	log.Info("Message sent", "messageID", message.ID, "sender", senderID, "recipient", recipientID, "attachments", len(attachments))
	return message, nil
}

func (s *service) validateAttachments(attachments []AttachmentInput) error {
	seen := make(map[int]bool, len(attachments))
	for _, att := range attachments {
		if _, ok := s.catalog.Item(att.ItemID); !ok {
			return fmt.Errorf("%w: %d", domain.ErrItemNotFound, att.ItemID)
		}
		if att.Quantity <= 0 || att.Quantity > domain.MaxTransactionQuantity {
			return fmt.Errorf("%w: attachment of item %d", domain.ErrInvalidQuantity, att.ItemID)
		}
		if seen[att.ItemID] {
			return fmt.Errorf("%w: duplicate attachment item %d", domain.ErrInvalidInput, att.ItemID)
		}
		seen[att.ItemID] = true
	}
	return nil
}

// Open marks the message read and returns it with its attachments.
// Re-opening an already-read message is a harmless no-op.
func (s *service) Open(ctx context.Context, userID string, messageID int64) (*OpenResult, error) {
	message, err := s.getOwnedMessage(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}

	if !message.IsRead {
		if err := s.repo.MarkRead(ctx, messageID); err != nil {
			return nil, fmt.Errorf("failed to mark message read: %w", err)
		}
		message.IsRead = true
	}

	replyKind := domain.NormalReplyOnly
	if body, ok := s.catalog.MessageBody(message.BodyID); ok && len(body.EasyReplies) > 0 {
		replyKind = domain.NormalAndEasyReply
	}

	return &OpenResult{Message: *message, ReplyKind: replyKind}, nil
}

// Delete removes the message and all attachments it owns in one
// transaction. Only the recipient may delete.
func (s *service) Delete(ctx context.Context, userID string, messageID int64) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	message, err := tx.GetMessageForUpdate(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to get message: %w", err)
	}
	if message == nil {
		return fmt.Errorf("%w: %d", domain.ErrMessageNotFound, messageID)
	}
	if message.RecipientID != userID {
		return fmt.Errorf("%w: message %d", domain.ErrForbidden, messageID)
	}

	if err := tx.DeleteAttachments(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete attachments: %w", err)
	}
	if err := tx.DeleteMessage(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	logger.FromContext(ctx).Info("Message deleted", "messageID", messageID, "userID", userID)
	return nil
}

// DetachAttachments moves every attachment on the message into the
// recipient's inventory and removes the attachment records, all in
// one transaction. Detachment consumes the attachments: a second call
// finds none and changes nothing.
func (s *service) DetachAttachments(ctx context.Context, userID string, messageID int64) ([]domain.Stack, error) {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	message, err := tx.GetMessageForUpdate(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	if message == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrMessageNotFound, messageID)
	}
	if message.RecipientID != userID {
		return nil, fmt.Errorf("%w: message %d", domain.ErrForbidden, messageID)
	}

	attachments, err := tx.ListAttachmentsForUpdate(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	stacks := make([]domain.Stack, 0, len(attachments))
	for _, att := range attachments {
		stack, err := s.inventory.AddTx(ctx, tx, userID, att.ItemID, att.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to add attachment item %d: %w", att.ItemID, err)
		}
		stacks = append(stacks, *stack)
	}
	if len(attachments) > 0 {
		if err := tx.DeleteAttachments(ctx, messageID); err != nil {
			return nil, fmt.Errorf("failed to delete attachments: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit detach: %w", err)
	}

	log.Info("Attachments detached", "messageID", messageID, "userID", userID, "count", len(attachments))
	return stacks, nil
}

// ListInbox returns the user's messages, newest first.
func (s *service) ListInbox(ctx context.Context, userID string) ([]domain.Message, error) {
	messages, err := s.repo.ListInbox(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}
	return messages, nil
}

func (s *service) getOwnedMessage(ctx context.Context, userID string, messageID int64) (*domain.Message, error) {
	message, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	if message == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrMessageNotFound, messageID)
	}
	if message.RecipientID != userID {
		return nil, fmt.Errorf("%w: message %d", domain.ErrForbidden, messageID)
	}
	return message, nil
}
