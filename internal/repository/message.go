package repository

import (
	"context"

	"minifignet/internal/domain"
)

// Message defines the interface for message and attachment persistence.
type Message interface {
	GetMessage(ctx context.Context, messageID int64) (*domain.Message, error)
	ListInbox(ctx context.Context, recipientID string) ([]domain.Message, error)
	MarkRead(ctx context.Context, messageID int64) error
	BeginTx(ctx context.Context) (MessageTx, error)
}

// MessageTx spans message lifecycle writes and the inventory writes
// they compose with (attachment detach, send with attachment).
// It embeds StackTx so attachment stacks and inventory stacks move
// in the same transaction.
type MessageTx interface {
	StackTx
	InsertMessage(ctx context.Context, message *domain.Message) error
	InsertAttachment(ctx context.Context, attachment domain.Attachment) error
	GetMessageForUpdate(ctx context.Context, messageID int64) (*domain.Message, error)
	ListAttachmentsForUpdate(ctx context.Context, messageID int64) ([]domain.Attachment, error)
	DeleteAttachments(ctx context.Context, messageID int64) error
	DeleteMessage(ctx context.Context, messageID int64) error
}
