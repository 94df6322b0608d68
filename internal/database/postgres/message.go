package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"minifignet/internal/database"
	"minifignet/internal/domain"
	"minifignet/internal/repository"
)

// MessageRepository implements the message repository for PostgreSQL
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// GetMessage retrieves a message with its attachments; returns
// (nil, nil) when absent.
func (r *MessageRepository) GetMessage(ctx context.Context, messageID int64) (*domain.Message, error) {
	const query = `
		SELECT id, sender_id, recipient_id, body_id, reply_body_id, is_read, created_at
		FROM messages
		WHERE id = $1`

	var message domain.Message
	err := r.db.QueryRow(ctx, query, messageID).Scan(
		&message.ID, &message.SenderID, &message.RecipientID,
		&message.BodyID, &message.ReplyBodyID, &message.IsRead, &message.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	message.Attachments, err = r.listAttachments(ctx, messageID)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepository) listAttachments(ctx context.Context, messageID int64) ([]domain.Attachment, error) {
	const query = `
		SELECT message_id, item_id, quantity
		FROM attachments
		WHERE message_id = $1
		ORDER BY item_id`

	rows, err := r.db.Query(ctx, query, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	var attachments []domain.Attachment
	for rows.Next() {
		var att domain.Attachment
		if err := rows.Scan(&att.MessageID, &att.ItemID, &att.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, att)
	}
	return attachments, rows.Err()
}

// ListInbox returns the recipient's messages, newest first, each with
// its attachments.
func (r *MessageRepository) ListInbox(ctx context.Context, recipientID string) ([]domain.Message, error) {
	recipientUUID, err := parseUserUUID(recipientID)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT m.id, m.sender_id, m.recipient_id, m.body_id, m.reply_body_id, m.is_read, m.created_at,
		       a.item_id, a.quantity
		FROM messages m
		LEFT JOIN attachments a ON a.message_id = m.id
		WHERE m.recipient_id = $1
		ORDER BY m.created_at DESC, m.id DESC, a.item_id`

	rows, err := r.db.Query(ctx, query, recipientUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}
	defer rows.Close()

	var inbox []domain.Message
	for rows.Next() {
		var message domain.Message
		var itemID, quantity *int
		if err := rows.Scan(
			&message.ID, &message.SenderID, &message.RecipientID,
			&message.BodyID, &message.ReplyBodyID, &message.IsRead, &message.CreatedAt,
			&itemID, &quantity); err != nil {
			return nil, fmt.Errorf("failed to scan inbox row: %w", err)
		}

		if len(inbox) == 0 || inbox[len(inbox)-1].ID != message.ID {
			inbox = append(inbox, message)
		}
		if itemID != nil {
			last := &inbox[len(inbox)-1]
			last.Attachments = append(last.Attachments, domain.Attachment{
				MessageID: message.ID, ItemID: *itemID, Quantity: *quantity,
			})
		}
	}
	return inbox, rows.Err()
}

// MarkRead flags a message as read.
func (r *MessageRepository) MarkRead(ctx context.Context, messageID int64) error {
	const query = `UPDATE messages SET is_read = TRUE WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, messageID)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", domain.ErrMessageNotFound, messageID)
	}
	return nil
}

// BeginTx starts a transaction and returns a MessageTx
func (r *MessageRepository) BeginTx(ctx context.Context) (repository.MessageTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	return &messageTx{stackTx: stackTx{tx: tx}}, nil
}

// messageTx embeds stackTx so attachment detachment moves items into
// inventory within the same transaction.
type messageTx struct {
	stackTx
}

func (t *messageTx) InsertMessage(ctx context.Context, message *domain.Message) error {
	senderUUID, err := parseUserUUID(message.SenderID)
	if err != nil {
		return err
	}
	recipientUUID, err := parseUserUUID(message.RecipientID)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO messages (sender_id, recipient_id, body_id, reply_body_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err = t.tx.QueryRow(ctx, query, senderUUID, recipientUUID, message.BodyID, message.ReplyBodyID).
		Scan(&message.ID, &message.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (t *messageTx) InsertAttachment(ctx context.Context, attachment domain.Attachment) error {
	const query = `
		INSERT INTO attachments (message_id, item_id, quantity)
		VALUES ($1, $2, $3)`

	if _, err := t.tx.Exec(ctx, query, attachment.MessageID, attachment.ItemID, attachment.Quantity); err != nil {
		return fmt.Errorf("failed to insert attachment: %w", err)
	}
	return nil
}

// GetMessageForUpdate locks the message row for the rest of the
// transaction; returns (nil, nil) when absent.
func (t *messageTx) GetMessageForUpdate(ctx context.Context, messageID int64) (*domain.Message, error) {
	const query = `
		SELECT id, sender_id, recipient_id, body_id, reply_body_id, is_read, created_at
		FROM messages
		WHERE id = $1
		FOR UPDATE`

	var message domain.Message
	err := t.tx.QueryRow(ctx, query, messageID).Scan(
		&message.ID, &message.SenderID, &message.RecipientID,
		&message.BodyID, &message.ReplyBodyID, &message.IsRead, &message.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message for update: %w", err)
	}
	return &message, nil
}

// ListAttachmentsForUpdate locks the message's attachment rows for the
// rest of the transaction.
func (t *messageTx) ListAttachmentsForUpdate(ctx context.Context, messageID int64) ([]domain.Attachment, error) {
	const query = `
		SELECT message_id, item_id, quantity
		FROM attachments
		WHERE message_id = $1
		ORDER BY item_id
		FOR UPDATE`

	rows, err := t.tx.Query(ctx, query, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments for update: %w", err)
	}
	defer rows.Close()

	var attachments []domain.Attachment
	for rows.Next() {
		var att domain.Attachment
		if err := rows.Scan(&att.MessageID, &att.ItemID, &att.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, att)
	}
	return attachments, rows.Err()
}

func (t *messageTx) DeleteAttachments(ctx context.Context, messageID int64) error {
	const query = `DELETE FROM attachments WHERE message_id = $1`

	if _, err := t.tx.Exec(ctx, query, messageID); err != nil {
		return fmt.Errorf("failed to delete attachments: %w", err)
	}
	return nil
}

func (t *messageTx) DeleteMessage(ctx context.Context, messageID int64) error {
	const query = `DELETE FROM messages WHERE id = $1`

	if _, err := t.tx.Exec(ctx, query, messageID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
