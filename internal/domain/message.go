package domain

import "time"

// ReplyKind reports which reply options a message supports,
// derived from whether the body has registered easy replies.
type ReplyKind int

const (
	NormalReplyOnly ReplyKind = iota
	NormalAndEasyReply
)

// Message is a prefabricated message sent from one user to another.
// Contents are referenced by body ID; for replies the original body
// is kept so the subject can be displayed as "RE: <original>".
// A message owns zero or more attachments.
type Message struct {
	ID          int64        `json:"message_id"`
	SenderID    string       `json:"sender_id"`
	RecipientID string       `json:"recipient_id"`
	BodyID      int          `json:"body_id"`
	ReplyBodyID *int         `json:"reply_body_id,omitempty"`
	IsRead      bool         `json:"is_read"`
	CreatedAt   time.Time    `json:"created_at"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// MessageBody is a catalog entry: a prefabricated message text.
// Sending one of these is the only way of communicating; some have
// ready-made responses registered as easy replies.
type MessageBody struct {
	ID          int    `json:"body_id"`
	Subject     string `json:"subject"`
	Text        string `json:"text"`
	EasyReplies []int  `json:"easy_replies,omitempty"`
}

// HasEasyReply reports whether bodyID is registered as an easy reply.
func (b *MessageBody) HasEasyReply(bodyID int) bool {
	for _, id := range b.EasyReplies {
		if id == bodyID {
			return true
		}
	}
	return false
}
