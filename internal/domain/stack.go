package domain

// Stack is a positive quantity of one item held by one owner.
// A quantity reaching zero deletes the row; zero-quantity stacks
// are never stored. At most one stack exists per (owner, item).
type Stack struct {
	OwnerID  string `json:"owner_id"`
	ItemID   int    `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Attachment is a stack owned by a message instead of a user.
// It is deleted with the message, or converted into an inventory
// stack when the recipient detaches it.
type Attachment struct {
	MessageID int64 `json:"message_id"`
	ItemID    int   `json:"item_id"`
	Quantity  int   `json:"quantity"`
}
