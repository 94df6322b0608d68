package domain

import "time"

// FriendshipStatus is the state of a directed friendship edge.
// When a user requests another user as a friend the edge is pending;
// acceptance makes it a friend edge; blocking overwrites any state.
type FriendshipStatus string

const (
	FriendshipPending FriendshipStatus = "PENDING"
	FriendshipFriend  FriendshipStatus = "FRIEND"
	FriendshipBlocked FriendshipStatus = "BLOCKED"
)

// Friendship is a directed relation between two users. At most one
// edge exists per ordered (from, to) pair; edge absence means the
// relation was never requested. Effective friendship between two
// users is a derived read: a FRIEND edge in either direction.
type Friendship struct {
	FromUserID string           `json:"from_user_id"`
	ToUserID   string           `json:"to_user_id"`
	Status     FriendshipStatus `json:"status"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
