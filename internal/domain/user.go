package domain

import "time"

// User represents a registered user.
// Networkers are system-run accounts whose messages bypass the
// friends-only mail restriction.
type User struct {
	ID          string `json:"user_id"`
	Username    string `json:"username"`
	IsNetworker bool   `json:"is_networker,omitempty"`
}

// Profile holds the per-user mutable game state attached to a user.
// AvailableVotes is only meaningful after a regeneration refresh;
// LastVoteUpdate carries the fractional progress toward the next vote.
type Profile struct {
	UserID         string    `json:"user_id"`
	Rank           int       `json:"rank"`
	AvailableVotes int       `json:"available_votes"`
	LastVoteUpdate time.Time `json:"last_vote_update"`
}
