package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	// Inventory errors
	ErrMsgInvalidQuantity      = "invalid quantity"
	ErrMsgItemMissing          = "item not in inventory"
	ErrMsgInsufficientQuantity = "insufficient quantity"

	// Crafting errors
	ErrMsgBlueprintNotFound           = "blueprint not found"
	ErrMsgBlueprintNotOwned           = "blueprint not in inventory"
	ErrMsgBlueprintRequirementsNotMet = "blueprint requirements not met"

	// Vote errors
	ErrMsgOutOfVotes = "out of votes"

	// Friendship errors
	ErrMsgInvitationAlreadyExists = "invitation already exists"
	ErrMsgInvitationNotFound      = "invitation not found"
	ErrMsgAlreadyFriends          = "already friends"
	ErrMsgYouAreBlocked           = "you are blocked by this user"

	// Messaging errors
	ErrMsgMessageNotFound  = "message not found"
	ErrMsgForbidden        = "message belongs to another user"
	ErrMsgInvalidEasyReply = "not a registered easy reply"
	ErrMsgNotYourFriend    = "recipient is not your friend"

	// User errors
	ErrMsgUserNotFound = "user not found"
	ErrMsgUserExists   = "username already taken"

	// Catalog errors
	ErrMsgItemNotFound        = "item not found"
	ErrMsgMessageBodyNotFound = "message body not found"

	// Validation errors
	ErrMsgInvalidInput = "invalid input"

	// Database/System errors
	ErrMsgTxClosed = "tx is closed"
)

// Domain errors, used consistently across all layers.
// Wrap with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Inventory errors
	ErrInvalidQuantity      = errors.New(ErrMsgInvalidQuantity)
	ErrItemMissing          = errors.New(ErrMsgItemMissing)
	ErrInsufficientQuantity = errors.New(ErrMsgInsufficientQuantity)

	// Crafting errors
	ErrBlueprintNotFound           = errors.New(ErrMsgBlueprintNotFound)
	ErrBlueprintNotOwned           = errors.New(ErrMsgBlueprintNotOwned)
	ErrBlueprintRequirementsNotMet = errors.New(ErrMsgBlueprintRequirementsNotMet)

	// Vote errors
	ErrOutOfVotes = errors.New(ErrMsgOutOfVotes)

	// Friendship errors
	ErrInvitationAlreadyExists = errors.New(ErrMsgInvitationAlreadyExists)
	ErrInvitationNotFound      = errors.New(ErrMsgInvitationNotFound)
	ErrAlreadyFriends          = errors.New(ErrMsgAlreadyFriends)
	ErrYouAreBlocked           = errors.New(ErrMsgYouAreBlocked)

	// Messaging errors
	ErrMessageNotFound  = errors.New(ErrMsgMessageNotFound)
	ErrForbidden        = errors.New(ErrMsgForbidden)
	ErrInvalidEasyReply = errors.New(ErrMsgInvalidEasyReply)
	ErrNotYourFriend    = errors.New(ErrMsgNotYourFriend)

	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)
	ErrUserExists   = errors.New(ErrMsgUserExists)

	// Catalog errors
	ErrItemNotFound        = errors.New(ErrMsgItemNotFound)
	ErrMessageBodyNotFound = errors.New(ErrMsgMessageBodyNotFound)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
