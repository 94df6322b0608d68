package messaging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minifignet/internal/catalog"
	"minifignet/internal/domain"
	"minifignet/internal/inventory"
)

const (
	bodyHello    = 1
	bodyThanks   = 2
	bodyNoThanks = 3
	bodyOrphan   = 4

	itemApple = 10
	itemBrick = 11
)

type fakeUsers struct {
	users map[string]domain.User
}

func (f *fakeUsers) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

type fakeFriends struct {
	pairs map[[2]string]bool
}

func (f *fakeFriends) AreFriends(ctx context.Context, userID, otherUserID string) (bool, error) {
	return f.pairs[[2]string{userID, otherUserID}] || f.pairs[[2]string{otherUserID, userID}], nil
}

func mailCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		[]domain.Item{
			{ID: itemApple, Name: "Apple", Type: domain.ItemTypeItem},
			{ID: itemBrick, Name: "Brick", Type: domain.ItemTypeItem},
		},
		nil,
		[]domain.MessageBody{
			{ID: bodyHello, Subject: "Hello", Text: "Hi there!", EasyReplies: []int{bodyThanks, bodyNoThanks}},
			{ID: bodyThanks, Subject: "Thanks", Text: "Thank you!"},
			{ID: bodyNoThanks, Subject: "No thanks", Text: "No thank you."},
			{ID: bodyOrphan, Subject: "Plain", Text: "No replies here."},
		},
		nil,
	)
	require.NoError(t, err)
	return c
}

type fixture struct {
	svc     Service
	repo    *FakeRepository
	users   *fakeUsers
	friends *fakeFriends
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := NewFakeRepository()
	users := &fakeUsers{users: map[string]domain.User{
		"alice":      {ID: "alice", Username: "Alice"},
		"bob":        {ID: "bob", Username: "Bob"},
		"carol":      {ID: "carol", Username: "Carol"},
		"prof-brick": {ID: "prof-brick", Username: "ProfBrick", IsNetworker: true},
	}}
	friends := &fakeFriends{pairs: map[[2]string]bool{
		{"alice", "bob"}: true,
	}}
	cat := mailCatalog(t)
	invSvc := inventory.NewService(inventory.NewFakeRepository(), cat)
	return &fixture{
		svc:     NewService(repo, users, friends, invSvc, cat),
		repo:    repo,
		users:   users,
		friends: friends,
	}
}

func TestSendToFriend(t *testing.T) {
	f := newFixture(t)

	message, err := f.svc.Send(context.Background(), "alice", "bob", bodyHello, nil)
	require.NoError(t, err)

	assert.Equal(t, "alice", message.SenderID)
	assert.Equal(t, "bob", message.RecipientID)
	assert.Equal(t, bodyHello, message.BodyID)
	assert.Nil(t, message.ReplyBodyID)
	assert.False(t, message.IsRead)
	assert.True(t, f.repo.HasMessage(message.ID))
}

func TestSendToNonFriendRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Send(context.Background(), "alice", "carol", bodyHello, nil)
	assert.ErrorIs(t, err, domain.ErrNotYourFriend)
}

func TestSendNetworkerBypassesFriendCheck(t *testing.T) {
	f := newFixture(t)

	message, err := f.svc.Send(context.Background(), "prof-brick", "carol", bodyHello, nil)
	require.NoError(t, err)
	assert.True(t, f.repo.HasMessage(message.ID))
}

func TestSendUnknownBody(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Send(context.Background(), "alice", "bob", 999, nil)
	assert.ErrorIs(t, err, domain.ErrMessageBodyNotFound)
}

func TestSendUnknownRecipient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Send(context.Background(), "alice", "ghost", bodyHello, nil)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSendWithAttachments(t *testing.T) {
	f := newFixture(t)

	message, err := f.svc.Send(context.Background(), "alice", "bob", bodyHello, []AttachmentInput{
		{ItemID: itemApple, Quantity: 5},
		{ItemID: itemBrick, Quantity: 1},
	})
	require.NoError(t, err)

	require.Len(t, message.Attachments, 2)
	assert.Equal(t, 2, f.repo.AttachmentCount(message.ID))
	// Attachments belong to the message, not the recipient's inventory, until detached.
	assert.Equal(t, 0, f.repo.Quantity("bob", itemApple))
}

func TestSendAttachmentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Send(ctx, "alice", "bob", bodyHello, []AttachmentInput{{ItemID: 999, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = f.svc.Send(ctx, "alice", "bob", bodyHello, []AttachmentInput{{ItemID: itemApple, Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.svc.Send(ctx, "alice", "bob", bodyHello, []AttachmentInput{
		{ItemID: itemApple, Quantity: 1},
		{ItemID: itemApple, Quantity: 2},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSendIsAllOrNothingOnCommitFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.FailCommit = true

	_, err := f.svc.Send(context.Background(), "alice", "bob", bodyHello, []AttachmentInput{{ItemID: itemApple, Quantity: 5}})
	require.Error(t, err)

	inbox, err := f.svc.ListInbox(context.Background(), "bob")
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

func TestOpenMarksReadAndReportsReplyKind(t *testing.T) {
	f := newFixture(t)
	id := f.repo.SeedMessage(domain.Message{SenderID: "alice", RecipientID: "bob", BodyID: bodyHello})

	result, err := f.svc.Open(context.Background(), "bob", id)
	require.NoError(t, err)

	assert.True(t, result.Message.IsRead)
	assert.Equal(t, domain.NormalAndEasyReply, result.ReplyKind)

	// Second open is a no-op.
	result, err = f.svc.Open(context.Background(), "bob", id)
	require.NoError(t, err)
	assert.True(t, result.Message.IsRead)
}

func TestOpenBodyWithoutEasyReplies(t *testing.T) {
	f := newFixture(t)
	id := f.repo.SeedMessage(domain.Message{SenderID: "alice", RecipientID: "bob", BodyID: bodyOrphan})

	result, err := f.svc.Open(context.Background(), "bob", id)
	require.NoError(t, err)
	assert.Equal(t, domain.NormalReplyOnly, result.ReplyKind)
}

func TestOpenNotRecipient(t *testing.T) {
	f := newFixture(t)
	id := f.repo.SeedMessage(domain.Message{SenderID: "alice", RecipientID: "bob", BodyID: bodyHello})

	_, err := f.svc.Open(context.Background(), "carol", id)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestOpenMissingMessage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Open(context.Background(), "bob", 404)
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}

func TestDeleteCascadesAttachments(t *testing.T) {
	f := newFixture(t)
	id := f.repo.SeedMessage(
		domain.Message{SenderID: "alice", RecipientID: "bob", BodyID: bodyHello},
		domain.Attachment{ItemID: itemApple, Quantity: 5},
	)

	err := f.svc.Delete(context.Background(), "bob", id)
	require.NoError(t, err)

	assert.False(t, f.repo.HasMessage(id))
	assert.Equal(t, 0, f.repo.AttachmentCount(id))
	// Deleting without detaching forfeits the attachment items.
	assert.Equal(t, 0, f.repo.Quantity("bob", itemApple))
}

func TestDeleteNotRecipient(t *testing.T) {
	f := newFixture(t)
	id := f.repo.SeedMessage(domain.Message{SenderID: "alice", RecipientID: "bob", BodyID: bodyHello})

	err := f.svc.Delete(context.Background(), "alice", id)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.True(t, f.repo.HasMessage(id))
}

func TestDetachAttachmentsMovesItemsToInventory(t *testing.T) {
	f := newFixture(t)
	id := f.repo.SeedMessage(
		domain.Message{SenderID: "alice", RecipientID: "bob", BodyID: bodyHello},
		domain.Attachment{ItemID: itemApple, Quantity: 5},
	)

	stacks, err := f.svc.DetachAttachments(context.Background(), "bob", id)
	require.NoError(t, err)

	require.Len(t, stacks, 1)
	assert.Equal(t, 5, stacks[0].Quantity)
	assert.Equal(t, 5, f.repo.Quantity("bob", itemApple))
	assert.Equal(t, 0, f.repo.AttachmentCount(id))
	assert.True(t, f.repo.HasMessage(id))

	// Second detach finds no attachments and changes nothing.
	stacks, err = f.svc.DetachAttachments(context.Background(), "bob", id)
	require.NoError(t, err)
	assert.Empty(t, stacks)
	assert.Equal(t, 5, f.repo.Quantity("bob", itemApple))
}

func TestDetachMergesWithExistingStack(t *testing.T) {
	f := newFixture(t)
	f.repo.SetStack("bob", itemApple, 3)
	id := f.repo.SeedMessage(
		domain.Message{SenderID: "alice", RecipientID: "bob", BodyID: bodyHello},
		domain.Attachment{ItemID: itemApple, Quantity: 5},
	)

	stacks, err := f.svc.DetachAttachments(context.Background(), "bob", id)
	require.NoError(t, err)

	require.Len(t, stacks, 1)
	assert.Equal(t, 8, stacks[0].Quantity)
	assert.Equal(t, 8, f.repo.Quantity("bob", itemApple))
}

func TestDetachNotRecipient(t *testing.T) {
	f := newFixture(t)
	id := f.repo.SeedMessage(
		domain.Message{SenderID: "alice", RecipientID: "bob", BodyID: bodyHello},
		domain.Attachment{ItemID: itemApple, Quantity: 5},
	)

	_, err := f.svc.DetachAttachments(context.Background(), "carol", id)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 1, f.repo.AttachmentCount(id))
}

func TestDetachIsAllOrNothingOnCommitFailure(t *testing.T) {
	f := newFixture(t)
	id := f.repo.SeedMessage(
		domain.Message{SenderID: "alice", RecipientID: "bob", BodyID: bodyHello},
		domain.Attachment{ItemID: itemApple, Quantity: 5},
	)
	f.repo.FailCommit = true

	_, err := f.svc.DetachAttachments(context.Background(), "bob", id)
	require.Error(t, err)

	assert.Equal(t, 0, f.repo.Quantity("bob", itemApple))
	assert.Equal(t, 1, f.repo.AttachmentCount(id))
}

func TestEasyReplyAllowed(t *testing.T) {
	f := newFixture(t)

	message, err := f.svc.EasyReply(context.Background(), "bob", "alice", bodyHello, bodyThanks, nil)
	require.NoError(t, err)

	assert.Equal(t, bodyThanks, message.BodyID)
	require.NotNil(t, message.ReplyBodyID)
	assert.Equal(t, bodyHello, *message.ReplyBodyID)
}

func TestEasyReplyNotRegistered(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.EasyReply(context.Background(), "bob", "alice", bodyOrphan, bodyThanks, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidEasyReply)
}

func TestEasyReplyUnknownOriginalBody(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.EasyReply(context.Background(), "bob", "alice", 999, bodyThanks, nil)
	assert.ErrorIs(t, err, domain.ErrMessageBodyNotFound)
}

func TestListInboxNewestFirst(t *testing.T) {
	f := newFixture(t)
	first := f.repo.SeedMessage(domain.Message{SenderID: "alice", RecipientID: "bob", BodyID: bodyHello})
	second := f.repo.SeedMessage(domain.Message{SenderID: "carol", RecipientID: "bob", BodyID: bodyOrphan})
	f.repo.SeedMessage(domain.Message{SenderID: "alice", RecipientID: "carol", BodyID: bodyHello})

	inbox, err := f.svc.ListInbox(context.Background(), "bob")
	require.NoError(t, err)

	require.Len(t, inbox, 2)
	assert.Equal(t, second, inbox[0].ID)
	assert.Equal(t, first, inbox[1].ID)
}
