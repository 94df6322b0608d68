package messaging

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"minifignet/internal/domain"
	"minifignet/internal/repository"
)

// FakeRepository is an in-memory repository.Message for tests. Writes
// made through a transaction are staged on a copy and only become
// visible on Commit, so all-or-nothing behavior is observable.
type FakeRepository struct {
	mu          sync.Mutex
	messages    map[int64]domain.Message
	attachments map[int64][]domain.Attachment
	stacks      map[string]map[int]int
	nextID      int64

	FailBeginTx          bool
	FailGetMessage       bool
	FailInsertMessage    bool
	FailInsertAttachment bool
	FailMarkRead         bool
	FailUpsert           bool
	FailCommit           bool
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		messages:    make(map[int64]domain.Message),
		attachments: make(map[int64][]domain.Attachment),
		stacks:      make(map[string]map[int]int),
		nextID:      1,
	}
}

// SeedMessage inserts a message directly, bypassing transactions.
func (f *FakeRepository) SeedMessage(message domain.Message, attachments ...domain.Attachment) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	message.ID = id
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	f.messages[id] = message
	for _, att := range attachments {
		att.MessageID = id
		f.attachments[id] = append(f.attachments[id], att)
	}
	return id
}

// Quantity reports a stack size, 0 when absent.
func (f *FakeRepository) Quantity(ownerID string, itemID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stacks[ownerID][itemID]
}

// SetStack seeds an inventory stack directly.
func (f *FakeRepository) SetStack(ownerID string, itemID, quantity int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stacks[ownerID] == nil {
		f.stacks[ownerID] = make(map[int]int)
	}
	f.stacks[ownerID][itemID] = quantity
}

// AttachmentCount reports attachments still held by a message.
func (f *FakeRepository) AttachmentCount(messageID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.attachments[messageID])
}

// HasMessage reports whether a message still exists.
func (f *FakeRepository) HasMessage(messageID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.messages[messageID]
	return ok
}

func (f *FakeRepository) GetMessage(ctx context.Context, messageID int64) (*domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailGetMessage {
		return nil, errors.New("fake get message error")
	}
	return f.messageLocked(messageID), nil
}

func (f *FakeRepository) ListInbox(ctx context.Context, recipientID string) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var inbox []domain.Message
	for id, message := range f.messages {
		if message.RecipientID != recipientID {
			continue
		}
		message.Attachments = append([]domain.Attachment(nil), f.attachments[id]...)
		inbox = append(inbox, message)
	}
	sort.Slice(inbox, func(i, j int) bool { return inbox[i].ID > inbox[j].ID })
	return inbox, nil
}

func (f *FakeRepository) MarkRead(ctx context.Context, messageID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailMarkRead {
		return errors.New("fake mark read error")
	}
	message, ok := f.messages[messageID]
	if !ok {
		return errors.New("fake: message not found")
	}
	message.IsRead = true
	f.messages[messageID] = message
	return nil
}

func (f *FakeRepository) BeginTx(ctx context.Context) (repository.MessageTx, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailBeginTx {
		return nil, errors.New("fake begin tx error")
	}
	tx := &fakeMessageTx{
		repo:        f,
		messages:    make(map[int64]domain.Message, len(f.messages)),
		attachments: make(map[int64][]domain.Attachment, len(f.attachments)),
		stacks:      make(map[string]map[int]int, len(f.stacks)),
		nextID:      f.nextID,
	}
	for id, message := range f.messages {
		tx.messages[id] = message
	}
	for id, atts := range f.attachments {
		tx.attachments[id] = append([]domain.Attachment(nil), atts...)
	}
	for owner, items := range f.stacks {
		tx.stacks[owner] = make(map[int]int, len(items))
		for item, qty := range items {
			tx.stacks[owner][item] = qty
		}
	}
	return tx, nil
}

func (f *FakeRepository) messageLocked(messageID int64) *domain.Message {
	message, ok := f.messages[messageID]
	if !ok {
		return nil
	}
	message.Attachments = append([]domain.Attachment(nil), f.attachments[messageID]...)
	return &message
}

type fakeMessageTx struct {
	repo        *FakeRepository
	messages    map[int64]domain.Message
	attachments map[int64][]domain.Attachment
	stacks      map[string]map[int]int
	nextID      int64
	closed      bool
}

func (t *fakeMessageTx) InsertMessage(ctx context.Context, message *domain.Message) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	if t.repo.FailInsertMessage {
		return errors.New("fake insert message error")
	}
	message.ID = t.nextID
	t.nextID++
	message.CreatedAt = time.Now()
	t.messages[message.ID] = *message
	return nil
}

func (t *fakeMessageTx) InsertAttachment(ctx context.Context, attachment domain.Attachment) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	if t.repo.FailInsertAttachment {
		return errors.New("fake insert attachment error")
	}
	t.attachments[attachment.MessageID] = append(t.attachments[attachment.MessageID], attachment)
	return nil
}

func (t *fakeMessageTx) GetMessageForUpdate(ctx context.Context, messageID int64) (*domain.Message, error) {
	if t.closed {
		return nil, errors.New(domain.ErrMsgTxClosed)
	}
	if t.repo.FailGetMessage {
		return nil, errors.New("fake get message error")
	}
	message, ok := t.messages[messageID]
	if !ok {
		return nil, nil
	}
	return &message, nil
}

func (t *fakeMessageTx) ListAttachmentsForUpdate(ctx context.Context, messageID int64) ([]domain.Attachment, error) {
	if t.closed {
		return nil, errors.New(domain.ErrMsgTxClosed)
	}
	return append([]domain.Attachment(nil), t.attachments[messageID]...), nil
}

func (t *fakeMessageTx) DeleteAttachments(ctx context.Context, messageID int64) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	delete(t.attachments, messageID)
	return nil
}

func (t *fakeMessageTx) DeleteMessage(ctx context.Context, messageID int64) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	delete(t.messages, messageID)
	return nil
}

func (t *fakeMessageTx) GetStackForUpdate(ctx context.Context, ownerID string, itemID int) (*domain.Stack, error) {
	if t.closed {
		return nil, errors.New(domain.ErrMsgTxClosed)
	}
	qty, ok := t.stacks[ownerID][itemID]
	if !ok {
		return nil, nil
	}
	return &domain.Stack{OwnerID: ownerID, ItemID: itemID, Quantity: qty}, nil
}

func (t *fakeMessageTx) UpsertStack(ctx context.Context, stack domain.Stack) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	if t.repo.FailUpsert {
		return errors.New("fake upsert error")
	}
	if t.stacks[stack.OwnerID] == nil {
		t.stacks[stack.OwnerID] = make(map[int]int)
	}
	t.stacks[stack.OwnerID][stack.ItemID] = stack.Quantity
	return nil
}

func (t *fakeMessageTx) DeleteStack(ctx context.Context, ownerID string, itemID int) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	delete(t.stacks[ownerID], itemID)
	return nil
}

func (t *fakeMessageTx) Commit(ctx context.Context) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	if t.repo.FailCommit {
		t.closed = true
		return errors.New("fake commit error")
	}
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	t.repo.messages = t.messages
	t.repo.attachments = t.attachments
	t.repo.stacks = t.stacks
	t.repo.nextID = t.nextID
	t.closed = true
	return nil
}

func (t *fakeMessageTx) Rollback(ctx context.Context) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.closed = true
	return nil
}
