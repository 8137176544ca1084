package messages

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

type fakeStore struct {
	nextID int
	rows   []*Message
	users  map[string]string
	emails map[string]string
}

func newFakeStore(users ...string) *fakeStore {
	f := &fakeStore{users: map[string]string{}, emails: map[string]string{}}
	for _, u := range users {
		f.users[u] = "User " + u
	}
	return f
}

func (f *fakeStore) Insert(_ context.Context, tenantID, userID string, senderID *string, mtype, content string, attachment *string) error {
	f.nextID++
	f.rows = append(f.rows, &Message{
		ID: "m" + strconv.Itoa(f.nextID), TenantID: tenantID, UserID: userID,
		SenderID: senderID, Type: mtype, Content: content, Attachment: attachment,
		CreatedAt: time.Now(),
	})
	return nil
}

func (f *fakeStore) InsertBroadcast(ctx context.Context, tenantID string, senderID *string, mtype, content string, attachment *string) error {
	for id := range f.users {
		if senderID != nil && id == *senderID {
			continue
		}
		if err := f.Insert(ctx, tenantID, id, senderID, mtype, content, attachment); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) List(_ context.Context, tenantID, userID string, limit, offset int) ([]Message, error) {
	var out []Message
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].TenantID == tenantID && f.rows[i].UserID == userID {
			out = append(out, *f.rows[i])
		}
	}
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) MarkAllRead(_ context.Context, tenantID, userID string) error {
	for _, m := range f.rows {
		if m.TenantID == tenantID && m.UserID == userID {
			m.IsRead = true
		}
	}
	return nil
}

func (f *fakeStore) UnreadCount(_ context.Context, tenantID, userID string) (int, error) {
	count := 0
	for _, m := range f.rows {
		if m.TenantID == tenantID && m.UserID == userID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) DeleteBroadcast(_ context.Context, tenantID, senderID, messageID string) (int64, error) {
	var content string
	found := false
	for _, m := range f.rows {
		if m.ID == messageID && m.TenantID == tenantID && m.Type == TypeBroadcast &&
			m.SenderID != nil && *m.SenderID == senderID {
			content = m.Content
			found = true
		}
	}
	if !found {
		return 0, nil
	}
	var kept []*Message
	var deleted int64
	for _, m := range f.rows {
		if m.Type == TypeBroadcast && m.SenderID != nil && *m.SenderID == senderID && m.Content == content {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	f.rows = kept
	return deleted, nil
}

func (f *fakeStore) UserEmail(_ context.Context, _, userID string) (string, error) {
	return f.emails[userID], nil
}

func (f *fakeStore) RecipientExists(_ context.Context, _, userID string) (bool, error) {
	_, ok := f.users[userID]
	return ok, nil
}

type recordingMailer struct {
	to []string
}

func (r *recordingMailer) Send(_ context.Context, _, to, _, _ string) error {
	r.to = append(r.to, to)
	return nil
}

func TestDirectMessageValidation(t *testing.T) {
	svc := New(newFakeStore("u1", "u2"), nil)

	if err := svc.SendDirect(context.Background(), "t1", "u1", "u2", "  ", nil); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if err := svc.SendDirect(context.Background(), "t1", "u1", "ghost", "hello", nil); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
	if err := svc.SendDirect(context.Background(), "t1", "u1", "u2", "hello", nil); err != nil {
		t.Fatalf("send direct: %v", err)
	}
}

func TestBroadcastExcludesSender(t *testing.T) {
	store := newFakeStore("u1", "u2", "u3")
	svc := New(store, nil)

	if err := svc.SendBroadcast(context.Background(), "t1", "u1", "meeting at 3", nil); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if len(store.rows) != 2 {
		t.Fatalf("expected 2 copies, got %d", len(store.rows))
	}
	for _, m := range store.rows {
		if m.UserID == "u1" {
			t.Fatal("sender must not receive their own broadcast")
		}
	}
}

func TestListMarksReadAndReportsPriorUnread(t *testing.T) {
	store := newFakeStore("u1", "u2")
	svc := New(store, nil)

	if err := svc.Notify(context.Background(), "t1", "u2", "first"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := svc.Notify(context.Background(), "t1", "u2", "second"); err != nil {
		t.Fatalf("notify: %v", err)
	}

	list, unread, err := svc.List(context.Background(), "t1", "u2", 50, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if unread != 2 || len(list) != 2 {
		t.Fatalf("expected 2 unread and 2 listed, got %d and %d", unread, len(list))
	}
	if list[0].Content != "second" {
		t.Fatalf("list must be newest first, got %q", list[0].Content)
	}

	count, err := svc.UnreadCount(context.Background(), "t1", "u2")
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 0 {
		t.Fatalf("listing must mark messages read, still %d unread", count)
	}
}

func TestDeleteBroadcastOwnership(t *testing.T) {
	store := newFakeStore("u1", "u2", "u3")
	svc := New(store, nil)

	if err := svc.SendBroadcast(context.Background(), "t1", "u1", "old news", nil); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	target := store.rows[0].ID

	if err := svc.DeleteBroadcast(context.Background(), "t1", "u2", target); !errors.Is(err, ErrNotYourMessage) {
		t.Fatalf("expected ErrNotYourMessage, got %v", err)
	}
	if err := svc.DeleteBroadcast(context.Background(), "t1", "u1", target); err != nil {
		t.Fatalf("delete broadcast: %v", err)
	}
	if len(store.rows) != 0 {
		t.Fatalf("expected all copies removed, %d left", len(store.rows))
	}
}

func TestNotifyEmailsWhenAddressKnown(t *testing.T) {
	store := newFakeStore("u1", "u2")
	store.emails["u2"] = "u2@example.com"
	mailer := &recordingMailer{}
	svc := New(store, mailer)

	if err := svc.Notify(context.Background(), "t1", "u2", "ping"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := svc.Notify(context.Background(), "t1", "u1", "ping"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(mailer.to) != 1 || mailer.to[0] != "u2@example.com" {
		t.Fatalf("expected one mail to u2, got %v", mailer.to)
	}
}
