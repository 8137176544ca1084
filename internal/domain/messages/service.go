package messages

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

var (
	ErrEmptyContent   = errors.New("message content is empty")
	ErrUnknownUser    = errors.New("recipient not found")
	ErrNotYourMessage = errors.New("only the sender can delete a broadcast")
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	Store       StoreAPI
	Mailer      Mailer
	DefaultFrom string
}

func New(store StoreAPI, mailer Mailer) *Service {
	return &Service{Store: store, Mailer: mailer, DefaultFrom: "no-reply@example.com"}
}

// Notify stores a system message for one user. Used as the attendance
// and reminder side channel; callers treat failures as non-fatal.
func (s *Service) Notify(ctx context.Context, tenantID, userID, content string) error {
	if err := s.Store.Insert(ctx, tenantID, userID, nil, TypeSystem, content, nil); err != nil {
		return err
	}
	s.mail(ctx, tenantID, userID, content)
	return nil
}

// Broadcast stores a system message for every user in the tenant.
func (s *Service) Broadcast(ctx context.Context, tenantID, content string) error {
	return s.Store.InsertBroadcast(ctx, tenantID, nil, TypeSystem, content, nil)
}

func (s *Service) SendDirect(ctx context.Context, tenantID, senderID, recipientID, content string, attachment *string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	ok, err := s.Store.RecipientExists(ctx, tenantID, recipientID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownUser
	}
	if err := s.Store.Insert(ctx, tenantID, recipientID, &senderID, TypeDirect, content, attachment); err != nil {
		return err
	}
	s.mail(ctx, tenantID, recipientID, content)
	return nil
}

func (s *Service) SendBroadcast(ctx context.Context, tenantID, senderID, content string, attachment *string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	return s.Store.InsertBroadcast(ctx, tenantID, &senderID, TypeBroadcast, content, attachment)
}

// List returns the user's inbox, newest first, and marks it read. The
// unread count returned alongside reflects the state before the read.
func (s *Service) List(ctx context.Context, tenantID, userID string, limit, offset int) ([]Message, int, error) {
	unread, err := s.Store.UnreadCount(ctx, tenantID, userID)
	if err != nil {
		return nil, 0, err
	}
	list, err := s.Store.List(ctx, tenantID, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if err := s.Store.MarkAllRead(ctx, tenantID, userID); err != nil {
		slog.Warn("mark messages read failed", "error", err, "user_id", userID)
	}
	return list, unread, nil
}

func (s *Service) UnreadCount(ctx context.Context, tenantID, userID string) (int, error) {
	return s.Store.UnreadCount(ctx, tenantID, userID)
}

func (s *Service) DeleteBroadcast(ctx context.Context, tenantID, senderID, messageID string) error {
	deleted, err := s.Store.DeleteBroadcast(ctx, tenantID, senderID, messageID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotYourMessage
	}
	return nil
}

func (s *Service) mail(ctx context.Context, tenantID, userID, content string) {
	if s.Mailer == nil {
		return
	}
	email, err := s.Store.UserEmail(ctx, tenantID, userID)
	if err != nil {
		slog.Warn("message email lookup failed", "error", err, "user_id", userID)
		return
	}
	if email == "" {
		return
	}
	if err := s.Mailer.Send(ctx, s.DefaultFrom, email, "New message", content); err != nil {
		slog.Warn("message email send failed", "error", err, "user_id", userID)
	}
}
