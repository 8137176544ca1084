package core

import (
	"context"
	"errors"
	"log/slog"

	"timecard/internal/domain/auth"
)

var (
	ErrDuplicateEmployeeID = errors.New("employee id already registered for this company")
	ErrUserNotFound        = errors.New("user not found")
	ErrWrongPassword       = errors.New("current password does not match")
	ErrInvalidPosition     = errors.New("unknown position")
	ErrSelfDelete          = errors.New("cannot delete your own account")
)

type StoreAPI interface {
	Create(ctx context.Context, tenantID, name, employeeID, passwordHash, position string) (string, error)
	Get(ctx context.Context, tenantID, userID string) (*User, error)
	List(ctx context.Context, tenantID string) ([]User, error)
	PasswordHash(ctx context.Context, tenantID, userID string) (string, error)
	UpdatePassword(ctx context.Context, tenantID, userID, passwordHash string) error
	UpdateEmail(ctx context.Context, tenantID, userID string, email *string) error
	Delete(ctx context.Context, tenantID, userID string) error
}

// Notifier delivers system messages about account changes.
type Notifier interface {
	Notify(ctx context.Context, tenantID, userID, content string) error
}

type Service struct {
	Store  StoreAPI
	Notify Notifier
}

func NewService(store StoreAPI, notifier Notifier) *Service {
	return &Service{Store: store, Notify: notifier}
}

func (s *Service) Register(ctx context.Context, tenantID, name, employeeID, password, position string) (*User, error) {
	if err := ValidateEmployeeID(employeeID); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if position == "" {
		position = auth.PositionStaff
	}
	if !auth.ValidPosition(position) {
		return nil, ErrInvalidPosition
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	id, err := s.Store.Create(ctx, tenantID, name, employeeID, hash, position)
	if err != nil {
		return nil, err
	}
	return s.Store.Get(ctx, tenantID, id)
}

func (s *Service) ChangePassword(ctx context.Context, tenantID, userID, current, next string) error {
	hash, err := s.Store.PasswordHash(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(hash, current); err != nil {
		return ErrWrongPassword
	}
	if err := ValidatePassword(next); err != nil {
		return err
	}

	newHash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.Store.UpdatePassword(ctx, tenantID, userID, newHash); err != nil {
		return err
	}

	if s.Notify != nil {
		if err := s.Notify.Notify(ctx, tenantID, userID, "Your password was changed."); err != nil {
			slog.Warn("password change notification failed", "error", err, "user_id", userID)
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, tenantID, userID string) (*User, error) {
	user, err := s.Store.Get(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, tenantID string) ([]User, error) {
	return s.Store.List(ctx, tenantID)
}

func (s *Service) UpdateEmail(ctx context.Context, tenantID, userID string, email *string) error {
	return s.Store.UpdateEmail(ctx, tenantID, userID, email)
}

// Delete removes another user's account. Managers cannot remove
// themselves this way.
func (s *Service) Delete(ctx context.Context, tenantID, actorID, userID string) error {
	if actorID == userID {
		return ErrSelfDelete
	}
	return s.Store.Delete(ctx, tenantID, userID)
}
