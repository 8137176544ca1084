package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, tenantID, name, employeeID, passwordHash, position string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (tenant_id, name, employee_id, password_hash, position)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, tenantID, name, employeeID, passwordHash, position).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrDuplicateEmployeeID
		}
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, tenantID, userID string) (*User, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, tenant_id, name, employee_id, email, position, mfa_enabled, created_at
    FROM users
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, userID)

	var u User
	err := row.Scan(&u.ID, &u.TenantID, &u.Name, &u.EmployeeID, &u.Email, &u.Position, &u.MFAEnabled, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) List(ctx context.Context, tenantID string) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, tenant_id, name, employee_id, email, position, mfa_enabled, created_at
    FROM users
    WHERE tenant_id = $1
    ORDER BY employee_id
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.TenantID, &u.Name, &u.EmployeeID, &u.Email, &u.Position, &u.MFAEnabled, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) PasswordHash(ctx context.Context, tenantID, userID string) (string, error) {
	var hash string
	err := s.DB.QueryRow(ctx, `
    SELECT password_hash FROM users WHERE tenant_id = $1 AND id = $2
  `, tenantID, userID).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUserNotFound
	}
	return hash, err
}

func (s *Store) UpdatePassword(ctx context.Context, tenantID, userID, passwordHash string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users SET password_hash = $3 WHERE tenant_id = $1 AND id = $2
  `, tenantID, userID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *Store) UpdateEmail(ctx context.Context, tenantID, userID string, email *string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users SET email = $3 WHERE tenant_id = $1 AND id = $2
  `, tenantID, userID, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes the user; attendance, breaks, shifts and messages
// follow through the foreign keys.
func (s *Store) Delete(ctx context.Context, tenantID, userID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM users WHERE tenant_id = $1 AND id = $2
  `, tenantID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
