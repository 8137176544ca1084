package messages

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, tenantID, userID string, senderID *string, mtype, content string, attachment *string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO messages (tenant_id, user_id, sender_id, mtype, content, attachment)
    VALUES ($1, $2, $3, $4, $5, $6)
  `, tenantID, userID, senderID, mtype, content, attachment)
	return err
}

// InsertBroadcast fans the message out to every user in the tenant,
// excluding the sender when one is set.
func (s *Store) InsertBroadcast(ctx context.Context, tenantID string, senderID *string, mtype, content string, attachment *string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO messages (tenant_id, user_id, sender_id, mtype, content, attachment)
    SELECT $1, u.id, $2, $3, $4, $5
    FROM users u
    WHERE u.tenant_id = $1 AND ($2::uuid IS NULL OR u.id <> $2::uuid)
  `, tenantID, senderID, mtype, content, attachment)
	return err
}

func (s *Store) List(ctx context.Context, tenantID, userID string, limit, offset int) ([]Message, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT m.id, m.tenant_id, m.user_id, m.sender_id, COALESCE(su.name, ''),
           m.mtype, m.content, m.attachment, m.is_read, m.created_at
    FROM messages m
    LEFT JOIN users su ON su.id = m.sender_id
    WHERE m.tenant_id = $1 AND m.user_id = $2
    ORDER BY m.created_at DESC
    LIMIT $3 OFFSET $4
  `, tenantID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.TenantID, &m.UserID, &m.SenderID, &m.SenderName,
			&m.Type, &m.Content, &m.Attachment, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (s *Store) MarkAllRead(ctx context.Context, tenantID, userID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE messages SET is_read = true
    WHERE tenant_id = $1 AND user_id = $2 AND is_read = false
  `, tenantID, userID)
	return err
}

func (s *Store) UnreadCount(ctx context.Context, tenantID, userID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM messages
    WHERE tenant_id = $1 AND user_id = $2 AND is_read = false
  `, tenantID, userID).Scan(&count)
	return count, err
}

// DeleteBroadcast removes every copy of the broadcast batch the given
// message belongs to, provided the caller sent it.
func (s *Store) DeleteBroadcast(ctx context.Context, tenantID, senderID, messageID string) (int64, error) {
	var content string
	err := s.DB.QueryRow(ctx, `
    SELECT content FROM messages
    WHERE id = $1 AND tenant_id = $2 AND sender_id = $3 AND mtype = 'broadcast'
  `, messageID, tenantID, senderID).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	tag, err := s.DB.Exec(ctx, `
    DELETE FROM messages
    WHERE tenant_id = $1 AND sender_id = $2 AND mtype = 'broadcast' AND content = $3
  `, tenantID, senderID, content)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) UserEmail(ctx context.Context, tenantID, userID string) (string, error) {
	var email *string
	err := s.DB.QueryRow(ctx, `
    SELECT email FROM users WHERE tenant_id = $1 AND id = $2
  `, tenantID, userID).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil || email == nil {
		return "", err
	}
	return *email, nil
}

func (s *Store) RecipientExists(ctx context.Context, tenantID, userID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM users WHERE tenant_id = $1 AND id = $2
  `, tenantID, userID).Scan(&count)
	return count > 0, err
}
