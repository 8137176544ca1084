package messages

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, tenantID, userID string, senderID *string, mtype, content string, attachment *string) error
	InsertBroadcast(ctx context.Context, tenantID string, senderID *string, mtype, content string, attachment *string) error
	List(ctx context.Context, tenantID, userID string, limit, offset int) ([]Message, error)
	MarkAllRead(ctx context.Context, tenantID, userID string) error
	UnreadCount(ctx context.Context, tenantID, userID string) (int, error)
	DeleteBroadcast(ctx context.Context, tenantID, senderID, messageID string) (int64, error)
	UserEmail(ctx context.Context, tenantID, userID string) (string, error)
	RecipientExists(ctx context.Context, tenantID, userID string) (bool, error)
}
