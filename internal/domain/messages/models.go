package messages

import "time"

type Message struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"-"`
	UserID     string    `json:"-"`
	SenderID   *string   `json:"senderId,omitempty"`
	SenderName string    `json:"senderName,omitempty"`
	Type       string    `json:"type"`
	Content    string    `json:"content"`
	Attachment *string   `json:"attachment,omitempty"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}
