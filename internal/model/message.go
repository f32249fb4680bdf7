package model

import (
	"encoding/json"
	"time"
)

// ChatMessage is one message in a client conversation. It is created by a
// send, mutated only to flip IsRead, and never deleted by the chat
// subsystem. A message with neither text nor an attachment is never
// persisted.
type ChatMessage struct {
	ID             string          `db:"id" json:"id"`
	ClientID       string          `db:"client_id" json:"clientId"`
	SenderID       string          `db:"sender_id" json:"senderId"`
	SenderName     *string         `db:"sender_name" json:"senderName,omitempty"`
	Message        string          `db:"message" json:"message"`
	IsFromClient   bool            `db:"is_from_client" json:"isFromClient"`
	AttachmentURL  *string         `db:"attachment_url" json:"attachmentUrl,omitempty"`
	AttachmentType *AttachmentKind `db:"attachment_type" json:"attachmentType,omitempty"`
	IsRead         bool            `db:"is_read" json:"isRead"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
}

func (m *ChatMessage) HasContent() bool {
	return m.Message != "" || m.AttachmentURL != nil
}

// ToEventData returns the JSON payload published on stream events.
func (m *ChatMessage) ToEventData() json.RawMessage {
	data, _ := json.Marshal(m)
	return data
}

type CreateChatMessageParams struct {
	ID             string
	ClientID       string
	SenderID       string
	SenderName     *string
	Message        string
	IsFromClient   bool
	AttachmentURL  *string
	AttachmentType *AttachmentKind
	CreatedAt      time.Time
}

// Attachment is the result of a chat upload.
type Attachment struct {
	URL  string         `json:"url"`
	Kind AttachmentKind `json:"kind"`
}
