package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/database"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
)

type ChatMessageRepository interface {
	FindByID(ctx context.Context, id string) (*model.ChatMessage, error)
	ListByClientID(ctx context.Context, clientID string) ([]model.ChatMessage, error)
	CountUnreadByClientID(ctx context.Context, clientID string, fromClient bool) (int, error)
	Create(ctx context.Context, params model.CreateChatMessageParams) (*model.ChatMessage, error)
	MarkRead(ctx context.Context, clientID, messageID string) error
}

type chatMessageRepo struct {
	db *sqlx.DB
}

func NewChatMessageRepository(db *sqlx.DB) ChatMessageRepository {
	return &chatMessageRepo{db: db}
}

func (r *chatMessageRepo) FindByID(ctx context.Context, id string) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	err := r.db.GetContext(ctx, &msg, `SELECT * FROM chat_messages WHERE id = $1`, id)
	return HandleNotFound(&msg, err)
}

func (r *chatMessageRepo) ListByClientID(ctx context.Context, clientID string) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.db.SelectContext(ctx, &msgs, `
		SELECT * FROM chat_messages
		WHERE client_id = $1
		ORDER BY created_at ASC
	`, clientID)
	return msgs, err
}

func (r *chatMessageRepo) CountUnreadByClientID(ctx context.Context, clientID string, fromClient bool) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM chat_messages
		WHERE client_id = $1 AND is_from_client = $2 AND is_read = FALSE
	`, clientID, fromClient)
	return count, err
}

// Create inserts a message and fires a NOTIFY with the inserted row so that
// active subscriptions see it in commit order. The id and created_at may be
// supplied by the caller (messages constructed for the realtime store keep
// the same identity when they land here on fallback).
func (r *chatMessageRepo) Create(ctx context.Context, params model.CreateChatMessageParams) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	err := r.db.GetContext(ctx, &msg, `
		INSERT INTO chat_messages
			(id, client_id, sender_id, sender_name, message,
			 is_from_client, attachment_url, attachment_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING *
	`, params.ID, params.ClientID, params.SenderID, params.SenderName,
		params.Message, params.IsFromClient, params.AttachmentURL,
		params.AttachmentType, params.CreatedAt)
	if err != nil {
		return nil, err
	}

	// The row is already committed; a lost notification only delays
	// delivery until the next full read.
	_, _ = r.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`,
		database.ChatNotifyChannel, string(msg.ToEventData()))

	return &msg, nil
}

func (r *chatMessageRepo) MarkRead(ctx context.Context, clientID, messageID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE chat_messages SET is_read = TRUE
		WHERE id = $1 AND client_id = $2
	`, messageID, clientID)
	return err
}
