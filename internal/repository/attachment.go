package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// AttachmentBlob is an uploaded file stored in Postgres. This is the
// fallback location; the realtime store's blob storage is preferred.
type AttachmentBlob struct {
	Key         string    `db:"key"`
	ContentType string    `db:"content_type"`
	Data        []byte    `db:"data"`
	CreatedAt   time.Time `db:"created_at"`
}

type AttachmentRepository interface {
	FindByKey(ctx context.Context, key string) (*AttachmentBlob, error)
	Put(ctx context.Context, key, contentType string, data []byte) error
}

type attachmentRepo struct {
	db *sqlx.DB
}

func NewAttachmentRepository(db *sqlx.DB) AttachmentRepository {
	return &attachmentRepo{db: db}
}

func (r *attachmentRepo) FindByKey(ctx context.Context, key string) (*AttachmentBlob, error) {
	var blob AttachmentBlob
	err := r.db.GetContext(ctx, &blob, `SELECT * FROM attachment_blobs WHERE key = $1`, key)
	return HandleNotFound(&blob, err)
}

func (r *attachmentRepo) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attachment_blobs (key, content_type, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO NOTHING
	`, key, contentType, data)
	return err
}
