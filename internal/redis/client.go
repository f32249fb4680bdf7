package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{client}, nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}

// DocKey is the hash holding the document collection at a path.
func DocKey(path string) string {
	return fmt.Sprintf("doc:%s", path)
}

// ChangeChannel carries change notifications for a path.
func ChangeChannel(path string) string {
	return fmt.Sprintf("doc:changes:%s", path)
}

// BlobKey stores uploaded attachment bytes.
func BlobKey(key string) string {
	return fmt.Sprintf("blob:%s", key)
}

// BlobMetaKey stores the content type alongside a blob.
func BlobMetaKey(key string) string {
	return fmt.Sprintf("blob:meta:%s", key)
}
