package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	redisclient "github.com/alenbi/worknest-clienthub-52-sub000/internal/redis"
)

// RedisStore implements Store over Redis: one hash per path, a pub/sub
// channel per path for change notification, and plain keys for blobs.
type RedisStore struct {
	client *redisclient.Client
}

func NewRedisStore(client *redisclient.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) Read(ctx context.Context, path string) (Snapshot, error) {
	raw, err := s.client.HGetAll(ctx, redisclient.DocKey(path)).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	snapshot := make(Snapshot, len(raw))
	for id, value := range raw {
		snapshot[id] = json.RawMessage(value)
	}
	return snapshot, nil
}

func (s *RedisStore) Write(ctx context.Context, path, id string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", path, id, err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, redisclient.DocKey(path), id, data)
	pipe.Publish(ctx, redisclient.ChangeChannel(path), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write %s/%s: %w", path, id, err)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, path, id string, fields map[string]any) error {
	key := redisclient.DocKey(path)

	raw, err := s.client.HGet(ctx, key, id).Result()
	if err == goredis.Nil {
		return fmt.Errorf("update %s/%s: record not found", path, id)
	}
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", path, id, err)
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return fmt.Errorf("update %s/%s: %w", path, id, err)
	}
	for k, v := range fields {
		record[k] = v
	}

	return s.Write(ctx, path, id, record)
}

func (s *RedisStore) Subscribe(ctx context.Context, path string, fn func(Snapshot), onErr func(error)) (func(), error) {
	subCtx, cancelCtx := context.WithCancel(ctx)
	pubsub := s.client.Subscribe(subCtx, redisclient.ChangeChannel(path))

	// Force the SUBSCRIBE onto the wire so connection failures surface
	// here instead of silently inside the receive loop.
	if _, err := pubsub.Receive(subCtx); err != nil {
		pubsub.Close()
		cancelCtx()
		return nil, fmt.Errorf("subscribe %s: %w", path, err)
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			cancelCtx()
			_ = pubsub.Close()
		})
	}

	go s.pump(subCtx, path, pubsub, fn, onErr, cancel)

	return cancel, nil
}

// pump serializes all snapshot deliveries for one subscription.
func (s *RedisStore) pump(ctx context.Context, path string, pubsub *goredis.PubSub, fn func(Snapshot), onErr func(error), cancel func()) {
	deliver := func() bool {
		snapshot, err := s.Read(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			log.Warn().Err(err).Str("path", path).Msg("realtime snapshot read failed")
			cancel()
			if onErr != nil {
				onErr(err)
			}
			return false
		}
		fn(snapshot)
		return true
	}

	// State at subscribe time counts as the first change.
	if !deliver() {
		return
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				if ctx.Err() == nil && onErr != nil {
					cancel()
					onErr(fmt.Errorf("subscription channel closed: %s", path))
				}
				return
			}
			if !deliver() {
				return
			}
		}
	}
}

func (s *RedisStore) PutBlob(ctx context.Context, key, contentType string, data []byte) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisclient.BlobKey(key), data, 0)
	pipe.Set(ctx, redisclient.BlobMetaKey(key), contentType, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put blob %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) GetBlob(ctx context.Context, key string) ([]byte, string, error) {
	data, err := s.client.Get(ctx, redisclient.BlobKey(key)).Bytes()
	if err == goredis.Nil {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("get blob %s: %w", key, err)
	}

	contentType, err := s.client.Get(ctx, redisclient.BlobMetaKey(key)).Result()
	if err != nil && err != goredis.Nil {
		return nil, "", fmt.Errorf("get blob meta %s: %w", key, err)
	}

	return data, contentType, nil
}
