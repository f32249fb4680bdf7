package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/realtime"
)

func TestHealthFlag(t *testing.T) {
	t.Run("starts unavailable", func(t *testing.T) {
		h := New()
		assert.False(t, h.Available())
	})

	t.Run("mark up then down", func(t *testing.T) {
		h := New()
		h.MarkUp()
		assert.True(t, h.Available())
		h.MarkDown()
		assert.False(t, h.Available())
	})

	t.Run("transitions are idempotent", func(t *testing.T) {
		h := New()
		h.MarkDown()
		h.MarkDown()
		assert.False(t, h.Available())
		h.MarkUp()
		h.MarkUp()
		assert.True(t, h.Available())
	})
}

// probeStore implements only what the probe touches.
type probeStore struct {
	readErr   error
	readDelay time.Duration
}

func (s *probeStore) Read(ctx context.Context, path string) (realtime.Snapshot, error) {
	if s.readDelay > 0 {
		select {
		case <-time.After(s.readDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return realtime.Snapshot{}, s.readErr
}

func (s *probeStore) Write(ctx context.Context, path, id string, value any) error { return nil }
func (s *probeStore) Update(ctx context.Context, path, id string, fields map[string]any) error {
	return nil
}
func (s *probeStore) Subscribe(ctx context.Context, path string, fn func(realtime.Snapshot), onErr func(error)) (func(), error) {
	return func() {}, nil
}
func (s *probeStore) PutBlob(ctx context.Context, key, contentType string, data []byte) error {
	return nil
}
func (s *probeStore) GetBlob(ctx context.Context, key string) ([]byte, string, error) {
	return nil, "", nil
}

func TestProbe(t *testing.T) {
	ctx := context.Background()

	t.Run("successful read marks the backend up", func(t *testing.T) {
		h := New()
		ok := Probe(ctx, &probeStore{}, h, time.Second)
		assert.True(t, ok)
		assert.True(t, h.Available())
	})

	t.Run("read error marks the backend down", func(t *testing.T) {
		h := New()
		h.MarkUp()
		ok := Probe(ctx, &probeStore{readErr: errors.New("offline")}, h, time.Second)
		assert.False(t, ok)
		assert.False(t, h.Available())
	})

	t.Run("slow read settles as down at the timeout", func(t *testing.T) {
		h := New()
		h.MarkUp()

		start := time.Now()
		ok := Probe(ctx, &probeStore{readDelay: 5 * time.Second}, h, 50*time.Millisecond)

		assert.False(t, ok)
		assert.False(t, h.Available())
		assert.Less(t, time.Since(start), 2*time.Second, "probe must not block past its bound")
	})
}
