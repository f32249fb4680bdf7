// Package realtime defines the port for the secondary realtime document
// store used opportunistically for chat, and its Redis-backed adapter.
//
// The store is path-keyed with snapshot-on-change subscription semantics:
// a subscriber receives the entire state at the watched path on every
// change, not a diff. Callers that need incremental delivery must dedup.
package realtime

import (
	"context"
	"encoding/json"
)

// ConnectedPath is the sentinel read by the connectivity probe.
const ConnectedPath = "system/connected"

// ChatPath is the document path holding a client's conversation.
func ChatPath(clientID string) string {
	return "chat/" + clientID
}

// Snapshot is the full keyed state at a path. Iteration order is
// unspecified; readers sort by their own ordering key.
type Snapshot map[string]json.RawMessage

// Store is the secondary realtime backend. All operations are fallible and
// callers are expected to fall back to the relational backend on error.
type Store interface {
	// Read returns the full snapshot at path. A missing path yields an
	// empty snapshot, not an error.
	Read(ctx context.Context, path string) (Snapshot, error)

	// Write stores value under path/id.
	Write(ctx context.Context, path, id string, value any) error

	// Update merges fields into the record at path/id.
	Update(ctx context.Context, path, id string, fields map[string]any) error

	// Subscribe delivers the entire snapshot at path on every change,
	// starting with the state at subscribe time. Callbacks for one
	// subscription never run concurrently with each other. onErr fires at
	// most once, after which the subscription is dead; the store never
	// resubscribes on its own. The returned cancel is idempotent and safe
	// to call even if the subscription already failed.
	Subscribe(ctx context.Context, path string, fn func(Snapshot), onErr func(error)) (cancel func(), err error)

	// PutBlob stores attachment bytes under key.
	PutBlob(ctx context.Context, key, contentType string, data []byte) error

	// GetBlob returns the bytes and content type stored under key, or
	// (nil, "", nil) when the key does not exist.
	GetBlob(ctx context.Context, key string) ([]byte, string, error)
}
