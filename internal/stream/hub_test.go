package stream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
)

type fakeSubscriber struct {
	mu         sync.Mutex
	fns        map[string]func(model.ChatMessage)
	closers    map[string]func(error)
	subscribes int
	cancels    int
	failNext   bool
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{
		fns:     make(map[string]func(model.ChatMessage)),
		closers: make(map[string]func(error)),
	}
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, clientID string, fn func(model.ChatMessage), onClosed func(error)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		return nil, errors.New("backend down")
	}
	f.subscribes++
	f.fns[clientID] = fn
	f.closers[clientID] = onClosed
	return func() {
		f.mu.Lock()
		f.cancels++
		delete(f.fns, clientID)
		f.mu.Unlock()
	}, nil
}

func (f *fakeSubscriber) emit(clientID string, msg model.ChatMessage) {
	f.mu.Lock()
	fn := f.fns[clientID]
	f.mu.Unlock()
	if fn != nil {
		fn(msg)
	}
}

func (f *fakeSubscriber) fail(clientID string, err error) {
	f.mu.Lock()
	onClosed := f.closers[clientID]
	f.mu.Unlock()
	if onClosed != nil {
		onClosed(err)
	}
}

func TestHub(t *testing.T) {
	t.Run("one upstream subscription serves many connections", func(t *testing.T) {
		sub := newFakeSubscriber()
		hub := NewHub(sub)
		defer hub.Close()

		conn1, err := hub.Subscribe("c1")
		require.NoError(t, err)
		conn2, err := hub.Subscribe("c1")
		require.NoError(t, err)

		assert.Equal(t, 1, sub.subscribes)
		assert.Equal(t, 2, hub.ConnCount("c1"))

		sub.emit("c1", model.ChatMessage{ID: "m1", ClientID: "c1"})

		for _, conn := range []*Conn{conn1, conn2} {
			select {
			case msg := <-conn.Events:
				assert.Equal(t, "m1", msg.ID)
			case <-time.After(time.Second):
				t.Fatal("expected a broadcast message")
			}
		}
	})

	t.Run("upstream is cancelled when the last connection leaves", func(t *testing.T) {
		sub := newFakeSubscriber()
		hub := NewHub(sub)
		defer hub.Close()

		conn1, _ := hub.Subscribe("c1")
		conn2, _ := hub.Subscribe("c1")

		hub.Unsubscribe(conn1)
		assert.Equal(t, 0, sub.cancels)

		hub.Unsubscribe(conn2)
		assert.Equal(t, 1, sub.cancels)
		assert.Equal(t, 0, hub.ConnCount("c1"))
	})

	t.Run("unsubscribe is idempotent", func(t *testing.T) {
		sub := newFakeSubscriber()
		hub := NewHub(sub)
		defer hub.Close()

		conn, _ := hub.Subscribe("c1")
		hub.Unsubscribe(conn)
		hub.Unsubscribe(conn)

		assert.Equal(t, 1, sub.cancels)
	})

	t.Run("subscribe failure surfaces to the caller", func(t *testing.T) {
		sub := newFakeSubscriber()
		sub.failNext = true
		hub := NewHub(sub)
		defer hub.Close()

		_, err := hub.Subscribe("c1")
		assert.Error(t, err)
		assert.Equal(t, 0, hub.ConnCount("c1"))
	})

	t.Run("conversations are isolated", func(t *testing.T) {
		sub := newFakeSubscriber()
		hub := NewHub(sub)
		defer hub.Close()

		conn1, _ := hub.Subscribe("c1")
		conn2, _ := hub.Subscribe("c2")

		sub.emit("c2", model.ChatMessage{ID: "m2", ClientID: "c2"})

		select {
		case msg := <-conn2.Events:
			assert.Equal(t, "m2", msg.ID)
		case <-time.After(time.Second):
			t.Fatal("expected a message on c2")
		}

		select {
		case <-conn1.Events:
			t.Fatal("c1 must not receive c2 traffic")
		default:
		}
	})

	t.Run("upstream death drops every connection on the conversation", func(t *testing.T) {
		sub := newFakeSubscriber()
		hub := NewHub(sub)
		defer hub.Close()

		conn1, _ := hub.Subscribe("c1")
		conn2, _ := hub.Subscribe("c1")
		other, _ := hub.Subscribe("c2")

		sub.fail("c1", errors.New("backend gone"))

		for _, conn := range []*Conn{conn1, conn2} {
			select {
			case <-conn.Done:
			case <-time.After(time.Second):
				t.Fatal("expected Done to close after the upstream died")
			}
		}
		assert.Equal(t, 0, hub.ConnCount("c1"))

		select {
		case <-other.Done:
			t.Fatal("c2 must survive a c1 upstream failure")
		default:
		}

		// A handler's deferred unsubscribe of a dropped connection is a
		// no-op, and a reconnect starts a fresh upstream.
		hub.Unsubscribe(conn1)
		_, err := hub.Subscribe("c1")
		require.NoError(t, err)
		assert.Equal(t, 1, hub.ConnCount("c1"))
	})

	t.Run("close releases every connection", func(t *testing.T) {
		sub := newFakeSubscriber()
		hub := NewHub(sub)

		conn, _ := hub.Subscribe("c1")
		hub.Close()

		select {
		case <-conn.Done:
		case <-time.After(time.Second):
			t.Fatal("expected Done to close")
		}
	})
}
