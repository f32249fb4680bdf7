// Package stream fans chat subscriptions out to HTTP consumers. One
// upstream chat subscription is held per client conversation and shared by
// every SSE/WebSocket connection watching it.
package stream

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
)

// HeartbeatInterval paces keepalive frames on SSE and WebSocket streams.
const HeartbeatInterval = 30 * time.Second

// Subscriber is the chat service seam the hub consumes. onClosed fires
// when the upstream subscription dies mid-stream.
type Subscriber interface {
	Subscribe(ctx context.Context, clientID string, fn func(model.ChatMessage), onClosed func(error)) (func(), error)
}

type Conn struct {
	ClientID string
	Events   chan model.ChatMessage
	Done     chan struct{}
}

type Hub struct {
	chat Subscriber

	mu        sync.Mutex
	conns     map[string]map[*Conn]bool
	upstreams map[string]func()
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewHub(chat Subscriber) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		chat:      chat,
		conns:     make(map[string]map[*Conn]bool),
		upstreams: make(map[string]func()),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Subscribe attaches a connection to clientID's conversation, starting the
// upstream chat subscription if this is the first watcher. The upstream is
// whichever backend the chat service picks at this moment; if it later
// fails, every connection on the conversation is dropped so consumers
// reconnect, which re-subscribes against the fallback.
func (h *Hub) Subscribe(clientID string) (*Conn, error) {
	conn := &Conn{
		ClientID: clientID,
		Events:   make(chan model.ChatMessage, 100),
		Done:     make(chan struct{}),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[clientID] == nil {
		cancel, err := h.chat.Subscribe(h.ctx, clientID, func(msg model.ChatMessage) {
			h.broadcast(clientID, msg)
		}, func(err error) {
			h.dropConversation(clientID, err)
		})
		if err != nil {
			return nil, err
		}
		h.conns[clientID] = make(map[*Conn]bool)
		h.upstreams[clientID] = cancel
	}

	h.conns[clientID][conn] = true

	log.Info().
		Str("clientId", clientID).
		Int("connCount", len(h.conns[clientID])).
		Msg("stream connection subscribed")

	return conn, nil
}

func (h *Hub) Unsubscribe(conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.conns[conn.ClientID]
	if !ok || !conns[conn] {
		return
	}

	delete(conns, conn)
	close(conn.Done)

	if len(conns) == 0 {
		delete(h.conns, conn.ClientID)
		if cancel, ok := h.upstreams[conn.ClientID]; ok {
			cancel()
			delete(h.upstreams, conn.ClientID)
		}
	}

	log.Info().
		Str("clientId", conn.ClientID).
		Int("connCount", len(conns)).
		Msg("stream connection unsubscribed")
}

// dropConversation closes every connection watching clientID after its
// upstream subscription dies. Closing Done ends the SSE/WS streams, and
// reconnecting clients trigger a fresh Subscribe against whichever backend
// is current.
func (h *Hub) dropConversation(clientID string, err error) {
	h.mu.Lock()
	conns := h.conns[clientID]
	delete(h.conns, clientID)
	cancel := h.upstreams[clientID]
	delete(h.upstreams, clientID)
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for conn := range conns {
		close(conn.Done)
	}

	if len(conns) > 0 {
		log.Warn().Err(err).
			Str("clientId", clientID).
			Int("connCount", len(conns)).
			Msg("upstream subscription died, dropping stream connections")
	}
}

func (h *Hub) broadcast(clientID string, msg model.ChatMessage) {
	h.mu.Lock()
	conns := make([]*Conn, 0, len(h.conns[clientID]))
	for conn := range h.conns[clientID] {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		select {
		case conn.Events <- msg:
		default:
			log.Warn().
				Str("clientId", clientID).
				Msg("stream buffer full, dropping message")
		}
	}
}

func (h *Hub) Close() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, cancel := range h.upstreams {
		cancel()
	}
	for _, conns := range h.conns {
		for conn := range conns {
			close(conn.Done)
		}
	}
	h.conns = make(map[string]map[*Conn]bool)
	h.upstreams = make(map[string]func())
}

func (h *Hub) ConnCount(clientID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[clientID])
}
