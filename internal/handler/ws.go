package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/auth"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/stream"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPongTimeout  = 60 * time.Second
)

// WSHandler streams chat messages over a WebSocket for consumers that
// prefer it over SSE. The dial is authenticated by the same stream ticket;
// the socket is outbound-only, sends still go through the REST endpoint.
type WSHandler struct {
	hub      *stream.Hub
	tickets  *auth.TicketIssuer
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *stream.Hub, tickets *auth.TicketIssuer) *WSHandler {
	return &WSHandler{
		hub:     hub,
		tickets: tickets,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The ticket already authenticates the dial.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientID, err := resolveStreamClientID(h.tickets, r)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.hub.Subscribe(clientID)
	if err != nil {
		log.Error().Err(err).Str("clientId", clientID).Msg("failed to open chat stream")
		writeError(w, err)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.Unsubscribe(conn)
		log.Warn().Err(err).Str("clientId", clientID).Msg("websocket upgrade failed")
		return
	}
	defer func() {
		h.hub.Unsubscribe(conn)
		ws.Close()
	}()

	log.Info().Str("clientId", clientID).Msg("websocket connection established")

	// Reader exists only to notice the peer going away.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		ws.SetReadLimit(512)
		ws.SetReadDeadline(time.Now().Add(wsPongTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(wsPongTimeout))
		})
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	heartbeat := time.NewTicker(stream.HeartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return

		case <-readerDone:
			log.Info().Str("clientId", clientID).Msg("websocket closed by peer")
			return

		case <-conn.Done:
			ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream closed"))
			return

		case msg := <-conn.Events:
			ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := ws.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Str("clientId", clientID).Msg("failed to write websocket event")
				return
			}

		case <-heartbeat.C:
			ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
