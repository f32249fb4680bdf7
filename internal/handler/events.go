package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/auth"
	apperrors "github.com/alenbi/worknest-clienthub-52-sub000/internal/errors"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/stream"
)

// EventsHandler streams chat messages over SSE. EventSource cannot set
// headers, so the dial is authenticated by a stream ticket in the query
// string rather than the session header.
type EventsHandler struct {
	hub     *stream.Hub
	tickets *auth.TicketIssuer
}

func NewEventsHandler(hub *stream.Hub, tickets *auth.TicketIssuer) *EventsHandler {
	return &EventsHandler{hub: hub, tickets: tickets}
}

// resolveStreamClientID authenticates the ticket and pins the conversation.
// Staff tickets may watch any conversation via the clientId parameter;
// client tickets are locked to their own.
func resolveStreamClientID(tickets *auth.TicketIssuer, r *http.Request) (string, error) {
	claims, err := tickets.Verify(r.URL.Query().Get("ticket"))
	if err != nil {
		return "", err
	}

	requested := r.URL.Query().Get("clientId")
	switch claims.Role {
	case model.RoleAdmin:
		if requested == "" {
			return "", apperrors.MissingRequired("clientId")
		}
		return requested, nil
	case model.RoleClient:
		if claims.ClientID == "" {
			return "", apperrors.Forbidden("No client record linked to this account")
		}
		if requested != "" && requested != claims.ClientID {
			return "", apperrors.Forbidden("You do not have access to this conversation")
		}
		return claims.ClientID, nil
	default:
		return "", apperrors.Forbidden("Role cannot open chat streams")
	}
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientID, err := resolveStreamClientID(h.tickets, r)
	if err != nil {
		writeError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, apperrors.Internal("Streaming not supported"))
		return
	}

	conn, err := h.hub.Subscribe(clientID)
	if err != nil {
		log.Error().Err(err).Str("clientId", clientID).Msg("failed to open chat stream")
		writeError(w, err)
		return
	}
	defer h.hub.Unsubscribe(conn)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	log.Info().Str("clientId", clientID).Msg("sse connection established")

	if err := h.sendEvent(w, flusher, "connected", []byte(`{}`)); err != nil {
		return
	}

	heartbeat := time.NewTicker(stream.HeartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("clientId", clientID).Msg("sse connection closed by client")
			return

		case <-conn.Done:
			log.Info().Str("clientId", clientID).Msg("sse connection closed by hub")
			return

		case msg := <-conn.Events:
			if err := h.sendEvent(w, flusher, "message", msg.ToEventData()); err != nil {
				log.Debug().Err(err).Str("clientId", clientID).Msg("failed to write sse event")
				return
			}

		case <-heartbeat.C:
			if _, err := fmt.Fprintf(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h *EventsHandler) sendEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data []byte) error {
	if _, err := fmt.Fprintf(w, "event: %s\n", eventType); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
