package database

import (
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	listenerMinReconnect = 2 * time.Second
	listenerMaxReconnect = 30 * time.Second
)

// ChatNotifyChannel is the NOTIFY channel the message repository fires on
// every insert. Payload is the inserted row as JSON.
const ChatNotifyChannel = "chat_messages"

// Listener wraps pq.Listener for the chat notify channel. Notifications
// arrive in commit order per connection.
type Listener struct {
	pq *pq.Listener
}

func NewListener(databaseURL string) (*Listener, error) {
	l := pq.NewListener(databaseURL, listenerMinReconnect, listenerMaxReconnect,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Int("event", int(ev)).Msg("postgres listener event")
			}
		})

	if err := l.Listen(ChatNotifyChannel); err != nil {
		l.Close()
		return nil, err
	}

	return &Listener{pq: l}, nil
}

// Notifications exposes the raw notification stream. A nil notification
// signals a connection re-establishment; consumers should treat it as a
// gap marker and re-read state.
func (l *Listener) Notifications() <-chan *pq.Notification {
	return l.pq.Notify
}

func (l *Listener) Ping() error {
	return l.pq.Ping()
}

func (l *Listener) Close() error {
	return l.pq.Close()
}
