package chat

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/database"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/realtime"
)

// snapshotFilter turns the realtime store's snapshot-on-change delivery
// into incremental delivery. The snapshot at subscribe time seeds the seen
// set without being delivered; every later snapshot delivers only ids the
// filter has never seen, in created_at order.
type snapshotFilter struct {
	clientID string
	fn       func(model.ChatMessage)

	mu     sync.Mutex
	seen   map[string]struct{}
	seeded bool
}

func newSnapshotFilter(clientID string, fn func(model.ChatMessage)) *snapshotFilter {
	return &snapshotFilter{
		clientID: clientID,
		fn:       fn,
		seen:     make(map[string]struct{}),
	}
}

func (f *snapshotFilter) deliver(snapshot realtime.Snapshot) {
	msgs := decodeSnapshot(snapshot, f.clientID)

	f.mu.Lock()
	if !f.seeded {
		for _, msg := range msgs {
			f.seen[msg.ID] = struct{}{}
		}
		f.seeded = true
		f.mu.Unlock()
		return
	}

	fresh := msgs[:0]
	for _, msg := range msgs {
		if _, ok := f.seen[msg.ID]; ok {
			continue
		}
		f.seen[msg.ID] = struct{}{}
		fresh = append(fresh, msg)
	}
	f.mu.Unlock()

	for _, msg := range fresh {
		f.fn(msg)
	}
}

// decodeSnapshot unmarshals a path snapshot into messages sorted ascending
// by created_at. The store returns an unordered keyed map, so sorting here
// is mandatory. Records that fail to decode are dropped with a log line.
func decodeSnapshot(snapshot realtime.Snapshot, clientID string) []model.ChatMessage {
	msgs := make([]model.ChatMessage, 0, len(snapshot))
	for id, raw := range snapshot {
		var msg model.ChatMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Warn().Err(err).Str("id", id).Str("clientId", clientID).
				Msg("dropping undecodable chat record")
			continue
		}
		if msg.ID == "" {
			msg.ID = id
		}
		msgs = append(msgs, msg)
	}
	sortByCreatedAt(msgs)
	return msgs
}

func sortByCreatedAt(msgs []model.ChatMessage) {
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
}

func sortMessages(byID map[string]model.ChatMessage) []model.ChatMessage {
	msgs := make([]model.ChatMessage, 0, len(byID))
	for _, msg := range byID {
		msgs = append(msgs, msg)
	}
	sortByCreatedAt(msgs)
	return msgs
}

// notifyDispatcher fans the single Postgres NOTIFY stream out to the
// relational subscriptions, keyed by client id. Rows arrive in commit
// order and each subscription sees each row once.
type notifyDispatcher struct {
	listener *database.Listener

	mu   sync.Mutex
	subs map[string]map[*notifySub]struct{}
	once sync.Once
	done chan struct{}
}

type notifySub struct {
	clientID string
	fn       func(model.ChatMessage)
	onClosed func(error)
}

func newNotifyDispatcher(listener *database.Listener) *notifyDispatcher {
	return &notifyDispatcher{
		listener: listener,
		subs:     make(map[string]map[*notifySub]struct{}),
		done:     make(chan struct{}),
	}
}

func (d *notifyDispatcher) subscribe(clientID string, fn func(model.ChatMessage), onClosed func(error)) (func(), error) {
	if d.listener == nil {
		return nil, fmt.Errorf("database notify channel not configured")
	}

	d.once.Do(func() { go d.run() })

	sub := &notifySub{clientID: clientID, fn: fn, onClosed: onClosed}

	d.mu.Lock()
	if d.subs[clientID] == nil {
		d.subs[clientID] = make(map[*notifySub]struct{})
	}
	d.subs[clientID][sub] = struct{}{}
	d.mu.Unlock()

	var unsubOnce sync.Once
	return func() {
		unsubOnce.Do(func() {
			d.mu.Lock()
			if set, ok := d.subs[clientID]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(d.subs, clientID)
				}
			}
			d.mu.Unlock()
		})
	}, nil
}

func (d *notifyDispatcher) run() {
	for {
		select {
		case <-d.done:
			return
		case notification, ok := <-d.listener.Notifications():
			if !ok {
				d.failAll(fmt.Errorf("database notify channel closed"))
				return
			}
			if notification == nil {
				// Connection re-established; there may be a gap.
				log.Warn().Msg("database notify channel reconnected")
				continue
			}

			var msg model.ChatMessage
			if err := json.Unmarshal([]byte(notification.Extra), &msg); err != nil {
				log.Error().Err(err).Msg("failed to decode chat notification")
				continue
			}

			d.dispatch(msg)
		}
	}
}

func (d *notifyDispatcher) dispatch(msg model.ChatMessage) {
	d.mu.Lock()
	set := d.subs[msg.ClientID]
	targets := make([]*notifySub, 0, len(set))
	for sub := range set {
		targets = append(targets, sub)
	}
	d.mu.Unlock()

	for _, sub := range targets {
		sub.fn(msg)
	}
}

// failAll ends every active subscription with err. The dispatcher never
// reconnects on its own; subscribers hear onClosed and decide whether to
// subscribe again.
func (d *notifyDispatcher) failAll(err error) {
	d.mu.Lock()
	var targets []*notifySub
	for _, set := range d.subs {
		for sub := range set {
			targets = append(targets, sub)
		}
	}
	d.subs = make(map[string]map[*notifySub]struct{})
	d.mu.Unlock()

	for _, sub := range targets {
		if sub.onClosed != nil {
			sub.onClosed(err)
		}
	}
}

func (d *notifyDispatcher) close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	select {
	case <-d.done:
	default:
		close(d.done)
	}
	d.subs = make(map[string]map[*notifySub]struct{})
}
