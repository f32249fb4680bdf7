// Package health tracks availability of the secondary realtime backend.
package health

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Health is the shared availability flag for the realtime backend. It is
// advisory: reads and writes race freely and last writer wins. Operations
// downgrade it on the first observed failure; only a probe upgrades it.
type Health struct {
	available atomic.Bool
}

func New() *Health {
	return &Health{}
}

func (h *Health) Available() bool {
	return h.available.Load()
}

// MarkDown records an observed failure. The downgrade persists until the
// next successful probe.
func (h *Health) MarkDown() {
	if h.available.Swap(false) {
		log.Warn().Msg("realtime backend marked unavailable")
	}
}

func (h *Health) MarkUp() {
	if !h.available.Swap(true) {
		log.Info().Msg("realtime backend marked available")
	}
}
