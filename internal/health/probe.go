package health

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/realtime"
)

// Probe reads the connected sentinel on the realtime store and updates the
// flag with the outcome. Exactly one outcome settles the probe: success,
// backend error, or the timeout bound. It never blocks the caller past the
// bound, and the pending read is cancelled on the way out.
func Probe(ctx context.Context, store realtime.Store, h *Health, timeout time.Duration) bool {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := store.Read(probeCtx, realtime.ConnectedPath)
		done <- err
	}()

	var ok bool
	select {
	case err := <-done:
		ok = err == nil
		if err != nil {
			log.Warn().Err(err).Msg("realtime probe failed")
		}
	case <-probeCtx.Done():
		log.Warn().Dur("timeout", timeout).Msg("realtime probe timed out")
	}

	if ok {
		h.MarkUp()
	} else {
		h.MarkDown()
	}
	return ok
}
