package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/health"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/realtime"
)

// ProbeJob periodically re-probes the realtime backend while it is marked
// unavailable. Operations only ever downgrade the flag; this job is the
// single path back up.
type ProbeJob struct {
	store    realtime.Store
	health   *health.Health
	interval time.Duration
	timeout  time.Duration
	done     chan struct{}
}

func NewProbeJob(store realtime.Store, h *health.Health, interval, timeout time.Duration) *ProbeJob {
	return &ProbeJob{
		store:    store,
		health:   h,
		interval: interval,
		timeout:  timeout,
		done:     make(chan struct{}),
	}
}

func (j *ProbeJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("realtime probe job started")
}

func (j *ProbeJob) Stop() {
	close(j.done)
	log.Info().Msg("realtime probe job stopped")
}

func (j *ProbeJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			if j.health.Available() {
				continue
			}
			health.Probe(context.Background(), j.store, j.health, j.timeout)
		}
	}
}
