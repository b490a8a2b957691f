package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/store"
)

// Reaper periodically evicts participants whose lastStatus is older than the
// inactivity threshold, broadcasting a leave status event for each one.
//
// Interval and threshold are deliberately independent knobs: with the
// defaults (15s interval, 10s threshold) a participant can be inactive for up
// to ~25s before removal.
type Reaper struct {
	store     store.Store
	log       *zerolog.Logger
	interval  time.Duration
	threshold time.Duration
}

// NewReaper creates the inactivity reaper.
func NewReaper(st store.Store, logger *zerolog.Logger, interval, threshold time.Duration) *Reaper {
	return &Reaper{
		store:     st,
		log:       logger,
		interval:  interval,
		threshold: threshold,
	}
}

// Run sweeps on a fixed ticker until the context is cancelled. Sweep failures
// are logged and never stop the ticker.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info().
		Dur("interval", r.interval).
		Dur("threshold", r.threshold).
		Msg("reaper started")

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("reaper stopped")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep runs a single eviction cycle. Each stale participant is processed
// independently; a failure on one does not abort the others.
func (r *Reaper) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-r.threshold)

	stale, err := r.store.ListInactiveSince(ctx, cutoff)
	if err != nil {
		r.log.Error().Err(err).Msg("reaper: list inactive participants")
		return
	}

	for _, p := range stale {
		left := &store.Message{
			From: p.Name,
			To:   store.BroadcastTarget,
			Text: store.LeftText,
			Type: store.TypeStatus,
			Time: time.Now(),
		}

		evicted, err := r.store.EvictParticipant(ctx, p.Name, cutoff, left)
		if err != nil {
			r.log.Error().Err(err).Str("participant", p.Name).Msg("reaper: evict participant")
			continue
		}
		if !evicted {
			// A heartbeat landed after our read; the participant stays.
			r.log.Debug().Str("participant", p.Name).Msg("reaper: eviction cancelled by heartbeat")
			continue
		}

		r.log.Info().Str("participant", p.Name).Msg("participant evicted for inactivity")
	}
}
