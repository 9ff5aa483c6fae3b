// Package syncer runs sync providers and records their outcome with a
// syncstate.Tracker.
package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/taskshelf/internal/syncstate"
)

// Provider synchronizes local tasks with a remote.
type Provider interface {
	Identifier() string
	Synchronize(ctx context.Context) error
}

// Runner executes a provider and keeps its tracker up to date. Runs are
// serialized.
type Runner struct {
	mu       sync.Mutex
	provider Provider
	tracker  *syncstate.Tracker
	log      zerolog.Logger
}

func NewRunner(provider Provider, tracker *syncstate.Tracker, log zerolog.Logger) *Runner {
	return &Runner{
		provider: provider,
		tracker:  tracker,
		log:      log.With().Str("provider", provider.Identifier()).Logger(),
	}
}

// Run performs one sync. The tracker records the start, then either the
// success time or the error and its type; the ongoing flag is always cleared.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tracker.IsOngoing() {
		r.log.Warn().Msg("previous sync did not finish")
	}
	if err := r.tracker.RecordSyncStart(); err != nil {
		return err
	}

	start := time.Now()
	syncErr := r.provider.Synchronize(ctx)
	if syncErr != nil {
		r.log.Error().Err(syncErr).Str("type", ErrorType(syncErr)).Msg("sync failed")
		return errors.Join(syncErr,
			r.tracker.SetLastError(syncErr.Error(), ErrorType(syncErr)),
			r.tracker.StopOngoing())
	}

	r.log.Debug().Dur("elapsed", time.Since(start)).Msg("sync succeeded")
	return errors.Join(r.tracker.RecordSuccessfulSync(), r.tracker.StopOngoing())
}

// Loop runs a sync immediately and then once per tracker sync interval until
// ctx is done. Failed runs are logged and retried on the next tick. Returns
// ErrNoInterval when no interval is configured, otherwise ctx.Err().
func (r *Runner) Loop(ctx context.Context) error {
	interval := r.tracker.SyncInterval()
	if interval <= 0 {
		return ErrNoInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := r.Run(ctx); err != nil && ctx.Err() == nil {
			r.log.Warn().Err(err).Dur("retry_in", interval).Msg("sync will retry")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
