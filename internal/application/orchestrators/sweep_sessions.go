package orchestrators

import (
	"context"
	"log/slog"
	"time"
)

// SessionPurger deletes session values older than a cutoff.
type SessionPurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// VisitorSweeper forgets idle rate limiter entries.
type VisitorSweeper interface {
	Sweep(idle time.Duration) int
}

// SweepSessionsDeps holds dependencies for the session sweep.
type SweepSessionsDeps struct {
	Sessions SessionPurger
	Visitors VisitorSweeper
	TTL      time.Duration
	Now      func() time.Time
}

// ExecuteSweepSessions removes stored session values idle for longer than
// TTL and forgets rate limiter visitors idle for as long.
// PRE: deps.TTL > 0
// POST: Returns the purge error, if any; visitors are swept regardless
func ExecuteSweepSessions(ctx context.Context, deps SweepSessionsDeps) error {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	var visitors int
	if deps.Visitors != nil {
		visitors = deps.Visitors.Sweep(deps.TTL)
	}
	purged, err := deps.Sessions.PurgeOlderThan(ctx, now().Add(-deps.TTL))
	if err != nil {
		return err
	}
	if purged > 0 || visitors > 0 {
		slog.Info("session_event", "event", "swept", "values", purged, "visitors", visitors)
	}
	return nil
}

// StartBackgroundWorker runs task every interval until stopCh is closed.
// PRE: interval > 0
// POST: Worker runs until stopCh is closed; task errors are logged
func StartBackgroundWorker(name string, interval time.Duration, stopCh <-chan struct{}, task func(context.Context) error) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				if err := task(ctx); err != nil {
					slog.Error("background_task_failed", "task", name, "error", err.Error())
				}
				cancel()
			case <-stopCh:
				slog.Info("background_worker_stopped", "task", name)
				return
			}
		}
	}()
}
