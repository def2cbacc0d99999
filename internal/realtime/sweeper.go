package realtime

import (
	"context"
	"log"
	"time"

	"github.com/adhocore/gronx"

	"github.com/teamgrid/collab-service/internal/repository"
)

// Sweeper purges read notifications older than the retention window on a
// cron schedule. Pure maintenance: failures are logged and retried on the
// next scheduled run.
type Sweeper struct {
	notifications repository.NotificationRepository
	schedule      string
	window        time.Duration
	gron          *gronx.Gronx
}

func NewSweeper(notifications repository.NotificationRepository, schedule string, window time.Duration) *Sweeper {
	return &Sweeper{
		notifications: notifications,
		schedule:      schedule,
		window:        window,
		gron:          gronx.New(),
	}
}

// Run checks the cron expression once a minute and sweeps when it is due.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			due, err := s.gron.IsDue(s.schedule, now)
			if err != nil {
				log.Printf("[SWEEPER] Invalid schedule %q: %v", s.schedule, err)
				return
			}
			if !due {
				continue
			}
			if err := s.Sweep(ctx); err != nil {
				log.Printf("[SWEEPER] Sweep failed, will retry next run: %v", err)
			}
		}
	}
}

// Sweep deletes every read notification created before the retention cutoff.
// Unread notifications are never touched regardless of age.
func (s *Sweeper) Sweep(ctx context.Context) error {
	cutoff := time.Now().Add(-s.window)
	purged, err := s.notifications.DeleteReadOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if purged > 0 {
		log.Printf("[SWEEPER] Purged %d read notifications older than %s", purged, s.window)
	}
	return nil
}
