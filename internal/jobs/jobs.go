// Package jobs runs periodic housekeeping on the local store.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Purger is the store surface housekeeping needs.
type Purger interface {
	PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error)
	PurgeCartsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Housekeeping drops expired sessions and carts abandoned for longer than
// cartTTL.
func Housekeeping(store Purger, cartTTL time.Duration, logger *zap.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		now := time.Now()
		sessions, err := store.PurgeExpiredSessions(ctx, now)
		if err != nil {
			logger.Error("purge sessions failed", zap.Int64("purged", sessions), zap.Error(err))
		}
		carts, err := store.PurgeCartsBefore(ctx, now.Add(-cartTTL))
		if err != nil {
			logger.Error("purge carts failed", zap.Int64("purged", carts), zap.Error(err))
		}
		if sessions > 0 || carts > 0 {
			logger.Info("housekeeping", zap.Int64("sessions", sessions), zap.Int64("carts", carts))
		}
	}
}

// Start schedules housekeeping every 15 minutes. Stop the returned
// scheduler on shutdown.
func Start(store Purger, cartTTL time.Duration, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc("@every 15m", Housekeeping(store, cartTTL, logger)); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
