package scoring

import (
	"context"
	"time"

	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/pkg/logger"
)

// DefaultRetentionWindow is how long completed/failed jobs are kept
// before the sweep deletes them (§4.7 retention).
const DefaultRetentionWindow = 7 * 24 * time.Hour

// DefaultSweepInterval is how often the retention sweep runs.
const DefaultSweepInterval = time.Hour

// RunRetentionSweep deletes completed/failed scoring jobs older than
// window on a fixed interval until done is closed.
func RunRetentionSweep(ctx context.Context, jobs domain.ScoringJobRepository, window time.Duration, done <-chan struct{}) {
	if window <= 0 {
		window = DefaultRetentionWindow
	}
	ticker := time.NewTicker(DefaultSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-window)
			n, err := jobs.DeleteOlderThan(ctx, cutoff)
			if err != nil {
				logger.Log.Error("scoring job retention sweep failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Log.Info("scoring job retention sweep removed rows", "count", n)
			}
		case <-done:
			return
		}
	}
}
