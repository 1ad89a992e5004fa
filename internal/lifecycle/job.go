package lifecycle

import (
	"context"
	"time"

	"github.com/osse101/killwatch/internal/logger"
)

// SweepJob runs one sweep per Process call. It is scheduled on the worker pool.
type SweepJob struct {
	manager Manager
	now     func() time.Time
}

// NewSweepJob creates a sweep job
func NewSweepJob(manager Manager) *SweepJob {
	return &SweepJob{manager: manager, now: time.Now}
}

// Process executes the sweep
func (j *SweepJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	start := time.Now()
	res, err := j.manager.Sweep(ctx, j.now())
	if err != nil {
		log.Error(LogMsgSweepFailed, "error", err, "duration", time.Since(start))
		return err
	}

	log.Debug(LogMsgSweepFinished, "battles_ended", len(res.BattlesEnded),
		"conflicts_dormant", res.ConflictsDormant, "conflicts_ended", res.ConflictsEnded,
		"duration", time.Since(start))
	return nil
}
