package hotspot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/logger"
	"github.com/osse101/killwatch/internal/state"
)

// Signal is the outcome of recording one killmail in a system's window
type Signal struct {
	Count     int
	IsHotspot bool
	// Crossed is set only on the killmail that brought the count to the threshold
	Crossed bool
}

// Detector counts killmails per system over a sliding window keyed on
// killmail time.
type Detector struct {
	store     state.Store
	window    time.Duration
	threshold int
}

// NewDetector creates a detector. Non-positive values fall back to the defaults.
func NewDetector(store state.Store, window time.Duration, threshold int) *Detector {
	if window <= 0 {
		window = domain.HotspotWindow
	}
	if threshold <= 0 {
		threshold = domain.HotspotThreshold
	}
	return &Detector{store: store, window: window, threshold: threshold}
}

// Record adds killmail killmailID at time at and reports whether the window
// ending at that killmail holds enough kills. Recording the same killmail
// again does not add to the count.
func (d *Detector) Record(ctx context.Context, systemID, killmailID int64, at time.Time) (Signal, error) {
	count, err := d.store.RecordWindow(ctx, state.HotspotKey(systemID), strconv.FormatInt(killmailID, 10), at, d.window)
	if err != nil {
		return Signal{}, fmt.Errorf(ErrMsgRecordFailed, systemID, err)
	}

	sig := Signal{
		Count:     int(count),
		IsHotspot: int(count) >= d.threshold,
		Crossed:   int(count) == d.threshold,
	}
	if sig.Crossed {
		logger.FromContext(ctx).Debug(LogMsgHotspotDetected, "system_id", systemID, "count", sig.Count)
	}
	return sig, nil
}

// Window is the span killmails are counted over
func (d *Detector) Window() time.Duration {
	return d.window
}
