package danger

import (
	"context"
	"fmt"
	"sort"

	"github.com/osse101/killwatch/internal/state"
	"github.com/osse101/killwatch/internal/universe"
)

// Pattern is the gatecamp verdict for a system
type Pattern struct {
	Detected   bool     `json:"detected"`
	Confidence int      `json:"confidence"`
	Evidence   []string `json:"evidence,omitempty"`
}

// Detector looks for gatecamp signatures in a system's recent killmails
type Detector struct {
	store   state.Store
	catalog universe.Catalog
}

// NewDetector creates a pattern detector
func NewDetector(store state.Store, catalog universe.Catalog) *Detector {
	return &Detector{store: store, catalog: catalog}
}

// DetectPattern inspects the last PatternSampleSize killmails in the system.
// Fewer than PatternMinSamples is never a pattern.
func (d *Detector) DetectPattern(ctx context.Context, systemID int64) (Pattern, error) {
	recent, err := d.store.Recent(ctx, systemID, PatternSampleSize)
	if err != nil {
		return Pattern{}, fmt.Errorf(ErrMsgRecentFailed, systemID, err)
	}
	if len(recent) < PatternMinSamples {
		return Pattern{}, nil
	}

	var evidence []string
	signals := 0

	attackers := 0
	interdicted := false
	victims := make(map[int64]struct{})
	for _, s := range recent {
		attackers += s.AttackerCount
		if s.VictimAllianceID != 0 {
			victims[s.VictimAllianceID] = struct{}{}
		}
		for _, ship := range s.AttackerShipTypes {
			if d.catalog.IsInterdictor(ship) {
				interdicted = true
			}
		}
	}

	if avg := float64(attackers) / float64(len(recent)); avg >= gangSizeThreshold {
		signals++
		evidence = append(evidence, fmt.Sprintf(EvidenceLargeGangs, avg))
	}
	if interdicted {
		signals++
		evidence = append(evidence, EvidenceInterdictors)
	}

	times := make([]int64, len(recent))
	for i, s := range recent {
		times[i] = s.Time.UnixNano()
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	rapid := 0
	for i := 1; i < len(times); i++ {
		if times[i]-times[i-1] <= int64(rapidInterval) {
			rapid++
		}
	}
	if intervals := len(times) - 1; float64(rapid) >= rapidIntervalFraction*float64(intervals) {
		signals++
		evidence = append(evidence, fmt.Sprintf(EvidenceRapidKills, rapid, intervals, rapidInterval))
	}

	if len(victims) >= distinctVictimsNeeded {
		signals++
		evidence = append(evidence, fmt.Sprintf(EvidenceManyVictims, len(victims)))
	}

	confidence := signals * confidencePerSignal
	return Pattern{
		Detected:   confidence >= PatternMinConfidence,
		Confidence: confidence,
		Evidence:   evidence,
	}, nil
}
