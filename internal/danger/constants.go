package danger

import "time"

// Danger labels
const (
	LabelLow     = "low"
	LabelMedium  = "medium"
	LabelHigh    = "high"
	LabelExtreme = "extreme"
)

// Label thresholds on the summed score
const (
	extremeMinScore = 10
	highMinScore    = 7
	mediumMinScore  = 4
)

// Pattern detection parameters
const (
	PatternSampleSize     = 20
	PatternMinSamples     = 3
	PatternMinConfidence  = 50
	confidencePerSignal   = 25
	gangSizeThreshold     = 5.0
	rapidInterval         = 3 * time.Minute
	rapidIntervalFraction = 0.5
	distinctVictimsNeeded = 3
)

// Evidence strings
const (
	EvidenceLargeGangs   = "average gang of %.1f attackers"
	EvidenceInterdictors = "interdictors on killmails"
	EvidenceRapidKills   = "%d of %d gaps between kills under %s"
	EvidenceManyVictims  = "victims from %d alliances"
)

// Error messages
const (
	ErrMsgRecentFailed = "failed to load recent killmails for system %d: %w"
)
