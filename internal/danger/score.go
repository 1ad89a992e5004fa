package danger

import "github.com/osse101/killwatch/internal/domain"

// Assessment is a bucketed danger rating for a system's current fighting
type Assessment struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

// Score sums four sub-scores (security, kill count, kill rate, ISK value)
// and labels the total. Pure.
func Score(security float64, kills int, killsPerMinute, value float64) Assessment {
	total := securityScore(security) + killScore(kills) + rateScore(killsPerMinute) + valueScore(value)
	return Assessment{Score: total, Label: label(total)}
}

// AssessBattle scores a battle in a system of the given security
func AssessBattle(b *domain.Battle, security float64) Assessment {
	return Score(security, b.TotalKills, b.KillsPerMinute(), b.TotalValue)
}

// Higher security scores higher
func securityScore(sec float64) int {
	switch {
	case sec >= 0.5:
		return 2
	case sec > 0:
		return 1
	default:
		return 0
	}
}

func killScore(kills int) int {
	switch {
	case kills >= 10:
		return 3
	case kills >= 5:
		return 2
	case kills >= 2:
		return 1
	default:
		return 0
	}
}

func rateScore(kpm float64) int {
	switch {
	case kpm >= 2:
		return 3
	case kpm >= 1:
		return 2
	case kpm >= 0.5:
		return 1
	default:
		return 0
	}
}

func valueScore(value float64) int {
	switch {
	case value >= 50_000_000:
		return 3
	case value >= 10_000_000:
		return 2
	case value >= 1_000_000:
		return 1
	default:
		return 0
	}
}

func label(score int) string {
	switch {
	case score >= extremeMinScore:
		return LabelExtreme
	case score >= highMinScore:
		return LabelHigh
	case score >= mediumMinScore:
		return LabelMedium
	default:
		return LabelLow
	}
}
