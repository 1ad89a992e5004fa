package state

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DedupKey is the per-day partition of admitted killmail IDs
func DedupKey(day time.Time) string {
	return fmt.Sprintf(dedupKeyFmt, day.UTC().Format(dedupDayLayout))
}

// HotspotKey is the sliding window of killmail times for a system
func HotspotKey(systemID int64) string {
	return fmt.Sprintf(hotspotKeyFmt, systemID)
}

// RecentKey is the capped list of recent killmail summaries for a system
func RecentKey(systemID int64) string {
	return fmt.Sprintf(recentKeyFmt, systemID)
}

// ClaimKey joins an aggregate kind, its id and the milestone into a claim flag key,
// e.g. ClaimKey("battle", 42, "ended") -> "kw:claim:battle:42:ended"
func ClaimKey(kind string, id int64, milestone string) string {
	var b strings.Builder
	b.WriteString(claimKeyPrefix)
	b.WriteString(kind)
	b.WriteByte(':')
	b.WriteString(strconv.FormatInt(id, 10))
	b.WriteByte(':')
	b.WriteString(milestone)
	return b.String()
}
