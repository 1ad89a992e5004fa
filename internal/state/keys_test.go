package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	day := time.Date(2025, 3, 1, 23, 59, 0, 0, time.FixedZone("UTC-5", -5*3600))

	assert.Equal(t, "kw:dedup:20250302", DedupKey(day), "partitions are UTC days")
	assert.Equal(t, "kw:hotspot:30000142", HotspotKey(30000142))
	assert.Equal(t, "kw:recent:30000142", RecentKey(30000142))
	assert.Equal(t, "kw:claim:battle:42:ended", ClaimKey("battle", 42, "ended"))
}
