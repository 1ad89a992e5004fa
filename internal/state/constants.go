package state

import "time"

// Key namespaces
const (
	KeyPrefix      = "kw:"
	dedupKeyFmt    = KeyPrefix + "dedup:%s"
	hotspotKeyFmt  = KeyPrefix + "hotspot:%d"
	recentKeyFmt   = KeyPrefix + "recent:%d"
	claimKeyPrefix = KeyPrefix + "claim:"
	dedupDayLayout = "20060102"
)

// Expiry for each namespace
const (
	DedupTTL  = 48 * time.Hour
	RecentTTL = 6 * time.Hour

	// windowExpirySlack keeps a sliding window key alive a little past its span
	windowExpirySlack = time.Minute
)

// Error messages
const (
	ErrMsgConnectFailed = "failed to connect to redis: %w"
	ErrMsgDedupFailed   = "failed to claim killmail %d: %w"
	ErrMsgReleaseFailed = "failed to release killmail %d: %w"
	ErrMsgWindowFailed  = "failed to record window %s: %w"
	ErrMsgClaimFailed   = "failed to set claim %s: %w"
	ErrMsgPushFailed    = "failed to push recent killmail for system %d: %w"
	ErrMsgRecentFailed  = "failed to read recent killmails for system %d: %w"
	ErrMsgEncodeFailed  = "failed to encode summary: %w"
)

// Log messages
const (
	LogMsgConnected        = "Successfully connected to redis"
	LogMsgSkippedBadRecent = "Skipping undecodable recent killmail"
)
