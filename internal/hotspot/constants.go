package hotspot

// Error messages
const (
	ErrMsgRecordFailed = "failed to record killmail for system %d: %w"
)

// Log messages
const (
	LogMsgHotspotDetected = "Hotspot detected"
)
