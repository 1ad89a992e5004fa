package event

// Event schema versioning
const (
	// EventSchemaVersion is the current event schema version
	EventSchemaVersion = "1.0"
)

// Log message constants
const (
	// LogMsgHandlerErrorFormat is the error format for failed handlers
	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
)

// Error messages
const (
	ErrMsgDecodePayload = "failed to decode %s payload: %w"
	ErrMsgNilPayload    = "%s event has no payload"
)
