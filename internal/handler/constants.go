package handler

// Health status values
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

const (
	MsgDependencyUnavailable = "dependency unreachable"
)

// Log messages
const (
	LogMsgReadinessFailed = "Readiness check failed"
	LogMsgEncodeFailed    = "Failed to encode JSON response"
	LogMsgWriteFailed     = "Failed to write response buffer"
)
