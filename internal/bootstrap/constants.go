package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for session log files
	LogFilePermission = 0644
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older session logs kept next to the new one
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStarting            = "Starting killwatch"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"

	ErrMsgFailedCreateLogsDir = "failed to create logs directory: %w"
	ErrMsgFailedOpenLogFile   = "failed to open log file: %w"
)

// =============================================================================
// Event Handler Configuration
// =============================================================================

const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgAlertDispatcherRegistered  = "Alert dispatcher registered"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector: %w"
)

// =============================================================================
// Alert Delivery
// =============================================================================

const (
	LogMsgAlertsToDiscord = "Alerts delivered to Discord"
	LogMsgAlertsToLog     = "Discord not configured, alerts will only be logged"
	ErrMsgAlertSender     = "failed to create alert sender: %w"
)

// =============================================================================
// Shutdown
// =============================================================================

const (
	// ShutdownGrace bounds how long the HTTP server waits for in-flight requests
	ShutdownGrace = 10 * time.Second

	LogMsgStoppingScheduler  = "Stopping scheduler..."
	LogMsgDrainingAlertQueue = "Draining alert queue..."
	LogMsgClosingRedis       = "Closing Redis client..."
	LogMsgClosingDatabase    = "Closing database pool..."
	LogMsgShutdownComplete   = "Shutdown complete"
	LogMsgRedisCloseFailed   = "Redis client close failed"
)
