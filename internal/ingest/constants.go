package ingest

// Log messages
const (
	LogMsgPipelineStarted  = "Ingest pipeline started"
	LogMsgPipelineStopped  = "Ingest pipeline stopped"
	LogMsgPollFailed       = "Queue poll failed"
	LogMsgPackageSkipped   = "Package skipped, detail unavailable"
	LogMsgKillmailRejected = "Killmail rejected"
	LogMsgAdmitFailed      = "Failed to admit killmail"
	LogMsgDuplicate        = "Duplicate killmail dropped"
	LogMsgLifecycleFailed  = "Failed to apply killmail to aggregates"
	LogMsgKillmailAdmitted = "Killmail admitted"
)
