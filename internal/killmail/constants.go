package killmail

// Reject reasons, used as the metrics label
const (
	ReasonMissingBody     = "missing_body"
	ReasonMissingID       = "missing_id"
	ReasonMissingTime     = "missing_time"
	ReasonMissingSystem   = "missing_system"
	ReasonMissingShipType = "missing_ship_type"
	ReasonUnknownRegion   = "unknown_region"
	ReasonInvalid         = "invalid"
	ReasonMalformed       = "malformed"
)

// Log messages
const (
	LogMsgKillmailRejected = "Killmail rejected"
)
