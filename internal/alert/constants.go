package alert

import "time"

// Alert kinds, used as claim namespaces and metric labels
const (
	KindNewBattle         = "new_battle"
	KindMilestone         = "milestone"
	KindBattleEnded       = "battle_ended"
	KindCatastrophic      = "catastrophic"
	KindConflictMilestone = "conflict_milestone"
)

// Redis claim flags outlive any redelivery of the event that raised them
const ClaimTTL = 24 * time.Hour

// Embed colours
const (
	colorNewBattle    = 0xE67E22
	colorMilestone    = 0xE74C3C
	colorEnded        = 0x95A5A6
	colorCatastrophic = 0x8E44AD
	colorConflict     = 0x3498DB
)

// Circuit breaker settings for the chat session
const (
	breakerName             = "discord"
	breakerMaxHalfOpen      = 1
	breakerInterval         = time.Minute
	breakerOpenTimeout      = 30 * time.Second
	breakerConsecutiveTrips = 5
)

// Message text
const (
	titleNewBattle       = "Battle in %s"
	titleMilestone       = "%s: %d kills"
	titleEnded           = "Battle over in %s"
	titleCatastrophic    = "%s destroyed in %s"
	titleConflict        = "Conflict %d vs %d: %d kills"
	fieldKills           = "Kills"
	fieldValue           = "ISK destroyed"
	fieldHeavy           = "Capitals lost"
	fieldDanger          = "Danger"
	fieldPattern         = "Gatecamp"
	fieldDuration        = "Duration"
	fieldRegion          = "Region"
	fieldParticipants    = "Top alliances"
	fieldVictimAlliance  = "Victim alliance"
	fieldAttackers       = "Attackers"
	fieldSplit           = "Kills (A / B)"
	killURLFormat        = "https://zkillboard.com/kill/%d/"
	footerText           = "killwatch"
	dangerFormat         = "%s (%d)"
	patternFormat        = "%d%% confidence: %s"
	participantFormat    = "%d: %d kills / %d losses\n"
	maxParticipantsShown = 5
)

// Error messages
const (
	ErrMsgSessionFailed = "failed to create discord session: %w"
	ErrMsgSendFailed    = "failed to send alert: %w"
	ErrMsgEditFailed    = "failed to edit alert %s: %w"
	ErrMsgClaimFailed   = "failed to claim %s alert: %w"
	ErrMsgEnqueueFailed = "failed to enqueue %s alert: %w"
)

// Log messages
const (
	LogMsgAlertSent         = "Alert sent"
	LogMsgAlertSkipped      = "Alert already claimed"
	LogMsgAlertFailed       = "Alert delivery failed"
	LogMsgStoreHandleFailed = "Failed to store alert message handle"
	LogMsgPatternFailed     = "Failed to detect pattern"
	LogMsgBreakerState      = "Circuit breaker state change"
	LogMsgAlertsDisabled    = "Discord not configured, alerts are logged only"
	LogMsgAlertLogged       = "Alert"
	LogMsgUnexpectedPayload = "Unexpected alert payload"
	LogMsgAlertDropped      = "Alert queue full, alert dropped"
)
