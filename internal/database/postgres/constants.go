package postgres

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction: %w"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction: %w"
)

// Error Messages - Killmail Operations
const (
	ErrMsgFailedToInsertKillmail    = "failed to insert killmail %d: %w"
	ErrMsgFailedToInsertItems       = "failed to insert items for killmail %d: %w"
	ErrMsgFailedToInsertAttackers   = "failed to insert attackers for killmail %d: %w"
	ErrMsgFailedToLinkBattle        = "failed to link killmail %d to battle %d: %w"
	ErrMsgFailedToUpsertParticipant = "failed to upsert participants for battle %d: %w"
)

// Error Messages - Battle Operations
const (
	ErrMsgFailedToResolveBattle   = "failed to resolve active battle in system %d: %w"
	ErrMsgFailedToCreateBattle    = "failed to create battle in system %d: %w"
	ErrMsgFailedToLockBattle      = "failed to lock battle %d: %w"
	ErrMsgFailedToRecomputeBattle = "failed to recompute battle %d: %w"
	ErrMsgFailedToEndBattles      = "failed to end idle battles: %w"
	ErrMsgFailedToScanBattle      = "failed to scan battle: %w"
	ErrMsgFailedToGetBattle       = "failed to get battle %d: %w"
	ErrMsgFailedToGetParticipants = "failed to get participants for battle %d: %w"
	ErrMsgFailedToClaimMilestone  = "failed to claim milestone %d for battle %d: %w"
	ErrMsgFailedToSetMessage      = "failed to set message for battle %d: %w"
)

// Error Messages - Conflict Operations
const (
	ErrMsgFailedToUpsertConflict  = "failed to upsert conflict %d/%d: %w"
	ErrMsgFailedToUpsertDailyStat = "failed to upsert daily stat for conflict %d: %w"
	ErrMsgFailedToAgeConflicts    = "failed to age conflicts to %s: %w"
)

// Log Messages
const (
	LogMsgFailedToRollback  = "Failed to rollback transaction"
	LogMsgBattleCreateRaced = "Active battle created concurrently, reusing it"
)
