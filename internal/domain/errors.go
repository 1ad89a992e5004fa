package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Admission errors
	ErrMsgDuplicate       = "killmail already admitted"
	ErrMsgNoActiveBattle  = "no active battle"
	ErrMsgBattleNotFound  = "battle not found"
	ErrMsgConflictMissing = "conflict not found"

	// Parse errors
	ErrMsgRejected = "killmail rejected"

	// Upstream errors
	ErrMsgDetailUnavailable = "killmail detail unavailable"

	// Alert errors
	ErrMsgClaimLost = "claim already taken"

	// Database/System errors
	ErrMsgConnectionTimeout = "connection timeout"
	ErrMsgDatabaseError     = "database error"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrDuplicate       = errors.New(ErrMsgDuplicate)
	ErrNoActiveBattle  = errors.New(ErrMsgNoActiveBattle)
	ErrBattleNotFound  = errors.New(ErrMsgBattleNotFound)
	ErrConflictMissing = errors.New(ErrMsgConflictMissing)

	ErrRejected = errors.New(ErrMsgRejected)

	ErrDetailUnavailable = errors.New(ErrMsgDetailUnavailable)

	ErrClaimLost = errors.New(ErrMsgClaimLost)
)
