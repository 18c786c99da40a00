package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Game / outcome table errors
	ErrMsgGameNotFound      = "game not found"
	ErrMsgEmptyOutcomeTable = "outcome table has no entries"
	ErrMsgInvalidTable      = "invalid outcome table"

	// Spin input errors
	ErrMsgInvalidBet       = "bet must be positive"
	ErrMsgInvalidWinChance = "win chance must be between 0 and 100"

	// Pool errors
	ErrMsgPoolNotFound      = "liquidity pool not found"
	ErrMsgInvalidAmount     = "amount must be positive"
	ErrMsgInsufficientPool  = "insufficient pool balance"
	ErrMsgInvalidPhase      = "invalid pool phase"
	ErrMsgRoundNotFound     = "round not found"
	ErrMsgInvalidAuditSeed  = "invalid audit seed"

	// Database/System errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors.
// Wrap these with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrGameNotFound      = errors.New(ErrMsgGameNotFound)
	ErrEmptyOutcomeTable = errors.New(ErrMsgEmptyOutcomeTable)
	ErrInvalidTable      = errors.New(ErrMsgInvalidTable)

	ErrInvalidBet       = errors.New(ErrMsgInvalidBet)
	ErrInvalidWinChance = errors.New(ErrMsgInvalidWinChance)

	ErrPoolNotFound     = errors.New(ErrMsgPoolNotFound)
	ErrInvalidAmount    = errors.New(ErrMsgInvalidAmount)
	ErrInsufficientPool = errors.New(ErrMsgInsufficientPool)
	ErrInvalidPhase     = errors.New(ErrMsgInvalidPhase)
	ErrRoundNotFound    = errors.New(ErrMsgRoundNotFound)
	ErrInvalidAuditSeed = errors.New(ErrMsgInvalidAuditSeed)
)
