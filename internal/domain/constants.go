package domain

// Pool phases. The governor moves a pool between these three regimes based
// on its balance, unless an operator has pinned the phase manually.
const (
	PhaseRetention PoolPhase = "retention"
	PhaseNormal    PoolPhase = "normal"
	PhaseRelease   PoolPhase = "release"
)

// Ledger entry kinds
const (
	EntryKindBet            LedgerEntryKind = "bet"
	EntryKindPayout         LedgerEntryKind = "payout"
	EntryKindManualDeposit  LedgerEntryKind = "manual_deposit"
	EntryKindManualWithdraw LedgerEntryKind = "manual_withdraw"
)

// Win classification thresholds, as multiples of the bet
const (
	BigWinBetMultiple  = 10
	MegaWinBetMultiple = 25
)

// NoMultiplierCap disables the payout ceiling when passed to the outcome
// selector. The pool governor always supplies a concrete cap.
const NoMultiplierCap int64 = -1

// Degradation tier labels (metrics and logging)
const (
	DegradationNone     = "none"
	DegradationDrained  = "drained"
	DegradationCritical = "critical"
	DegradationReduced  = "reduced"
)
