package domain

import "fmt"

// Direction is the side of a tip's directional call.
type Direction string

// Direction constants
const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// Timeframe is the trade horizon a tip was issued for.
type Timeframe string

// Timeframe constants
const (
	TimeframeIntraday   Timeframe = "INTRADAY"
	TimeframeSwing      Timeframe = "SWING"
	TimeframePositional Timeframe = "POSITIONAL"
	TimeframeLongTerm   Timeframe = "LONG_TERM"
)

// Timeframes lists all trade horizons in display order.
var Timeframes = []Timeframe{
	TimeframeIntraday,
	TimeframeSwing,
	TimeframePositional,
	TimeframeLongTerm,
}

// TipStatus is the terminal outcome of a completed tip.
type TipStatus string

// Terminal status constants
const (
	StatusTarget1Hit    TipStatus = "TARGET_1_HIT"
	StatusTarget2Hit    TipStatus = "TARGET_2_HIT"
	StatusTarget3Hit    TipStatus = "TARGET_3_HIT"
	StatusAllTargetsHit TipStatus = "ALL_TARGETS_HIT"
	StatusStoplossHit   TipStatus = "STOPLOSS_HIT"
	StatusExpired       TipStatus = "EXPIRED"
)

// IsTerminal reports whether the status is a resolved outcome.
// The scoring engine only accepts terminal tips.
func (s TipStatus) IsTerminal() bool {
	switch s {
	case StatusTarget1Hit, StatusTarget2Hit, StatusTarget3Hit, StatusAllTargetsHit,
		StatusStoplossHit, StatusExpired:
		return true
	default:
		return false
	}
}

// IsHit reports whether the status counts as a hit for accuracy purposes.
// Every target-hit variant is a hit; stop-loss and expiry are misses.
func (s TipStatus) IsHit() bool {
	switch s {
	case StatusTarget1Hit, StatusTarget2Hit, StatusTarget3Hit, StatusAllTargetsHit:
		return true
	case StatusStoplossHit, StatusExpired:
		return false
	default:
		return false
	}
}

// CompletedTip represents a resolved directional call.
// Corresponds to the completed_tips table. The scoring engine treats it as
// immutable input and never mutates it.
type CompletedTip struct {
	TipID     string // deterministic hash
	CreatorID string // issuing creator

	// Call parameters
	Direction  Direction
	EntryPrice float64
	Target1    float64
	Target2    *float64 // nullable; not every tip carries three targets
	Target3    *float64 // nullable
	StopLoss   float64
	Timeframe  Timeframe

	// Resolution
	Status       TipStatus // terminal outcome
	TipTimestamp int64     // when the call was made (unix ms)
	ClosedAt     int64     // when the outcome resolved (unix ms, >= TipTimestamp)
	ClosedPrice  *float64  // price at resolution (nullable for some expiries)

	// Realized metrics, signed by direction
	ReturnPct       *float64 // nullable until closed
	RiskRewardRatio *float64 // nullable
}

// Validate checks the structural invariants a scoreable tip must hold.
func (t *CompletedTip) Validate() error {
	if t.TipID == "" || t.CreatorID == "" {
		return fmt.Errorf("tip missing identity: tip_id=%q creator_id=%q", t.TipID, t.CreatorID)
	}
	if !t.Status.IsTerminal() {
		return fmt.Errorf("tip %s has non-terminal status %q", t.TipID, t.Status)
	}
	if t.EntryPrice <= 0 || t.Target1 <= 0 || t.StopLoss <= 0 {
		return fmt.Errorf("tip %s has non-positive price levels", t.TipID)
	}
	if t.ClosedAt < t.TipTimestamp {
		return fmt.Errorf("tip %s closed_at %d precedes tip_timestamp %d", t.TipID, t.ClosedAt, t.TipTimestamp)
	}
	return nil
}
