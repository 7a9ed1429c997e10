/*

This file contains the types describing a battle between two liquidity
positions and the settlement output produced for it.

*/

package types

import (
	"time"

	sdkmath "cosmossdk.io/math"
)

// BattleKind selects which scoring function settles the battle.
type BattleKind string

const (
	BattleKindRange BattleKind = "RANGE" // fraction of time in range, with tightness bonus
	BattleKindFee   BattleKind = "FEE"   // fee yield per unit value per unit time
)

// Side identifies which of the two positions won. Ties resolve to A.
type Side uint8

const (
	SideA Side = 1
	SideB Side = 2
)

func (s Side) String() string {
	if s == SideB {
		return "B"
	}
	return "A"
}

// PositionSnapshot holds the already-collected measurements for one side of a
// battle. USD amounts carry 8 decimals, times are in seconds, tick distance is
// a small integer. The settlement engine never validates magnitudes beyond
// zero guards; bounding them is the collector's job.
type PositionSnapshot struct {
	Player   string     `json:"player"`   // player identity (wallet address)
	Exchange ExchangeID `json:"exchange"` // venue the position lives on

	// Range battle measurements
	InRangeTime  sdkmath.Uint `json:"in_range_time"`
	TotalTime    sdkmath.Uint `json:"total_time"`
	TickDistance sdkmath.Uint `json:"tick_distance"`

	// Fee battle measurements
	FeesUSD    sdkmath.Uint `json:"fees_usd"`
	LPValueUSD sdkmath.Uint `json:"lp_value_usd"`
	Duration   sdkmath.Uint `json:"duration"`
}

// Battle is one settled contest between two positions plus the fee pool the
// winner and resolver split.
type Battle struct {
	ID          uint64           `json:"id"`
	Kind        BattleKind       `json:"kind"`
	PositionA   PositionSnapshot `json:"position_a"`
	PositionB   PositionSnapshot `json:"position_b"`
	FeePoolUSD  sdkmath.Uint     `json:"fee_pool_usd"`
	ResolverBps sdkmath.Uint     `json:"resolver_bps,omitempty"` // zero means: use the configured default
}

// ScoreBreakdown records the raw and cross-exchange normalized score for one
// side, for receipts and API output.
type ScoreBreakdown struct {
	Raw        sdkmath.Uint `json:"raw"`
	Normalized sdkmath.Uint `json:"normalized"`
	Exchange   ExchangeID   `json:"exchange"`
}

// BattleResult is the full settlement outcome for one battle.
type BattleResult struct {
	BattleID uint64     `json:"battle_id"`
	Kind     BattleKind `json:"kind"`

	ScoreA ScoreBreakdown `json:"score_a"`
	ScoreB ScoreBreakdown `json:"score_b"`

	Winner       Side   `json:"winner"`
	WinnerPlayer string `json:"winner_player"`
	LoserPlayer  string `json:"loser_player"`

	WinnerAmountUSD   sdkmath.Uint `json:"winner_amount_usd"`
	ResolverAmountUSD sdkmath.Uint `json:"resolver_amount_usd"`
	ResolverBps       sdkmath.Uint `json:"resolver_bps"`

	WinnerRating sdkmath.Uint `json:"winner_rating"` // rating after the update
	LoserRating  sdkmath.Uint `json:"loser_rating"`

	SettledAt time.Time `json:"settled_at"`
}

// BattleReceipt is the persisted form of a settlement, kept for the dashboard
// and for auditing.
type BattleReceipt struct {
	ReceiptID int64        `json:"receipt_id,omitempty"` // Auto-incremented by DB
	Result    BattleResult `json:"result"`
	SettledAt time.Time    `json:"settled_at"`
}
