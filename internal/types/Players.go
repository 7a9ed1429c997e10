/*

This file contains the per-player leaderboard record.

*/

package types

import (
	"time"

	sdkmath "cosmossdk.io/math"
)

// PlayerStats is the stored leaderboard record for one player. A player that
// has never fought reads back with the default rating and zeroed counters.
type PlayerStats struct {
	Address          string       `json:"address"`
	Rating           sdkmath.Uint `json:"rating"`
	Wins             uint64       `json:"wins"`
	Losses           uint64       `json:"losses"`
	TotalBattles     uint64       `json:"total_battles"`
	TotalValueWonUSD sdkmath.Uint `json:"total_value_won_usd"` // 8 decimals
	UpdatedAt        time.Time    `json:"updated_at,omitempty"`
}
