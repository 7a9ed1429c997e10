/*

This file contains the fixed numeric constants for battle scoring. All score
math is carried in 1e18 fixed point and all percentages in basis points so
results are bit-exact and replayable; nothing here is tunable at runtime.

*/

package scoring

import (
	sdkmath "cosmossdk.io/math"

	"github.com/dexbattles/arena/internal/types"
)

var (
	// ScoreDecimals is the 1e18 fixed-point scale every score is carried in.
	ScoreDecimals = sdkmath.NewUint(1_000_000_000_000_000_000)

	// MaxBps is 100% expressed in basis points.
	MaxBps = sdkmath.NewUint(10_000)

	// TightRangeThreshold is the tick distance below which a position starts
	// earning a tightness bonus.
	TightRangeThreshold = sdkmath.NewUint(100)

	// TightRangeBonus is the maximum tightness bonus, 20% of 1e18, reached at
	// tick distance zero.
	TightRangeBonus = sdkmath.NewUint(200_000_000_000_000_000)
)

// exchangeWeightBps maps an ExchangeID onto its score weight in basis points.
// 10000 = 1.0x, 11000 = 1.1x, 9000 = 0.9x. Ids outside the table fall back to
// the neutral weight; unknown venues are never penalized or boosted.
var exchangeWeightBps = []sdkmath.Uint{
	types.ExchangeUniswapV4: sdkmath.NewUint(10_000),
	types.ExchangeCamelotV3: sdkmath.NewUint(10_000),
}

// ExchangeWeightBps returns the weight applied to scores from the given
// venue, defaulting to the neutral MaxBps for ids outside the table.
func ExchangeWeightBps(exchange types.ExchangeID) sdkmath.Uint {
	if int(exchange) < len(exchangeWeightBps) {
		return exchangeWeightBps[exchange]
	}
	return MaxBps
}
