/*

This file contains the pure scoring functions for battles between liquidity
positions. Every function here is total on its domain: degenerate inputs
(zero durations, zero value, out-of-table venue ids) produce sentinel results
instead of errors, and no function touches shared state, so all of them are
safe to call concurrently.

The math is integer-only on sdkmath.Uint. Ratios are always carried as
numerator * 1e18 / denominator with truncating division, multiply before
divide, so two runs on any platform produce identical bits. Callers are
expected to supply sane magnitudes (USD with 8 decimals, durations in
seconds, tick distances as small integers); that bound is a documented
precondition, not a runtime check.

*/

package scoring

import (
	sdkmath "cosmossdk.io/math"

	"github.com/dexbattles/arena/internal/types"
)

// RangeScore scores a position by the fraction of time it spent in range,
// scaled to 1e18, with a tightness bonus for narrow ranges.
//
// Base score is inRangeTime * 1e18 / totalTime. Positions with a tick
// distance under TightRangeThreshold earn a bonus fraction that interpolates
// linearly from zero at the threshold up to TightRangeBonus at distance zero;
// the bonus multiplies the base score rather than adding to a flat 100%, so
// a position that was never in range scores zero no matter how tight it was.
//
// A zero totalTime means "no data" and scores zero.
func RangeScore(inRangeTime, totalTime, tickDistance sdkmath.Uint) sdkmath.Uint {
	if totalTime.IsZero() {
		return sdkmath.ZeroUint()
	}

	baseScore := inRangeTime.Mul(ScoreDecimals).Quo(totalTime)

	bonus := sdkmath.ZeroUint()
	if tickDistance.LT(TightRangeThreshold) {
		bonus = TightRangeBonus.Mul(TightRangeThreshold.Sub(tickDistance)).Quo(TightRangeThreshold)
	}

	return baseScore.Add(baseScore.Mul(bonus).Quo(ScoreDecimals))
}

// FeeScore scores a position by fee yield per unit value per unit time:
// feesUSD * 1e18 / (lpValueUSD * duration). Larger positions or longer
// durations earning the same fees score strictly lower. Zero value or zero
// duration means "no data" and scores zero.
func FeeScore(feesUSD, lpValueUSD, duration sdkmath.Uint) sdkmath.Uint {
	if lpValueUSD.IsZero() || duration.IsZero() {
		return sdkmath.ZeroUint()
	}
	return feesUSD.Mul(ScoreDecimals).Quo(lpValueUSD.Mul(duration))
}

// Winner picks between two scores. Ties resolve to A; this is the documented
// tie-break, and it covers the both-zero case as well.
func Winner(scoreA, scoreB sdkmath.Uint) types.Side {
	if scoreA.GTE(scoreB) {
		return types.SideA
	}
	return types.SideB
}

// SplitRewards splits a fee pool into winner and resolver shares by basis
// points. A resolverBps at or above 100% is a valid edge input, not an error:
// the split saturates and the whole pool goes to the resolver. In every case
// the two shares sum exactly to the pool.
func SplitRewards(total, resolverBps sdkmath.Uint) (winnerAmount, resolverAmount sdkmath.Uint) {
	if resolverBps.GTE(MaxBps) {
		return sdkmath.ZeroUint(), total
	}
	resolverAmount = total.Mul(resolverBps).Quo(MaxBps)
	winnerAmount = total.Sub(resolverAmount)
	return winnerAmount, resolverAmount
}

// Normalize rescales a raw score by the weight of the venue it was earned on,
// correcting for systematic differences between exchanges. Unknown venue ids
// get the neutral weight and pass through unchanged.
func Normalize(rawScore sdkmath.Uint, exchange types.ExchangeID) sdkmath.Uint {
	return rawScore.Mul(ExchangeWeightBps(exchange)).Quo(MaxBps)
}
