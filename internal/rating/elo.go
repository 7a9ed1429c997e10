/*

This file contains the integer ELO rating update used by the leaderboard.

The target environment has no floating point and no fractional
exponentiation, so the standard logistic expected-score curve
1/(1+10^(-diff/400)) is replaced by a clamped piecewise-linear surrogate on a
0..1000 integer scale: 500 at equal ratings, sloping by diff*1000/1600 and
clamped at the ends. The surrogate is deliberate and load-bearing; existing
rating histories depend on its exact break points, so it must not be
"improved" toward the true logistic curve.

*/

package rating

import (
	sdkmath "cosmossdk.io/math"
)

var (
	// DefaultRating is the rating a player starts with the first time they
	// are seen.
	DefaultRating = sdkmath.NewUint(1000)

	// MinRating is the floor a loser's rating can never drop below.
	MinRating = sdkmath.NewUint(100)

	// kFactor bounds how much a single battle can move a rating.
	kFactor = sdkmath.NewUint(32)

	// scale is the integer denominator the expected score is carried in
	// (1000 = certainty).
	scale     = sdkmath.NewUint(1000)
	halfScale = sdkmath.NewUint(500)

	// spread4 is four times the classic 400-point ELO spread, widening the
	// linear band so the surrogate only clamps at extreme gaps.
	spread4 = sdkmath.NewUint(1600)
)

// Update computes both players' new ratings after the winner beat the loser.
//
// The winner's expected score is the clamped linear surrogate described
// above; the winner gains K*(scale-expected)/scale and the loser loses
// K*expected_loser/scale, both with truncating division. Two rules shape the
// edges: a win always pays at least 1 point, even for an overwhelming
// favorite whose expected score saturated at certainty, and the loser's
// rating floors at MinRating instead of going lower.
//
// At equal ratings the exchange is 16/16; an underdog winning gains more,
// a favorite winning gains less, saturating toward the forced minimum of 1.
func Update(winnerRating, loserRating sdkmath.Uint) (newWinnerRating, newLoserRating sdkmath.Uint) {
	var expectedWinner sdkmath.Uint
	if winnerRating.GTE(loserRating) {
		diff := winnerRating.Sub(loserRating)
		bonus := diff.Mul(scale).Quo(spread4)
		expectedWinner = halfScale.Add(bonus)
		if expectedWinner.GT(scale) {
			expectedWinner = scale
		}
	} else {
		diff := loserRating.Sub(winnerRating)
		penalty := diff.Mul(scale).Quo(spread4)
		if penalty.GTE(halfScale) {
			expectedWinner = sdkmath.ZeroUint()
		} else {
			expectedWinner = halfScale.Sub(penalty)
		}
	}

	winnerGain := kFactor.Mul(scale.Sub(expectedWinner)).Quo(scale)

	expectedLoser := scale.Sub(expectedWinner)
	loserLoss := kFactor.Mul(expectedLoser).Quo(scale)

	// A win must always pay something, even when fully expected.
	if winnerGain.IsZero() {
		winnerGain = sdkmath.OneUint()
	}

	newWinnerRating = winnerRating.Add(winnerGain)

	// Keep the two-branch floor check as-is: the subtract branch is taken
	// only when the result stays strictly above the floor, everything else
	// pins to MinRating exactly.
	if loserRating.GT(loserLoss.Add(MinRating)) {
		newLoserRating = loserRating.Sub(loserLoss)
	} else {
		newLoserRating = MinRating
	}

	return newWinnerRating, newLoserRating
}
