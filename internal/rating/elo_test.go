package rating

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func u(v uint64) sdkmath.Uint { return sdkmath.NewUint(v) }

func TestUpdateEqualRatings(t *testing.T) {
	// equal ratings: expected 50%, exchange is K/2 = 16 each way
	newW, newL := Update(u(1000), u(1000))
	require.Equal(t, u(1016), newW)
	require.Equal(t, u(984), newL)
}

func TestUpdateApproximateConservation(t *testing.T) {
	w, l := u(1200), u(1000)
	newW, newL := Update(w, l)

	before := w.Add(l)
	after := newW.Add(newL)

	var drift sdkmath.Uint
	if after.GT(before) {
		drift = after.Sub(before)
	} else {
		drift = before.Sub(after)
	}
	require.True(t, drift.LTE(u(2)), "rating exchange should be near zero-sum, drifted by %s", drift)
}

func TestUpdateNearSymmetricAtCloseRatings(t *testing.T) {
	w, l := u(1100), u(900)
	newW, newL := Update(w, l)

	gain := newW.Sub(w)
	loss := l.Sub(newL)

	var diff sdkmath.Uint
	if gain.GT(loss) {
		diff = gain.Sub(loss)
	} else {
		diff = loss.Sub(gain)
	}
	require.True(t, diff.LTE(sdkmath.OneUint()), "gain and loss differ by %s", diff)
}

func TestUpdateUnderdogGainsMore(t *testing.T) {
	underdogNew, _ := Update(u(800), u(1200))
	equalNew, _ := Update(u(1000), u(1000))

	underdogGain := underdogNew.Sub(u(800))
	equalGain := equalNew.Sub(u(1000))
	require.True(t, underdogGain.GT(equalGain), "underdog gain %s must beat equal-rating gain %s", underdogGain, equalGain)
	require.True(t, equalGain.Equal(u(16)))
}

func TestUpdateFavoriteGainsLess(t *testing.T) {
	favNew, _ := Update(u(1200), u(800))
	equalNew, _ := Update(u(1000), u(1000))

	favGain := favNew.Sub(u(1200))
	equalGain := equalNew.Sub(u(1000))
	require.True(t, favGain.LT(equalGain), "favorite gain %s must be under equal-rating gain %s", favGain, equalGain)
}

func TestUpdateWinnerAlwaysIncreases(t *testing.T) {
	cases := [][2]uint64{{500, 1500}, {1000, 1000}, {1500, 500}, {100, 2000}, {5000, 100}}
	for _, c := range cases {
		newW, _ := Update(u(c[0]), u(c[1]))
		require.True(t, newW.GT(u(c[0])), "winner rating must increase for %d vs %d", c[0], c[1])
	}
}

func TestUpdateExtremeFavoriteForcedMinimumGain(t *testing.T) {
	// 1500-point gap: expected score clamps at certainty, the raw gain
	// truncates to zero and the forced minimum of 1 kicks in
	newW, newL := Update(u(2000), u(500))
	require.Equal(t, u(2001), newW)
	require.True(t, newL.GTE(MinRating))
}

func TestUpdateLoserFloor(t *testing.T) {
	_, newL := Update(u(1500), u(110))
	require.Equal(t, MinRating, newL, "a loser at 110 must pin to the floor, not go below it")

	_, newL = Update(u(1200), u(100))
	require.Equal(t, MinRating, newL, "a loser already at the floor stays there")

	_, newL = Update(u(1200), u(105))
	require.Equal(t, MinRating, newL)
}

func TestUpdateLoserJustAboveFloorBoundary(t *testing.T) {
	// the floor branch triggers at loserRating <= loss + 100; with a large
	// gap the loss is small, so ratings just past that boundary still subtract
	_, newL := Update(u(2000), u(150))
	// diff >= 1600 clamps expected at certainty: the loser's expected share
	// is zero, so the loss is zero and the rating is untouched
	require.Equal(t, u(150), newL)

	// closer gap: diff=400 -> expected 750, loser loss = 32*250/1000 = 8
	_, newL = Update(u(600), u(200))
	require.Equal(t, u(192), newL)
}

func TestUpdateDominanceProgression(t *testing.T) {
	// five straight wins by A from 1000/1000 must separate the pair
	a, b := u(1000), u(1000)
	for i := 0; i < 5; i++ {
		a, b = Update(a, b)
	}
	require.True(t, a.GT(u(1050)), "A ended at %s", a)
	require.True(t, b.LT(u(950)), "B ended at %s", b)
}

func TestUpdateAlternatingWinsStayBounded(t *testing.T) {
	// alternating wins must not let truncation walk the pair away from 1000
	a, b := u(1000), u(1000)
	for i := 0; i < 10; i++ {
		if i%2 == 0 {
			a, b = Update(a, b)
		} else {
			b, a = Update(b, a)
		}
	}
	for name, r := range map[string]sdkmath.Uint{"A": a, "B": b} {
		require.True(t, r.GTE(u(990)) && r.LTE(u(1010)), "%s should be near 1000, got %s", name, r)
	}
}

func TestUpdateConstants(t *testing.T) {
	require.Equal(t, u(1000), DefaultRating)
	require.Equal(t, u(100), MinRating)
	require.Equal(t, u(32), kFactor)
	require.Equal(t, u(1600), spread4)
}
