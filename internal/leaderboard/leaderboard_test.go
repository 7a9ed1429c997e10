package leaderboard

import (
	"sort"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/dexbattles/arena/internal/rating"
	"github.com/dexbattles/arena/internal/types"
)

// memStore is an in-memory PlayerStore for exercising the service logic
// without Postgres.
type memStore struct {
	players map[string]types.PlayerStats
}

func newMemStore() *memStore {
	return &memStore{players: make(map[string]types.PlayerStats)}
}

func (m *memStore) GetStats(address string) (*types.PlayerStats, error) {
	stats, ok := m.players[address]
	if !ok {
		return nil, nil
	}
	return &stats, nil
}

func (m *memStore) SavePair(winner, loser types.PlayerStats) error {
	m.players[winner.Address] = winner
	m.players[loser.Address] = loser
	return nil
}

func (m *memStore) PlayerCount() (uint64, error) {
	return uint64(len(m.players)), nil
}

func (m *memStore) TopPlayers(limit int) ([]types.PlayerStats, error) {
	all := make([]types.PlayerStats, 0, len(m.players))
	for _, p := range m.players {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Rating.GT(all[j].Rating) })
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func TestRecordResultInitializesNewPlayers(t *testing.T) {
	svc := NewService(newMemStore())

	winner, loser, err := svc.RecordResult("0xaaa", "0xbbb", sdkmath.NewUint(5_000_000_000))
	require.NoError(t, err)

	// both started at the default 1000: the equal-rating exchange is 16/16
	require.Equal(t, sdkmath.NewUint(1016), winner.Rating)
	require.Equal(t, sdkmath.NewUint(984), loser.Rating)

	require.Equal(t, uint64(1), winner.Wins)
	require.Equal(t, uint64(0), winner.Losses)
	require.Equal(t, uint64(1), winner.TotalBattles)
	require.Equal(t, sdkmath.NewUint(5_000_000_000), winner.TotalValueWonUSD)

	require.Equal(t, uint64(0), loser.Wins)
	require.Equal(t, uint64(1), loser.Losses)
	require.Equal(t, uint64(1), loser.TotalBattles)
	require.True(t, loser.TotalValueWonUSD.IsZero())

	count, err := svc.PlayerCount()
	require.NoError(t, err)
	require.Equal(t, uint64(2), count)
}

func TestRecordResultAccumulates(t *testing.T) {
	svc := NewService(newMemStore())

	_, _, err := svc.RecordResult("0xaaa", "0xbbb", sdkmath.NewUint(100))
	require.NoError(t, err)
	winner, _, err := svc.RecordResult("0xaaa", "0xbbb", sdkmath.NewUint(250))
	require.NoError(t, err)

	require.Equal(t, uint64(2), winner.Wins)
	require.Equal(t, uint64(2), winner.TotalBattles)
	require.Equal(t, sdkmath.NewUint(350), winner.TotalValueWonUSD)
	// second win as a (slight) favorite pays less than the first
	require.True(t, winner.Rating.LT(sdkmath.NewUint(1032)))
}

func TestRecordResultRejectsDegenerateInput(t *testing.T) {
	svc := NewService(newMemStore())

	_, _, err := svc.RecordResult("0xaaa", "0xaaa", sdkmath.ZeroUint())
	require.ErrorIs(t, err, ErrSamePlayer)

	_, _, err = svc.RecordResult("", "0xbbb", sdkmath.ZeroUint())
	require.ErrorIs(t, err, ErrEmptyAddress)

	count, err := svc.PlayerCount()
	require.NoError(t, err)
	require.Equal(t, uint64(0), count, "rejected results must not initialize players")
}

func TestGetRatingDefaultsForUnseenPlayer(t *testing.T) {
	svc := NewService(newMemStore())

	r, err := svc.GetRating("0xnever")
	require.NoError(t, err)
	require.Equal(t, rating.DefaultRating, r)

	stats, err := svc.GetStats("0xnever")
	require.NoError(t, err)
	require.Equal(t, rating.DefaultRating, stats.Rating)
	require.Equal(t, uint64(0), stats.TotalBattles)
}

func TestTopPlayersOrdering(t *testing.T) {
	svc := NewService(newMemStore())

	// A beats B twice, then C beats B once: A > C > B
	_, _, err := svc.RecordResult("0xa", "0xb", sdkmath.NewUint(1))
	require.NoError(t, err)
	_, _, err = svc.RecordResult("0xa", "0xb", sdkmath.NewUint(1))
	require.NoError(t, err)
	_, _, err = svc.RecordResult("0xc", "0xb", sdkmath.NewUint(1))
	require.NoError(t, err)

	top, err := svc.TopPlayers(10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	require.Equal(t, "0xa", top[0].Address)
	require.Equal(t, "0xc", top[1].Address)
	require.Equal(t, "0xb", top[2].Address)
}
