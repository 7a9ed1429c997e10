package arena

import (
	"sort"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/dexbattles/arena/internal/leaderboard"
	"github.com/dexbattles/arena/internal/types"
)

const e18 = 1_000_000_000_000_000_000

func u(v uint64) sdkmath.Uint {
	return sdkmath.NewUint(v)
}

// memPlayerStore backs the leaderboard without Postgres.
type memPlayerStore struct {
	players map[string]types.PlayerStats
}

func newMemPlayerStore() *memPlayerStore {
	return &memPlayerStore{players: make(map[string]types.PlayerStats)}
}

func (m *memPlayerStore) GetStats(address string) (*types.PlayerStats, error) {
	stats, ok := m.players[address]
	if !ok {
		return nil, nil
	}
	return &stats, nil
}

func (m *memPlayerStore) SavePair(winner, loser types.PlayerStats) error {
	m.players[winner.Address] = winner
	m.players[loser.Address] = loser
	return nil
}

func (m *memPlayerStore) PlayerCount() (uint64, error) {
	return uint64(len(m.players)), nil
}

func (m *memPlayerStore) TopPlayers(limit int) ([]types.PlayerStats, error) {
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

// memReceiptStore captures saved receipts.
type memReceiptStore struct {
	saved []types.BattleResult
}

func (m *memReceiptStore) SaveReceipt(result types.BattleResult) (int64, error) {
	m.saved = append(m.saved, result)
	return int64(len(m.saved)), nil
}

func newTestService(t *testing.T) (*Service, *memReceiptStore) {
	t.Helper()
	receipts := &memReceiptStore{}
	svc, err := NewService(Config{
		Leaderboard:        leaderboard.NewService(newMemPlayerStore()),
		Receipts:           receipts,
		DefaultResolverBps: u(100),
	})
	require.NoError(t, err)
	return svc, receipts
}

func TestSettleRangeBattle(t *testing.T) {
	svc, receipts := newTestService(t)

	battle := types.Battle{
		ID:   1,
		Kind: types.BattleKindRange,
		PositionA: types.PositionSnapshot{
			Player:       "0xaaa",
			Exchange:     types.ExchangeUniswapV4,
			InRangeTime:  u(3600),
			TotalTime:    u(3600),
			TickDistance: u(0),
		},
		PositionB: types.PositionSnapshot{
			Player:       "0xbbb",
			Exchange:     types.ExchangeCamelotV3,
			InRangeTime:  u(1800),
			TotalTime:    u(3600),
			TickDistance: u(500),
		},
		FeePoolUSD:  u(1_000_000),
		ResolverBps: sdkmath.ZeroUint(),
	}

	result, err := svc.Settle(battle)
	require.NoError(t, err)

	// full-time in range at tick distance 0: 1e18 base with the full 20% bonus
	require.Equal(t, u(12).Mul(u(e18 / 10)), result.ScoreA.Normalized)
	// half-time in range, no bonus
	require.Equal(t, u(e18/2), result.ScoreB.Normalized)

	require.Equal(t, types.SideA, result.Winner)
	require.Equal(t, "0xaaa", result.WinnerPlayer)
	require.Equal(t, "0xbbb", result.LoserPlayer)

	// configured default of 100 bps kicks in when the battle carries none
	require.Equal(t, u(100), result.ResolverBps)
	require.Equal(t, u(10_000), result.ResolverAmountUSD)
	require.Equal(t, u(990_000), result.WinnerAmountUSD)

	// both players were fresh at the default rating
	require.Equal(t, u(1016), result.WinnerRating)
	require.Equal(t, u(984), result.LoserRating)

	require.Len(t, receipts.saved, 1)
	require.Equal(t, uint64(1), receipts.saved[0].BattleID)
}

func TestSettleFeeBattle(t *testing.T) {
	svc, _ := newTestService(t)

	battle := types.Battle{
		ID:   2,
		Kind: types.BattleKindFee,
		PositionA: types.PositionSnapshot{
			Player:     "0xaaa",
			FeesUSD:    u(100),
			LPValueUSD: u(1000),
			Duration:   u(100),
		},
		PositionB: types.PositionSnapshot{
			Player:     "0xbbb",
			FeesUSD:    u(400),
			LPValueUSD: u(1000),
			Duration:   u(100),
		},
		FeePoolUSD:  u(500),
		ResolverBps: sdkmath.ZeroUint(),
	}

	result, err := svc.Settle(battle)
	require.NoError(t, err)

	require.Equal(t, u(1_000_000_000_000_000), result.ScoreA.Raw)
	require.Equal(t, u(4_000_000_000_000_000), result.ScoreB.Raw)
	require.Equal(t, types.SideB, result.Winner)
	require.Equal(t, "0xbbb", result.WinnerPlayer)
	require.Equal(t, "0xaaa", result.LoserPlayer)
}

func TestSettleTieGoesToSideA(t *testing.T) {
	svc, _ := newTestService(t)

	snapshot := types.PositionSnapshot{
		InRangeTime:  u(1800),
		TotalTime:    u(3600),
		TickDistance: u(250),
	}
	a, b := snapshot, snapshot
	a.Player, b.Player = "0xaaa", "0xbbb"

	result, err := svc.Settle(types.Battle{
		ID:          3,
		Kind:        types.BattleKindRange,
		PositionA:   a,
		PositionB:   b,
		FeePoolUSD:  u(1000),
		ResolverBps: sdkmath.ZeroUint(),
	})
	require.NoError(t, err)
	require.Equal(t, types.SideA, result.Winner)
	require.Equal(t, "0xaaa", result.WinnerPlayer)
}

func TestSettleExplicitResolverBpsSaturates(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Settle(types.Battle{
		ID:   4,
		Kind: types.BattleKindRange,
		PositionA: types.PositionSnapshot{
			Player:       "0xaaa",
			InRangeTime:  u(10),
			TotalTime:    u(10),
			TickDistance: u(9999),
		},
		PositionB: types.PositionSnapshot{
			Player:       "0xbbb",
			InRangeTime:  u(0),
			TotalTime:    u(10),
			TickDistance: u(9999),
		},
		FeePoolUSD:  u(777),
		ResolverBps: u(12_000),
	})
	require.NoError(t, err)

	// a resolver cut at or above 100% takes the whole pool
	require.Equal(t, u(12_000), result.ResolverBps)
	require.True(t, result.WinnerAmountUSD.IsZero())
	require.Equal(t, u(777), result.ResolverAmountUSD)
}

func TestSettleResolverBpsBeyondUint64(t *testing.T) {
	svc, receipts := newTestService(t)

	// settlement must survive a cut wider than 64 bits end to end: the split
	// saturates, the outcome records, and the receipt is written
	huge := sdkmath.NewUintFromString("18446744073709551616") // 2^64

	result, err := svc.Settle(types.Battle{
		ID:   8,
		Kind: types.BattleKindRange,
		PositionA: types.PositionSnapshot{
			Player:       "0xaaa",
			InRangeTime:  u(10),
			TotalTime:    u(10),
			TickDistance: u(9999),
		},
		PositionB: types.PositionSnapshot{
			Player:       "0xbbb",
			InRangeTime:  u(0),
			TotalTime:    u(10),
			TickDistance: u(9999),
		},
		FeePoolUSD:  u(555),
		ResolverBps: huge,
	})
	require.NoError(t, err)

	require.Equal(t, huge, result.ResolverBps)
	require.True(t, result.WinnerAmountUSD.IsZero())
	require.Equal(t, u(555), result.ResolverAmountUSD)
	require.Len(t, receipts.saved, 1)
}

func TestSettleRejectsInvalidBattles(t *testing.T) {
	svc, receipts := newTestService(t)

	_, err := svc.Settle(types.Battle{
		ID:        5,
		Kind:      types.BattleKindRange,
		PositionA: types.PositionSnapshot{Player: "0xaaa"},
		PositionB: types.PositionSnapshot{Player: "0xaaa"},
	})
	require.ErrorIs(t, err, ErrInvalidBattle)

	_, err = svc.Settle(types.Battle{
		ID:        6,
		Kind:      types.BattleKindRange,
		PositionA: types.PositionSnapshot{Player: "0xaaa"},
		PositionB: types.PositionSnapshot{},
	})
	require.ErrorIs(t, err, ErrInvalidBattle)

	_, err = svc.Settle(types.Battle{
		ID:        7,
		Kind:      types.BattleKind("COMBO"),
		PositionA: types.PositionSnapshot{Player: "0xaaa"},
		PositionB: types.PositionSnapshot{Player: "0xbbb"},
	})
	require.ErrorIs(t, err, ErrUnknownKind)

	require.Empty(t, receipts.saved, "rejected battles must not produce receipts")
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	_, err := NewService(Config{Receipts: &memReceiptStore{}})
	require.Error(t, err)

	_, err = NewService(Config{Leaderboard: leaderboard.NewService(newMemPlayerStore())})
	require.Error(t, err)
}
