package simulations

import (
	"fmt"
	"math/rand"
	"sort"

	sdkmath "cosmossdk.io/math"

	"github.com/dexbattles/arena/internal/arena"
	"github.com/dexbattles/arena/internal/config"
	"github.com/dexbattles/arena/internal/leaderboard"
	"github.com/dexbattles/arena/internal/logger"
	"github.com/dexbattles/arena/internal/types"
)

var simLogger = logger.GetForComponent("simulator")

// Report summarizes one simulation run.
type Report struct {
	Rounds      int                 `json:"rounds"`
	Players     int                 `json:"players"`
	Seed        uint64              `json:"seed"`
	Settled     int                 `json:"settled"`
	RangeCount  int                 `json:"range_battles"`
	FeeCount    int                 `json:"fee_battles"`
	Leaderboard []types.PlayerStats `json:"leaderboard"`
}

// Run settles a seeded sequence of synthetic battles against in-memory stores
// and returns the resulting leaderboard. The same seed always produces the
// same battles and therefore the same final ratings; useful for eyeballing
// rating dynamics without a database or live position data.
func Run(params config.SimulationParameters, resolverBps uint64) (Report, error) {
	if params.Players < 2 {
		return Report{}, fmt.Errorf("simulation needs at least 2 players, got %d", params.Players)
	}
	if params.Rounds < 1 {
		return Report{}, fmt.Errorf("simulation needs at least 1 round, got %d", params.Rounds)
	}

	lb := leaderboard.NewService(newMemoryPlayerStore())
	receipts := &memoryReceiptStore{}
	svc, err := arena.NewService(arena.Config{
		Leaderboard:        lb,
		Receipts:           receipts,
		DefaultResolverBps: sdkmath.NewUint(resolverBps),
	})
	if err != nil {
		return Report{}, err
	}

	rng := rand.New(rand.NewSource(int64(params.Seed)))

	players := make([]string, params.Players)
	for i := range players {
		players[i] = fmt.Sprintf("sim-player-%02d", i+1)
	}

	simLogger.Info().
		Int("rounds", params.Rounds).
		Int("players", params.Players).
		Uint64("seed", params.Seed).
		Msg("Starting battle simulation")

	report := Report{
		Rounds:  params.Rounds,
		Players: params.Players,
		Seed:    params.Seed,
	}

	for round := 1; round <= params.Rounds; round++ {
		a := rng.Intn(len(players))
		b := rng.Intn(len(players) - 1)
		if b >= a {
			b++
		}

		battle := randomBattle(rng, uint64(round), players[a], players[b])
		if battle.Kind == types.BattleKindRange {
			report.RangeCount++
		} else {
			report.FeeCount++
		}

		result, err := svc.Settle(battle)
		if err != nil {
			return Report{}, fmt.Errorf("round %d failed: %w", round, err)
		}
		report.Settled++

		simLogger.Debug().
			Int("round", round).
			Str("kind", string(battle.Kind)).
			Str("winner", result.WinnerPlayer).
			Str("winnerRating", result.WinnerRating.String()).
			Str("loserRating", result.LoserRating.String()).
			Msg("Simulated battle settled")
	}

	top, err := lb.TopPlayers(params.Players)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read final leaderboard: %w", err)
	}
	report.Leaderboard = top

	simLogger.Info().
		Int("settled", report.Settled).
		Int("rangeBattles", report.RangeCount).
		Int("feeBattles", report.FeeCount).
		Msg("Simulation complete")

	return report, nil
}

// randomBattle draws one synthetic battle. Measurements stay in ranges where
// both degenerate inputs (fully out of range, zero fees) and tight winners
// occur.
func randomBattle(rng *rand.Rand, id uint64, playerA, playerB string) types.Battle {
	kind := types.BattleKindRange
	if rng.Intn(2) == 1 {
		kind = types.BattleKindFee
	}

	battle := types.Battle{
		ID:          id,
		Kind:        kind,
		PositionA:   randomSnapshot(rng, playerA),
		PositionB:   randomSnapshot(rng, playerB),
		FeePoolUSD:  sdkmath.NewUint(uint64(rng.Intn(100_000) + 1_000)),
		ResolverBps: sdkmath.ZeroUint(), // use the configured default
	}
	return battle
}

func randomSnapshot(rng *rand.Rand, player string) types.PositionSnapshot {
	totalTime := uint64(rng.Intn(86_400) + 3_600)
	lpValue := uint64(rng.Intn(1_000_000) + 10_000)

	return types.PositionSnapshot{
		Player:       player,
		Exchange:     types.ExchangeID(rng.Intn(2)),
		InRangeTime:  sdkmath.NewUint(uint64(rng.Int63n(int64(totalTime + 1)))),
		TotalTime:    sdkmath.NewUint(totalTime),
		TickDistance: sdkmath.NewUint(uint64(rng.Intn(400))),
		FeesUSD:      sdkmath.NewUint(uint64(rng.Intn(10_000))),
		LPValueUSD:   sdkmath.NewUint(lpValue),
		Duration:     sdkmath.NewUint(totalTime),
	}
}

// memoryPlayerStore is an in-memory leaderboard.PlayerStore for simulation
// runs; nothing persists beyond the process.
type memoryPlayerStore struct {
	players map[string]types.PlayerStats
}

func newMemoryPlayerStore() *memoryPlayerStore {
	return &memoryPlayerStore{players: make(map[string]types.PlayerStats)}
}

func (m *memoryPlayerStore) GetStats(address string) (*types.PlayerStats, error) {
	stats, ok := m.players[address]
	if !ok {
		return nil, nil
	}
	return &stats, nil
}

func (m *memoryPlayerStore) SavePair(winner, loser types.PlayerStats) error {
	m.players[winner.Address] = winner
	m.players[loser.Address] = loser
	return nil
}

func (m *memoryPlayerStore) PlayerCount() (uint64, error) {
	return uint64(len(m.players)), nil
}

func (m *memoryPlayerStore) TopPlayers(limit int) ([]types.PlayerStats, error) {
	all := make([]types.PlayerStats, 0, len(m.players))
	for _, p := range m.players {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Rating.Equal(all[j].Rating) {
			return all[i].Rating.GT(all[j].Rating)
		}
		return all[i].Address < all[j].Address
	})
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// memoryReceiptStore counts receipts without keeping them.
type memoryReceiptStore struct {
	count int64
}

func (m *memoryReceiptStore) SaveReceipt(types.BattleResult) (int64, error) {
	m.count++
	return m.count, nil
}
