/*

This file contains the settlement orchestrator. It is the stateful caller
around the pure scoring and rating functions: one Settle call scores both
positions, normalizes across venues, picks the winner, splits the fee pool,
records the outcome on the leaderboard and persists a receipt. The scoring
itself never fails; every error out of Settle comes from input validation or
persistence.

*/

package arena

import (
	"errors"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/dexbattles/arena/internal/leaderboard"
	"github.com/dexbattles/arena/internal/logger"
	"github.com/dexbattles/arena/internal/scoring"
	"github.com/dexbattles/arena/internal/types"
)

var (
	ErrInvalidBattle = errors.New("invalid battle")
	ErrUnknownKind   = errors.New("unknown battle kind")
)

var arenaLogger = logger.GetForComponent("arena")

// ReceiptStore persists settlement receipts.
type ReceiptStore interface {
	SaveReceipt(result types.BattleResult) (int64, error)
}

// Config wires the arena's collaborators.
type Config struct {
	Leaderboard *leaderboard.Service
	Receipts    ReceiptStore
	// DefaultResolverBps is applied when a battle carries no resolver cut of
	// its own.
	DefaultResolverBps sdkmath.Uint
}

// Service settles battles.
type Service struct {
	leaderboard        *leaderboard.Service
	receipts           ReceiptStore
	defaultResolverBps sdkmath.Uint
}

// NewService creates a settlement service from its configuration.
func NewService(cfg Config) (*Service, error) {
	if cfg.Leaderboard == nil {
		return nil, errors.New("leaderboard service is required")
	}
	if cfg.Receipts == nil {
		return nil, errors.New("receipt store is required")
	}
	return &Service{
		leaderboard:        cfg.Leaderboard,
		receipts:           cfg.Receipts,
		defaultResolverBps: cfg.DefaultResolverBps,
	}, nil
}

// Settle runs one battle end to end and returns the full result. The rating
// update and the reward split together form one battle's atomic state
// transition; the leaderboard serializes them internally.
func (s *Service) Settle(battle types.Battle) (types.BattleResult, error) {
	if err := validateBattle(battle); err != nil {
		arenaLogger.Error().Uint64("battleID", battle.ID).Err(err).Msg("Battle validation failed")
		return types.BattleResult{}, errors.Join(ErrInvalidBattle, err)
	}

	rawA, rawB, err := s.scorePositions(battle)
	if err != nil {
		return types.BattleResult{}, err
	}

	scoreA := types.ScoreBreakdown{
		Raw:        rawA,
		Normalized: scoring.Normalize(rawA, battle.PositionA.Exchange),
		Exchange:   battle.PositionA.Exchange,
	}
	scoreB := types.ScoreBreakdown{
		Raw:        rawB,
		Normalized: scoring.Normalize(rawB, battle.PositionB.Exchange),
		Exchange:   battle.PositionB.Exchange,
	}

	winnerSide := scoring.Winner(scoreA.Normalized, scoreB.Normalized)
	winnerPlayer, loserPlayer := battle.PositionA.Player, battle.PositionB.Player
	if winnerSide == types.SideB {
		winnerPlayer, loserPlayer = loserPlayer, winnerPlayer
	}

	resolverBps := battle.ResolverBps
	if resolverBps.IsZero() {
		resolverBps = s.defaultResolverBps
	}
	winnerAmount, resolverAmount := scoring.SplitRewards(battle.FeePoolUSD, resolverBps)

	winnerStats, loserStats, err := s.leaderboard.RecordResult(winnerPlayer, loserPlayer, winnerAmount)
	if err != nil {
		return types.BattleResult{}, fmt.Errorf("failed to record battle %d result: %w", battle.ID, err)
	}

	result := types.BattleResult{
		BattleID:          battle.ID,
		Kind:              battle.Kind,
		ScoreA:            scoreA,
		ScoreB:            scoreB,
		Winner:            winnerSide,
		WinnerPlayer:      winnerPlayer,
		LoserPlayer:       loserPlayer,
		WinnerAmountUSD:   winnerAmount,
		ResolverAmountUSD: resolverAmount,
		ResolverBps:       resolverBps,
		WinnerRating:      winnerStats.Rating,
		LoserRating:       loserStats.Rating,
		SettledAt:         time.Now().UTC(),
	}

	if _, err := s.receipts.SaveReceipt(result); err != nil {
		// the outcome is already recorded; a receipt failure is an
		// observability gap, not a settlement failure
		arenaLogger.Error().Uint64("battleID", battle.ID).Err(err).Msg("Failed to save settlement receipt")
	}

	arenaLogger.Info().
		Uint64("battleID", battle.ID).
		Str("kind", string(battle.Kind)).
		Str("winner", winnerPlayer).
		Str("scoreA", scoreA.Normalized.String()).
		Str("scoreB", scoreB.Normalized.String()).
		Str("winnerAmountUSD", winnerAmount.String()).
		Str("resolverAmountUSD", resolverAmount.String()).
		Msg("Battle settled")

	return result, nil
}

// scorePositions applies the kind-appropriate scorer to both sides.
func (s *Service) scorePositions(battle types.Battle) (rawA, rawB sdkmath.Uint, err error) {
	switch battle.Kind {
	case types.BattleKindRange:
		rawA = scoring.RangeScore(battle.PositionA.InRangeTime, battle.PositionA.TotalTime, battle.PositionA.TickDistance)
		rawB = scoring.RangeScore(battle.PositionB.InRangeTime, battle.PositionB.TotalTime, battle.PositionB.TickDistance)
	case types.BattleKindFee:
		rawA = scoring.FeeScore(battle.PositionA.FeesUSD, battle.PositionA.LPValueUSD, battle.PositionA.Duration)
		rawB = scoring.FeeScore(battle.PositionB.FeesUSD, battle.PositionB.LPValueUSD, battle.PositionB.Duration)
	default:
		return sdkmath.ZeroUint(), sdkmath.ZeroUint(), fmt.Errorf("%w: %q", ErrUnknownKind, battle.Kind)
	}
	return rawA, rawB, nil
}

// validateBattle checks the parts of a battle the scoring functions do not
// guard themselves: player identities. Degenerate measurements (zero times,
// zero value) are valid scorer input and stay out of scope here.
func validateBattle(battle types.Battle) error {
	if battle.PositionA.Player == "" || battle.PositionB.Player == "" {
		return errors.New("both positions must name a player")
	}
	if battle.PositionA.Player == battle.PositionB.Player {
		return errors.New("a player cannot battle themselves")
	}
	return nil
}
