/*

This file contains the leaderboard service: the stateful layer over the pure
rating math. It owns per-player records (rating, win/loss counters,
cumulative value won), lazily initializes a player the first time they are
seen, and applies exactly one rating update per recorded battle outcome.

*/

package leaderboard

import (
	"errors"
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"

	"github.com/dexbattles/arena/internal/logger"
	"github.com/dexbattles/arena/internal/rating"
	"github.com/dexbattles/arena/internal/types"
)

var (
	ErrSamePlayer   = errors.New("winner and loser must be different players")
	ErrEmptyAddress = errors.New("player address cannot be empty")
)

var lbLogger = logger.GetForComponent("leaderboard")

// PlayerStore abstracts the persistence backing the leaderboard so the
// service logic is testable without a database.
type PlayerStore interface {
	// GetStats returns a player's record, or (nil, nil) for a player that
	// has never fought.
	GetStats(address string) (*types.PlayerStats, error)
	// SavePair persists both sides of one battle atomically.
	SavePair(winner, loser types.PlayerStats) error
	PlayerCount() (uint64, error)
	TopPlayers(limit int) ([]types.PlayerStats, error)
}

// Service is the leaderboard. Writes are serialized: one battle's outcome is
// a single read-update-write transition over two player records, and
// interleaving two of them could apply a rating update against stale inputs.
type Service struct {
	store PlayerStore
	mu    sync.Mutex
}

// NewService creates a leaderboard over the given store.
func NewService(store PlayerStore) *Service {
	return &Service{store: store}
}

// RecordResult applies one battle outcome: both players are initialized with
// the default rating if never seen, the rating update runs once, counters
// and the winner's cumulative value are bumped, and both records persist in
// one transaction. Returns both updated records.
func (s *Service) RecordResult(winnerAddr, loserAddr string, battleValueUSD sdkmath.Uint) (types.PlayerStats, types.PlayerStats, error) {
	if winnerAddr == "" || loserAddr == "" {
		return types.PlayerStats{}, types.PlayerStats{}, ErrEmptyAddress
	}
	if winnerAddr == loserAddr {
		return types.PlayerStats{}, types.PlayerStats{}, ErrSamePlayer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	winner, err := s.loadOrInit(winnerAddr)
	if err != nil {
		return types.PlayerStats{}, types.PlayerStats{}, err
	}
	loser, err := s.loadOrInit(loserAddr)
	if err != nil {
		return types.PlayerStats{}, types.PlayerStats{}, err
	}

	newWinnerRating, newLoserRating := rating.Update(winner.Rating, loser.Rating)

	winner.Rating = newWinnerRating
	winner.Wins++
	winner.TotalBattles++
	winner.TotalValueWonUSD = winner.TotalValueWonUSD.Add(battleValueUSD)

	loser.Rating = newLoserRating
	loser.Losses++
	loser.TotalBattles++

	if err := s.store.SavePair(winner, loser); err != nil {
		return types.PlayerStats{}, types.PlayerStats{}, fmt.Errorf("failed to persist battle outcome: %w", err)
	}

	lbLogger.Info().
		Str("winner", winner.Address).
		Str("loser", loser.Address).
		Str("winnerRating", winner.Rating.String()).
		Str("loserRating", loser.Rating.String()).
		Str("valueWonUSD", battleValueUSD.String()).
		Msg("Recorded battle result")

	return winner, loser, nil
}

// loadOrInit returns the stored record for a player, or a fresh record at
// the default rating the first time they are seen.
func (s *Service) loadOrInit(address string) (types.PlayerStats, error) {
	stats, err := s.store.GetStats(address)
	if err != nil {
		return types.PlayerStats{}, fmt.Errorf("failed to load player %s: %w", address, err)
	}
	if stats == nil {
		lbLogger.Debug().Str("address", address).Msg("Initializing new player at default rating")
		return types.PlayerStats{
			Address:          address,
			Rating:           rating.DefaultRating,
			TotalValueWonUSD: sdkmath.ZeroUint(),
		}, nil
	}
	return *stats, nil
}

// GetRating returns a player's current rating; players that have never
// fought read back at the default rating.
func (s *Service) GetRating(address string) (sdkmath.Uint, error) {
	stats, err := s.store.GetStats(address)
	if err != nil {
		return sdkmath.ZeroUint(), err
	}
	if stats == nil {
		return rating.DefaultRating, nil
	}
	return stats.Rating, nil
}

// GetStats returns a player's full record; never-seen players get a zeroed
// record at the default rating rather than an error.
func (s *Service) GetStats(address string) (types.PlayerStats, error) {
	stats, err := s.store.GetStats(address)
	if err != nil {
		return types.PlayerStats{}, err
	}
	if stats == nil {
		return types.PlayerStats{
			Address:          address,
			Rating:           rating.DefaultRating,
			TotalValueWonUSD: sdkmath.ZeroUint(),
		}, nil
	}
	return *stats, nil
}

// PlayerCount returns the number of unique players seen so far.
func (s *Service) PlayerCount() (uint64, error) {
	return s.store.PlayerCount()
}

// TopPlayers returns the highest-rated players.
func (s *Service) TopPlayers(limit int) ([]types.PlayerStats, error) {
	return s.store.TopPlayers(limit)
}
