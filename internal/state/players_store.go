// ./internal/state/players_store.go
package state

import (
	"database/sql"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/dexbattles/arena/internal/types"
)

// PlayerStore persists leaderboard records in Postgres. It satisfies the
// leaderboard.PlayerStore interface.
type PlayerStore struct{}

// NewPlayerStore returns a store backed by the global DB pool.
func NewPlayerStore() *PlayerStore {
	return &PlayerStore{}
}

// GetStats loads one player's record. Returns (nil, nil) for a player that
// has never fought; the caller decides what "never seen" means.
func (s *PlayerStore) GetStats(address string) (*types.PlayerStats, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
		SELECT address, rating, wins, losses, total_battles, total_value_won_usd, updated_at
		FROM players
		WHERE address = $1;`

	var (
		stats       types.PlayerStats
		ratingStr   string
		valueWonStr string
	)
	err := DB.QueryRow(query, address).Scan(
		&stats.Address, &ratingStr, &stats.Wins, &stats.Losses,
		&stats.TotalBattles, &valueWonStr, &stats.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load player %s: %w", address, err)
	}

	stats.Rating, err = parseStoredUint(ratingStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt rating for player %s: %w", address, err)
	}
	stats.TotalValueWonUSD, err = parseStoredUint(valueWonStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt value-won for player %s: %w", address, err)
	}

	return &stats, nil
}

// SavePair upserts both sides of a settled battle in a single transaction so
// a battle's state transition is atomic: either both records move or neither
// does.
func (s *PlayerStore) SavePair(winner, loser types.PlayerStats) (err error) {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p) // Re-panic after rollback
		} else if err != nil {
			tx.Rollback() // Rollback if error occurred
		}
	}()

	for _, stats := range []types.PlayerStats{winner, loser} {
		if err = upsertPlayerTx(tx, stats); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Debug().
		Str("winner", winner.Address).
		Str("loser", loser.Address).
		Str("winnerRating", winner.Rating.String()).
		Str("loserRating", loser.Rating.String()).
		Msg("Persisted battle outcome")
	return nil
}

// upsertPlayerTx writes one player record inside an open transaction.
func upsertPlayerTx(tx *sql.Tx, stats types.PlayerStats) error {
	stmt := `
		INSERT INTO players (address, rating, wins, losses, total_battles, total_value_won_usd, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		ON CONFLICT (address) DO UPDATE SET
			rating = EXCLUDED.rating,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			total_battles = EXCLUDED.total_battles,
			total_value_won_usd = EXCLUDED.total_value_won_usd,
			updated_at = CURRENT_TIMESTAMP;`

	_, err := tx.Exec(stmt,
		stats.Address, stats.Rating.String(), stats.Wins, stats.Losses,
		stats.TotalBattles, stats.TotalValueWonUSD.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert player %s: %w", stats.Address, err)
	}
	return nil
}

// PlayerCount returns the number of unique players that have fought at least
// one battle.
func (s *PlayerStore) PlayerCount() (uint64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	var count uint64
	if err := DB.QueryRow(`SELECT COUNT(*) FROM players;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

// TopPlayers returns up to limit players ordered by rating, highest first.
func (s *PlayerStore) TopPlayers(limit int) ([]types.PlayerStats, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	if limit <= 0 || limit > 100 {
		limit = 25 // Default limit
	}

	query := `
		SELECT address, rating, wins, losses, total_battles, total_value_won_usd, updated_at
		FROM players
		ORDER BY rating DESC, total_battles DESC
		LIMIT $1;`

	rows, err := DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top players: %w", err)
	}
	defer rows.Close()

	var players []types.PlayerStats
	for rows.Next() {
		var (
			stats       types.PlayerStats
			ratingStr   string
			valueWonStr string
		)
		err := rows.Scan(
			&stats.Address, &ratingStr, &stats.Wins, &stats.Losses,
			&stats.TotalBattles, &valueWonStr, &stats.UpdatedAt,
		)
		if err != nil {
			log.Error().Err(err).Msg("Failed to scan player row")
			continue // Skip this row and continue with others
		}

		if stats.Rating, err = parseStoredUint(ratingStr); err != nil {
			log.Error().Err(err).Str("address", stats.Address).Msg("Corrupt rating in players table")
			continue
		}
		if stats.TotalValueWonUSD, err = parseStoredUint(valueWonStr); err != nil {
			log.Error().Err(err).Str("address", stats.Address).Msg("Corrupt value-won in players table")
			continue
		}

		players = append(players, stats)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return players, nil
}

// parseStoredUint converts a NUMERIC column read back as text into a Uint.
// sdkmath.NewUintFromString panics on malformed input, so recover it into an
// error; a corrupt row must not take the service down.
func parseStoredUint(s string) (u sdkmath.Uint, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid stored integer %q", s)
		}
	}()
	return sdkmath.NewUintFromString(s), nil
}
