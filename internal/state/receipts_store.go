// ./internal/state/receipts_store.go
package state

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dexbattles/arena/internal/types"
)

// ReceiptStore persists battle settlement receipts in Postgres. It satisfies
// the arena.ReceiptStore interface.
type ReceiptStore struct{}

// NewReceiptStore returns a store backed by the global DB pool.
func NewReceiptStore() *ReceiptStore {
	return &ReceiptStore{}
}

// SaveReceipt stores one settlement receipt and returns its id. The full
// result is kept as JSONB alongside the indexed columns so the dashboard can
// render score breakdowns without re-deriving them.
func (s *ReceiptStore) SaveReceipt(result types.BattleResult) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal battle result: %w", err)
	}

	stmt := `
		INSERT INTO battle_receipts (
			battle_id, kind, winner_side, winner_address, loser_address,
			winner_amount_usd, resolver_amount_usd, resolver_bps, result, settled_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING receipt_id;`

	var receiptID int64
	err = DB.QueryRow(stmt, receiptRow(result, resultJSON)...).Scan(&receiptID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert battle receipt: %w", err)
	}

	log.Info().
		Int64("receipt_id", receiptID).
		Uint64("battle_id", result.BattleID).
		Str("winner", result.WinnerPlayer).
		Msg("Saved battle receipt")
	return receiptID, nil
}

// receiptRow flattens a result into the insert argument order. Every Uint
// travels as text, resolver bps included: a resolver cut at or above 100% is
// a valid saturating input of arbitrary magnitude, and Uint64() panics past
// 64 bits.
func receiptRow(result types.BattleResult, resultJSON []byte) []interface{} {
	return []interface{}{
		result.BattleID, string(result.Kind), uint8(result.Winner),
		result.WinnerPlayer, result.LoserPlayer,
		result.WinnerAmountUSD.String(), result.ResolverAmountUSD.String(),
		result.ResolverBps.String(), resultJSON, result.SettledAt,
	}
}

// GetRecentReceipts retrieves the most recently settled battles.
func (s *ReceiptStore) GetRecentReceipts(limit int) ([]types.BattleReceipt, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	if limit <= 0 || limit > 100 {
		limit = 20 // Default limit
	}

	query := `
		SELECT receipt_id, result, settled_at
		FROM battle_receipts
		ORDER BY settled_at DESC, receipt_id DESC
		LIMIT $1;`

	rows, err := DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent receipts: %w", err)
	}
	defer rows.Close()

	var receipts []types.BattleReceipt
	for rows.Next() {
		var (
			receipt    types.BattleReceipt
			resultJSON []byte
		)
		if err := rows.Scan(&receipt.ReceiptID, &resultJSON, &receipt.SettledAt); err != nil {
			log.Error().Err(err).Msg("Failed to scan receipt row")
			continue // Skip this row and continue with others
		}
		if err := json.Unmarshal(resultJSON, &receipt.Result); err != nil {
			log.Error().Err(err).Int64("receipt_id", receipt.ReceiptID).Msg("Failed to unmarshal receipt result")
			continue
		}
		receipts = append(receipts, receipt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return receipts, nil
}

// GetReceiptByID retrieves a specific settlement receipt.
func (s *ReceiptStore) GetReceiptByID(receiptID int64) (*types.BattleReceipt, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
		SELECT receipt_id, result, settled_at
		FROM battle_receipts
		WHERE receipt_id = $1;`

	var (
		receipt    types.BattleReceipt
		resultJSON []byte
	)
	err := DB.QueryRow(query, receiptID).Scan(&receipt.ReceiptID, &resultJSON, &receipt.SettledAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("receipt with ID %d not found", receiptID)
		}
		return nil, fmt.Errorf("failed to query receipt by ID: %w", err)
	}

	if err := json.Unmarshal(resultJSON, &receipt.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal receipt result: %w", err)
	}

	return &receipt, nil
}
