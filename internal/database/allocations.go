package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

// CreateAllocation inserts an allocation row for a (wallet, asset) pair.
// Layers are attached afterwards through ReplaceLayers.
func (db *DB) CreateAllocation(ctx context.Context, a *models.Allocation) error {
	query := `
		INSERT INTO allocations (wallet_address, asset_id, ecosystem, amount_usd, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (wallet_address, asset_id)
		DO UPDATE SET ecosystem = EXCLUDED.ecosystem, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	now := time.Now()
	err := db.conn.QueryRowContext(ctx, query,
		a.WalletAddress, a.AssetID, a.Ecosystem, a.AmountUsd, now, now,
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create allocation for %s/%s: %w", a.WalletAddress, a.AssetID, err)
	}
	a.UpdatedAt = now
	return nil
}

// GetAllocation retrieves one allocation with its ordered layers.
func (db *DB) GetAllocation(ctx context.Context, id int) (*models.Allocation, error) {
	query := `
		SELECT id, wallet_address, asset_id, ecosystem, amount_usd, created_at, updated_at
		FROM allocations
		WHERE id = $1
	`
	var a models.Allocation
	var amount sql.NullString
	err := db.conn.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.WalletAddress, &a.AssetID, &a.Ecosystem, &amount, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("allocation not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get allocation %d: %w", id, err)
	}
	if amount.Valid {
		a.AmountUsd = parseAmount(amount.String, a.ID)
	}

	layers, err := db.getLayers(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.Layers = layers
	return &a, nil
}

// GetAllAllocations returns every stored allocation with layers, for the
// orchestrator's batch evaluation.
func (db *DB) GetAllAllocations(ctx context.Context) ([]*models.Allocation, error) {
	return db.queryAllocations(ctx, `
		SELECT id, wallet_address, asset_id, ecosystem, amount_usd, created_at, updated_at
		FROM allocations
		ORDER BY id
	`)
}

// GetAllocationsByWallet returns a wallet's allocations with layers.
func (db *DB) GetAllocationsByWallet(ctx context.Context, wallet string) ([]*models.Allocation, error) {
	return db.queryAllocations(ctx, `
		SELECT id, wallet_address, asset_id, ecosystem, amount_usd, created_at, updated_at
		FROM allocations
		WHERE wallet_address = $1
		ORDER BY id
	`, wallet)
}

func (db *DB) queryAllocations(ctx context.Context, query string, args ...interface{}) ([]*models.Allocation, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations: %w", err)
	}
	defer rows.Close()

	var allocations []*models.Allocation
	for rows.Next() {
		var a models.Allocation
		var amount sql.NullString
		if err := rows.Scan(&a.ID, &a.WalletAddress, &a.AssetID, &a.Ecosystem, &amount, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		if amount.Valid {
			a.AmountUsd = parseAmount(amount.String, a.ID)
		}
		allocations = append(allocations, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, a := range allocations {
		layers, err := db.getLayers(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		a.Layers = layers
	}
	return allocations, nil
}

// parseAmount decodes a stored USD amount, logging rather than failing the
// whole read when a row carries a malformed value.
func parseAmount(s string, allocationID int) decimal.Decimal {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		log.Printf("Invalid stored amount %q for allocation %d: %v", s, allocationID, err)
		return decimal.Zero
	}
	return amount
}

func (db *DB) getLayers(ctx context.Context, allocationID int) ([]models.StrategyLayer, error) {
	query := `
		SELECT id, strategy_id, condition, weight
		FROM strategy_layers
		WHERE allocation_id = $1
		ORDER BY position
	`
	rows, err := db.conn.QueryContext(ctx, query, allocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get layers for allocation %d: %w", allocationID, err)
	}
	defer rows.Close()

	var layers []models.StrategyLayer
	for rows.Next() {
		var l models.StrategyLayer
		if err := rows.Scan(&l.ID, &l.StrategyID, &l.Condition, &l.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan strategy layer: %w", err)
		}
		layers = append(layers, l)
	}
	return layers, rows.Err()
}

// ReplaceLayers swaps an allocation's full layer list in one transaction and
// returns the list as persisted. A failure rolls back to the prior state.
func (db *DB) ReplaceLayers(ctx context.Context, allocationID int, layers []models.StrategyLayer) ([]models.StrategyLayer, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin layer transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM strategy_layers WHERE allocation_id = $1`, allocationID); err != nil {
		return nil, fmt.Errorf("failed to clear layers for allocation %d: %w", allocationID, err)
	}

	insertQuery := `
		INSERT INTO strategy_layers (allocation_id, strategy_id, condition, weight, position)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	persisted := make([]models.StrategyLayer, len(layers))
	for i, l := range layers {
		if err := tx.QueryRowContext(ctx, insertQuery,
			allocationID, l.StrategyID, l.Condition, l.Weight, i,
		).Scan(&l.ID); err != nil {
			return nil, fmt.Errorf("failed to insert layer %s: %w", l.StrategyID, err)
		}
		persisted[i] = l
	}

	if _, err := tx.ExecContext(ctx, `UPDATE allocations SET updated_at = $2 WHERE id = $1`, allocationID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to touch allocation %d: %w", allocationID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit layer replacement: %w", err)
	}
	return persisted, nil
}

// UpdateAllocationAmount updates the informational USD value of one
// (wallet, asset) allocation. Missing rows are ignored: balance snapshots
// cover assets the user never dropped a strategy on.
func (db *DB) UpdateAllocationAmount(ctx context.Context, wallet, assetID string, amount decimal.Decimal) error {
	query := `
		UPDATE allocations
		SET amount_usd = $3, updated_at = $4
		WHERE wallet_address = $1 AND asset_id = $2
	`
	if _, err := db.conn.ExecContext(ctx, query, wallet, assetID, amount, time.Now()); err != nil {
		return fmt.Errorf("failed to update amount for %s/%s: %w", wallet, assetID, err)
	}
	return nil
}
