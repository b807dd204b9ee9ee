package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

// CreateRebalanceEvent inserts a new rebalance audit record.
func (db *DB) CreateRebalanceEvent(ctx context.Context, ev *models.RebalanceEvent) error {
	query := `
		INSERT INTO rebalance_events (
			allocation_id, ecosystem, asset_id, trigger_type,
			sentiment_score, sentiment_label, active_strategies,
			status, error_message, gas_cost_usd, profit_usd, executed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := db.conn.QueryRowContext(ctx, query,
		ev.AllocationID, ev.Ecosystem, ev.AssetID, ev.TriggerType,
		ev.SentimentScore, ev.SentimentLabel, pq.Array(ev.ActiveStrategies),
		ev.Status, nullString(ev.ErrorMessage), ev.GasCostUsd, ev.ProfitUsd, ev.ExecutedAt,
	).Scan(&ev.ID)

	if err != nil {
		return fmt.Errorf("failed to create rebalance event: %w", err)
	}
	return nil
}

// UpdateRebalanceStatus moves a pending event to success or failed. Events
// are immutable otherwise.
func (db *DB) UpdateRebalanceStatus(ctx context.Context, eventID int, status models.RebalanceStatus, errorMessage string) error {
	query := `
		UPDATE rebalance_events
		SET status = $2, error_message = $3
		WHERE id = $1 AND status = 'pending'
	`
	result, err := db.conn.ExecContext(ctx, query, eventID, status, nullString(errorMessage))
	if err != nil {
		return fmt.Errorf("failed to update rebalance event %d: %w", eventID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rebalance update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("rebalance event %d is not pending", eventID)
	}
	return nil
}

// GetRebalanceEvents returns a wallet's rebalance history, newest first.
func (db *DB) GetRebalanceEvents(ctx context.Context, wallet string, limit, offset int) ([]*models.RebalanceEvent, error) {
	query := `
		SELECT e.id, e.allocation_id, e.ecosystem, e.asset_id, e.trigger_type,
		       e.sentiment_score, e.sentiment_label, e.active_strategies,
		       e.status, e.error_message, e.gas_cost_usd, e.profit_usd, e.executed_at
		FROM rebalance_events e
		JOIN allocations a ON a.id = e.allocation_id
		WHERE a.wallet_address = $1
		ORDER BY e.executed_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := db.conn.QueryContext(ctx, query, wallet, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get rebalance events: %w", err)
	}
	defer rows.Close()

	var events []*models.RebalanceEvent
	for rows.Next() {
		var ev models.RebalanceEvent
		var errorMessage sql.NullString
		var gasCost, profit sql.NullString
		err := rows.Scan(
			&ev.ID, &ev.AllocationID, &ev.Ecosystem, &ev.AssetID, &ev.TriggerType,
			&ev.SentimentScore, &ev.SentimentLabel, pq.Array(&ev.ActiveStrategies),
			&ev.Status, &errorMessage, &gasCost, &profit, &ev.ExecutedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rebalance event: %w", err)
		}
		if errorMessage.Valid {
			ev.ErrorMessage = errorMessage.String
		}
		if gasCost.Valid {
			if d, err := decimal.NewFromString(gasCost.String); err == nil {
				ev.GasCostUsd = &d
			}
		}
		if profit.Valid {
			if d, err := decimal.NewFromString(profit.String); err == nil {
				ev.ProfitUsd = &d
			}
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}

// CountRebalanceEventsSince returns how many events a wallet accumulated
// after the cutoff, surfaced alongside the paginated history.
func (db *DB) CountRebalanceEventsSince(ctx context.Context, wallet string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM rebalance_events e
		JOIN allocations a ON a.id = e.allocation_id
		WHERE a.wallet_address = $1 AND e.executed_at >= $2
	`
	var count int
	if err := db.conn.QueryRowContext(ctx, query, wallet, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rebalance events: %w", err)
	}
	return count, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
