package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

// CreateSentimentRecord appends one synthesized sentiment snapshot.
func (db *DB) CreateSentimentRecord(ctx context.Context, rec *models.SentimentRecord) error {
	query := `
		INSERT INTO sentiment_records (
			raw_score, normalized_score, label, confidence,
			comp_lexicon, comp_social, comp_news_trend, comp_language_model, comp_macro,
			weight_lexicon, weight_social, weight_news_trend, weight_language_model, weight_macro,
			disagreement_resolved, resolution_source, resolution_signal, resolution_nudge,
			high_volatility, market_price_at_recording, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id
	`

	var resSource, resSignal sql.NullString
	var resNudge sql.NullFloat64
	if rec.Resolution != nil {
		resSource = sql.NullString{String: rec.Resolution.Source, Valid: true}
		resSignal = sql.NullString{String: rec.Resolution.Signal, Valid: true}
		resNudge = sql.NullFloat64{Float64: rec.Resolution.Nudge, Valid: true}
	}

	err := db.conn.QueryRowContext(ctx, query,
		rec.RawScore, rec.NormalizedScore, rec.Label, rec.Confidence,
		rec.Components.Lexicon, rec.Components.Social, rec.Components.NewsTrend,
		rec.Components.LanguageModel, rec.Components.Macro,
		rec.Weights.Lexicon, rec.Weights.Social, rec.Weights.NewsTrend,
		rec.Weights.LanguageModel, rec.Weights.Macro,
		rec.DisagreementResolved, resSource, resSignal, resNudge,
		rec.HighVolatility, rec.MarketPriceAtRecording, rec.RecordedAt,
	).Scan(&rec.ID)

	if err != nil {
		return fmt.Errorf("failed to create sentiment record: %w", err)
	}
	return nil
}

const sentimentColumns = `
	id, raw_score, normalized_score, label, confidence,
	comp_lexicon, comp_social, comp_news_trend, comp_language_model, comp_macro,
	weight_lexicon, weight_social, weight_news_trend, weight_language_model, weight_macro,
	disagreement_resolved, resolution_source, resolution_signal, resolution_nudge,
	high_volatility, market_price_at_recording, recorded_at,
	realized_price_change_24h, is_correct
`

// GetLatestSentimentRecord returns the most recent snapshot.
func (db *DB) GetLatestSentimentRecord(ctx context.Context) (*models.SentimentRecord, error) {
	query := `SELECT ` + sentimentColumns + ` FROM sentiment_records ORDER BY recorded_at DESC LIMIT 1`
	rec, err := scanSentimentRecord(db.conn.QueryRowContext(ctx, query))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no sentiment records recorded yet")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest sentiment record: %w", err)
	}
	return rec, nil
}

// GetUnevaluatedRecords returns up to limit records recorded before the
// cutoff that the feedback loop has not graded yet. Records without a stored
// market price can never be graded and are excluded.
func (db *DB) GetUnevaluatedRecords(ctx context.Context, olderThan time.Time, limit int) ([]*models.SentimentRecord, error) {
	query := `
		SELECT ` + sentimentColumns + `
		FROM sentiment_records
		WHERE realized_price_change_24h IS NULL
		  AND recorded_at <= $1
		  AND market_price_at_recording IS NOT NULL
		ORDER BY recorded_at ASC
		LIMIT $2
	`
	rows, err := db.conn.QueryContext(ctx, query, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get unevaluated records: %w", err)
	}
	defer rows.Close()

	var records []*models.SentimentRecord
	for rows.Next() {
		rec, err := scanSentimentRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sentiment record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SetFeedback fills the realized price change and correctness of one record.
// The WHERE guard makes the write idempotent: a record is graded once and
// never regraded.
func (db *DB) SetFeedback(ctx context.Context, recordID int, realizedChangePct float64, isCorrect bool) error {
	query := `
		UPDATE sentiment_records
		SET realized_price_change_24h = $2, is_correct = $3
		WHERE id = $1 AND realized_price_change_24h IS NULL
	`
	result, err := db.conn.ExecContext(ctx, query, recordID, realizedChangePct, isCorrect)
	if err != nil {
		return fmt.Errorf("failed to set feedback on record %d: %w", recordID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check feedback update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("record %d already graded or missing", recordID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSentimentRecord(row rowScanner) (*models.SentimentRecord, error) {
	var rec models.SentimentRecord
	var resSource, resSignal sql.NullString
	var resNudge, marketPrice, realizedChange sql.NullFloat64
	var isCorrect sql.NullBool

	err := row.Scan(
		&rec.ID, &rec.RawScore, &rec.NormalizedScore, &rec.Label, &rec.Confidence,
		&rec.Components.Lexicon, &rec.Components.Social, &rec.Components.NewsTrend,
		&rec.Components.LanguageModel, &rec.Components.Macro,
		&rec.Weights.Lexicon, &rec.Weights.Social, &rec.Weights.NewsTrend,
		&rec.Weights.LanguageModel, &rec.Weights.Macro,
		&rec.DisagreementResolved, &resSource, &resSignal, &resNudge,
		&rec.HighVolatility, &marketPrice, &rec.RecordedAt,
		&realizedChange, &isCorrect,
	)
	if err != nil {
		return nil, err
	}

	if resSource.Valid {
		rec.Resolution = &models.Resolution{
			Source: resSource.String,
			Signal: resSignal.String,
			Nudge:  resNudge.Float64,
		}
	}
	if marketPrice.Valid {
		rec.MarketPriceAtRecording = &marketPrice.Float64
	}
	if realizedChange.Valid {
		rec.RealizedPriceChange24h = &realizedChange.Float64
	}
	if isCorrect.Valid {
		rec.IsCorrect = &isCorrect.Bool
	}
	return &rec, nil
}
