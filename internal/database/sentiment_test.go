package database

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewFromConn(conn), mock
}

var sentimentColumnNames = []string{
	"id", "raw_score", "normalized_score", "label", "confidence",
	"comp_lexicon", "comp_social", "comp_news_trend", "comp_language_model", "comp_macro",
	"weight_lexicon", "weight_social", "weight_news_trend", "weight_language_model", "weight_macro",
	"disagreement_resolved", "resolution_source", "resolution_signal", "resolution_nudge",
	"high_volatility", "market_price_at_recording", "recorded_at",
	"realized_price_change_24h", "is_correct",
}

func TestCreateSentimentRecord(t *testing.T) {
	db, mock := newMockDB(t)

	rec := &models.SentimentRecord{
		RawScore:        0.32,
		NormalizedScore: 66,
		Label:           models.LabelBullish,
		Confidence:      0.87,
		RecordedAt:      time.Now().UTC(),
	}

	mock.ExpectQuery("INSERT INTO sentiment_records").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	err := db.CreateSentimentRecord(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, 7, rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUnevaluatedRecords(t *testing.T) {
	db, mock := newMockDB(t)

	recordedAt := time.Now().Add(-30 * time.Hour).UTC()
	rows := sqlmock.NewRows(sentimentColumnNames).AddRow(
		3, 0.32, 66, "Bullish", 0.87,
		0.4, 0.2, 0.3, 0.35, 0.1,
		0.21, 0.17, 0.21, 0.26, 0.15,
		false, nil, nil, nil,
		false, 2500.0, recordedAt,
		nil, nil,
	)

	cutoff := time.Now().Add(-24 * time.Hour)
	mock.ExpectQuery("FROM sentiment_records").
		WithArgs(cutoff, 50).
		WillReturnRows(rows)

	records, err := db.GetUnevaluatedRecords(context.Background(), cutoff, 50)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, 3, rec.ID)
	assert.Equal(t, models.LabelBullish, rec.Label)
	require.NotNil(t, rec.MarketPriceAtRecording)
	assert.Equal(t, 2500.0, *rec.MarketPriceAtRecording)
	assert.Nil(t, rec.RealizedPriceChange24h)
	assert.Nil(t, rec.Resolution)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFeedback(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE sentiment_records")).
		WithArgs(3, 2.1, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := db.SetFeedback(context.Background(), 3, 2.1, true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFeedback_AlreadyGraded(t *testing.T) {
	db, mock := newMockDB(t)

	// The idempotency guard matches zero rows for a graded record.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sentiment_records")).
		WithArgs(3, 2.1, true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := db.SetFeedback(context.Background(), 3, 2.1, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already graded or missing")
}

func TestScanSentimentRecord_ResolutionRoundTrip(t *testing.T) {
	db, mock := newMockDB(t)

	recordedAt := time.Now().UTC()
	rows := sqlmock.NewRows(sentimentColumnNames).AddRow(
		9, -0.12, 44, "Neutral", 0.55,
		0.8, -0.5, 0.1, 0.7, -0.9,
		0.21, 0.17, 0.21, 0.26, 0.15,
		true, "fear_greed", "bearish", -0.1,
		true, 1800.0, recordedAt,
		-2.4, true,
	)

	mock.ExpectQuery("ORDER BY recorded_at DESC").WillReturnRows(rows)

	rec, err := db.GetLatestSentimentRecord(context.Background())
	require.NoError(t, err)

	require.NotNil(t, rec.Resolution)
	assert.Equal(t, "fear_greed", rec.Resolution.Source)
	assert.Equal(t, "bearish", rec.Resolution.Signal)
	assert.Equal(t, -0.1, rec.Resolution.Nudge)
	assert.True(t, rec.HighVolatility)
	require.NotNil(t, rec.IsCorrect)
	assert.True(t, *rec.IsCorrect)
	require.NotNil(t, rec.RealizedPriceChange24h)
	assert.Equal(t, -2.4, *rec.RealizedPriceChange24h)
}
