package workers

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/config"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/metrics"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

// PriceSource fetches the current reference price for grading.
type PriceSource interface {
	AssetPrice(ctx context.Context, assetID string) (float64, error)
}

// FeedbackStore is the persistence surface of the calibration loop.
type FeedbackStore interface {
	GetUnevaluatedRecords(ctx context.Context, olderThan time.Time, limit int) ([]*models.SentimentRecord, error)
	SetFeedback(ctx context.Context, recordID int, realizedChangePct float64, isCorrect bool) error
}

// FeedbackWorker grades matured sentiment predictions against realized price
// movement. Each record is graded once; the write is the only mutation a
// record ever receives after creation.
type FeedbackWorker struct {
	store          FeedbackStore
	prices         PriceSource
	cfg            config.EngineConfig
	referenceAsset string
}

// NewFeedbackWorker creates the calibration job.
func NewFeedbackWorker(store FeedbackStore, prices PriceSource, cfg config.EngineConfig, referenceAsset string) *FeedbackWorker {
	return &FeedbackWorker{
		store:          store,
		prices:         prices,
		cfg:            cfg,
		referenceAsset: referenceAsset,
	}
}

// Name implements Worker
func (w *FeedbackWorker) Name() string { return "feedback-loop" }

// Interval implements Worker
func (w *FeedbackWorker) Interval() time.Duration { return w.cfg.FeedbackInterval }

// Run executes one calibration tick over a bounded batch.
func (w *FeedbackWorker) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-w.cfg.FeedbackMinAge)
	records, err := w.store.GetUnevaluatedRecords(ctx, cutoff, w.cfg.FeedbackBatchSize)
	if err != nil {
		return fmt.Errorf("failed to load unevaluated records: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	currentPrice, err := w.prices.AssetPrice(ctx, w.referenceAsset)
	if err != nil {
		return fmt.Errorf("reference price unavailable: %w", err)
	}

	graded := 0
	for _, rec := range records {
		if rec.MarketPriceAtRecording == nil || *rec.MarketPriceAtRecording == 0 {
			continue
		}
		recorded := *rec.MarketPriceAtRecording
		percentChange := (currentPrice - recorded) / recorded * 100
		correct := w.classify(rec.NormalizedScore, percentChange)

		if err := w.store.SetFeedback(ctx, rec.ID, percentChange, correct); err != nil {
			log.Printf("Failed to grade record %d: %v", rec.ID, err)
			continue
		}
		result := "incorrect"
		if correct {
			result = "correct"
		}
		metrics.FeedbackEvaluations.WithLabelValues(result).Inc()
		graded++
	}

	log.Printf("Feedback tick done: graded %d/%d records", graded, len(records))
	return nil
}

// classify grades one prediction. Scores above the bullish floor predicted a
// rise, below the bearish ceiling a fall, and the band between them predicted
// stability. The thresholds are asymmetric and tuned by trial; they live in
// config, not here.
func (w *FeedbackWorker) classify(score int, percentChange float64) bool {
	switch {
	case score > w.cfg.BullishScoreFloor:
		return percentChange > w.cfg.BullishMovePct
	case score < w.cfg.BearishScoreCeiling:
		return percentChange < w.cfg.BearishMovePct
	default:
		return math.Abs(percentChange) < w.cfg.NeutralBandPct
	}
}
