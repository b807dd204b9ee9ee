package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/engine"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/metrics"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

// SentimentSource synthesizes a sentiment record on demand.
type SentimentSource interface {
	Synthesize(ctx context.Context, actx models.AnalysisContext, bypassCache bool) (*models.SentimentRecord, error)
}

// RebalanceStore is the persistence surface of one orchestrator tick.
type RebalanceStore interface {
	CreateSentimentRecord(ctx context.Context, rec *models.SentimentRecord) error
	GetAllAllocations(ctx context.Context) ([]*models.Allocation, error)
	CreateRebalanceEvent(ctx context.Context, ev *models.RebalanceEvent) error
	UpdateRebalanceStatus(ctx context.Context, eventID int, status models.RebalanceStatus, errorMessage string) error
}

// EventPublisher announces recorded rebalances downstream.
type EventPublisher interface {
	PublishRebalanceExecuted(ctx context.Context, ev *models.RebalanceEvent) error
}

// RebalanceWorker is the orchestrator: on every tick it synthesizes a fresh
// sentiment record, persists it, and records a paper-trade rebalance for
// every allocation with at least one active layer.
type RebalanceWorker struct {
	synth     SentimentSource
	store     RebalanceStore
	publisher EventPublisher // may be nil when Kafka is down
	interval  time.Duration
}

// NewRebalanceWorker creates the orchestrator job.
func NewRebalanceWorker(synth SentimentSource, store RebalanceStore, publisher EventPublisher, interval time.Duration) *RebalanceWorker {
	return &RebalanceWorker{
		synth:     synth,
		store:     store,
		publisher: publisher,
		interval:  interval,
	}
}

// Name implements Worker
func (w *RebalanceWorker) Name() string { return "rebalance-orchestrator" }

// Interval implements Worker
func (w *RebalanceWorker) Interval() time.Duration { return w.interval }

// Run executes one orchestrator tick. The scheduler tick always recomputes:
// stale cached sentiment must not drive rebalances.
func (w *RebalanceWorker) Run(ctx context.Context) error {
	rec, err := w.synth.Synthesize(ctx, models.AnalysisContext{}, true)
	if err != nil {
		return fmt.Errorf("sentiment synthesis failed: %w", err)
	}
	if err := w.store.CreateSentimentRecord(ctx, rec); err != nil {
		return fmt.Errorf("failed to persist sentiment record: %w", err)
	}

	allocations, err := w.store.GetAllAllocations(ctx)
	if err != nil {
		return fmt.Errorf("failed to load allocations: %w", err)
	}

	executed := 0
	for _, alloc := range allocations {
		if w.evaluateAllocation(ctx, alloc, rec) {
			executed++
		}
	}

	log.Printf("Rebalance tick done: score=%d label=%s, %d/%d allocations executed",
		rec.NormalizedScore, rec.Label, executed, len(allocations))
	return nil
}

// evaluateAllocation records the outcome for one allocation. Failures are
// isolated: a bad allocation is logged and the batch moves on.
func (w *RebalanceWorker) evaluateAllocation(ctx context.Context, alloc *models.Allocation, rec *models.SentimentRecord) bool {
	active := engine.ActiveStrategies(alloc, rec)
	if len(active) == 0 {
		return false
	}

	ev := &models.RebalanceEvent{
		AllocationID:     alloc.ID,
		Ecosystem:        alloc.Ecosystem,
		AssetID:          alloc.AssetID,
		TriggerType:      models.TriggerSentimentAuto,
		SentimentScore:   rec.NormalizedScore,
		SentimentLabel:   rec.Label,
		ActiveStrategies: active,
		Status:           models.RebalancePending,
		ExecutedAt:       time.Now().UTC(),
	}

	if err := w.store.CreateRebalanceEvent(ctx, ev); err != nil {
		metrics.RebalanceEvents.WithLabelValues(string(models.RebalanceFailed)).Inc()
		log.Printf("Failed to record rebalance for allocation %d: %v", alloc.ID, err)
		return false
	}

	status, errMsg := models.RebalanceSuccess, ""
	if w.publisher != nil {
		if err := w.publisher.PublishRebalanceExecuted(ctx, ev); err != nil {
			status, errMsg = models.RebalanceFailed, err.Error()
			log.Printf("Failed to publish rebalance for allocation %d: %v", alloc.ID, err)
		}
	}

	if err := w.store.UpdateRebalanceStatus(ctx, ev.ID, status, errMsg); err != nil {
		log.Printf("Failed to finalize rebalance event %d: %v", ev.ID, err)
	}
	ev.Status = status
	ev.ErrorMessage = errMsg
	metrics.RebalanceEvents.WithLabelValues(string(status)).Inc()
	return true
}
