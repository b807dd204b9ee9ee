package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/database"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/engine"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/kafka"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/portfolio"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/redis"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db          *database.DB
	synth       *engine.Synthesizer
	allocations *portfolio.Service
	producer    *kafka.Producer
	redis       *redis.Client
}

// NewHandler creates a new Handler
func NewHandler(db *database.DB, synth *engine.Synthesizer, allocations *portfolio.Service, producer *kafka.Producer, redisClient *redis.Client) *Handler {
	return &Handler{
		db:          db,
		synth:       synth,
		allocations: allocations,
		producer:    producer,
		redis:       redisClient,
	}
}

// GetSentiment handles GET /api/v1/sentiment. The plain call is served from
// the cache; context query parameters force a recomputation.
func (h *Handler) GetSentiment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	actx := models.AnalysisContext{
		DataSource:       models.DataSource(q.Get("source")),
		TimeHorizon:      models.TimeHorizon(q.Get("horizon")),
		AssetMaturity:    models.AssetMaturity(q.Get("maturity")),
		VolatilityRegime: models.VolatilityRegime(q.Get("volatility")),
	}
	if err := actx.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.synth.Synthesize(r.Context(), actx, false)
	if err != nil {
		// Retryable for the caller: the upstream market snapshot was down.
		http.Error(w, "sentiment temporarily unavailable, try again", http.StatusServiceUnavailable)
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// GetLatestSentiment handles GET /api/v1/sentiment/latest. Unlike the
// synthesis endpoint this reads the last persisted orchestrator record, so
// it keeps answering while the upstream providers are down.
func (h *Handler) GetLatestSentiment(w http.ResponseWriter, r *http.Request) {
	rec, err := h.db.GetLatestSentimentRecord(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// GetStrategies handles GET /api/v1/strategies
func (h *Handler) GetStrategies(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.StrategyCatalog)
}

// GetAllocations handles GET /api/v1/allocations?wallet=
func (h *Handler) GetAllocations(w http.ResponseWriter, r *http.Request) {
	wallet := r.URL.Query().Get("wallet")
	if wallet == "" {
		http.Error(w, "wallet is required", http.StatusBadRequest)
		return
	}

	allocations, err := h.db.GetAllocationsByWallet(r.Context(), wallet)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if allocations == nil {
		allocations = []*models.Allocation{}
	}

	respondJSON(w, http.StatusOK, allocations)
}

// CreateAllocation handles POST /api/v1/allocations
func (h *Handler) CreateAllocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WalletAddress string `json:"wallet_address"`
		AssetID       string `json:"asset_id"`
		Ecosystem     string `json:"ecosystem"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.WalletAddress == "" || req.AssetID == "" {
		http.Error(w, "wallet_address and asset_id are required", http.StatusBadRequest)
		return
	}
	if req.Ecosystem == "" {
		req.Ecosystem = "ethereum"
	}

	alloc := &models.Allocation{
		WalletAddress: req.WalletAddress,
		AssetID:       req.AssetID,
		Ecosystem:     req.Ecosystem,
	}
	if err := h.db.CreateAllocation(r.Context(), alloc); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, alloc)
}

// AddLayer handles POST /api/v1/allocations/{id}/layers
func (h *Handler) AddLayer(w http.ResponseWriter, r *http.Request) {
	allocationID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		StrategyID string `json:"strategy_id"`
		Condition  string `json:"condition"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.StrategyID == "" {
		http.Error(w, "strategy_id is required", http.StatusBadRequest)
		return
	}
	if req.Condition == "" {
		req.Condition = string(models.ConditionAlways)
	}

	layers, err := h.allocations.AddLayer(r.Context(), allocationID, req.StrategyID, models.LayerCondition(req.Condition))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusCreated, layers)
}

// UpdateLayer handles PUT /api/v1/allocations/{id}/layers/{layerID}
func (h *Handler) UpdateLayer(w http.ResponseWriter, r *http.Request) {
	allocationID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	layerID, ok := pathID(w, r, "layerID")
	if !ok {
		return
	}

	var req struct {
		Weight    *float64 `json:"weight,omitempty"`
		Condition *string  `json:"condition,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var condition *models.LayerCondition
	if req.Condition != nil {
		c := models.LayerCondition(*req.Condition)
		condition = &c
	}

	layers, err := h.allocations.UpdateLayer(r.Context(), allocationID, layerID, req.Weight, condition)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusOK, layers)
}

// RemoveLayer handles DELETE /api/v1/allocations/{id}/layers/{layerID}
func (h *Handler) RemoveLayer(w http.ResponseWriter, r *http.Request) {
	allocationID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	layerID, ok := pathID(w, r, "layerID")
	if !ok {
		return
	}

	layers, err := h.allocations.RemoveLayer(r.Context(), allocationID, layerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if layers == nil {
		layers = []models.StrategyLayer{}
	}

	respondJSON(w, http.StatusOK, layers)
}

// GetRebalanceHistory handles GET /api/v1/rebalances?wallet=&limit=&offset=
func (h *Handler) GetRebalanceHistory(w http.ResponseWriter, r *http.Request) {
	wallet := r.URL.Query().Get("wallet")
	if wallet == "" {
		http.Error(w, "wallet is required", http.StatusBadRequest)
		return
	}

	limit := defaultHistoryLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}

	events, err := h.db.GetRebalanceEvents(r.Context(), wallet, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []*models.RebalanceEvent{}
	}

	recent, err := h.db.CountRebalanceEventsSince(r.Context(), wallet, time.Now().Add(-24*time.Hour))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"events":    events,
		"limit":     limit,
		"offset":    offset,
		"total_24h": recent,
	})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  map[string]string{},
	}
	services := health["services"].(map[string]string)
	allHealthy := true

	// Check database
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			services["postgres"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			services["postgres"] = "healthy"
		}
	} else {
		services["postgres"] = "not configured"
		allHealthy = false
	}

	// Check Redis
	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			services["redis"] = "unhealthy: " + err.Error()
		} else {
			services["redis"] = "healthy"
		}
	} else {
		services["redis"] = "not configured"
	}

	// Check Kafka producer
	if h.producer != nil {
		services["kafka"] = "configured"
	} else {
		services["kafka"] = "not configured"
	}

	if !allHealthy {
		health["status"] = "degraded"
	}

	respondJSON(w, http.StatusOK, health)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
