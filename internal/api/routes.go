package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check and metrics
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Sentiment routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/sentiment", handler.GetSentiment).Methods("GET")
	api.HandleFunc("/sentiment/latest", handler.GetLatestSentiment).Methods("GET")
	api.HandleFunc("/strategies", handler.GetStrategies).Methods("GET")

	// Allocation routes
	api.HandleFunc("/allocations", handler.GetAllocations).Methods("GET")
	api.HandleFunc("/allocations", handler.CreateAllocation).Methods("POST")
	api.HandleFunc("/allocations/{id}/layers", handler.AddLayer).Methods("POST")
	api.HandleFunc("/allocations/{id}/layers/{layerID}", handler.UpdateLayer).Methods("PUT")
	api.HandleFunc("/allocations/{id}/layers/{layerID}", handler.RemoveLayer).Methods("DELETE")

	// Rebalance history
	api.HandleFunc("/rebalances", handler.GetRebalanceHistory).Methods("GET")

	return r
}
