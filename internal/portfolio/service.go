package portfolio

import (
	"context"
	"fmt"
	"log"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

// AllocationStore is the persistence surface the service needs. ReplaceLayers
// swaps an allocation's full layer list in one transaction so a failed write
// leaves the prior state untouched.
type AllocationStore interface {
	GetAllocation(ctx context.Context, id int) (*models.Allocation, error)
	ReplaceLayers(ctx context.Context, allocationID int, layers []models.StrategyLayer) ([]models.StrategyLayer, error)
}

// Service applies layer mutations through the normalizer and persists the
// result. Both the UI and the backend go through these operations.
type Service struct {
	store AllocationStore
}

// NewService creates an allocation mutation service.
func NewService(store AllocationStore) *Service {
	return &Service{store: store}
}

// AddLayer attaches a strategy to an allocation and returns the renormalized
// layer list.
func (s *Service) AddLayer(ctx context.Context, allocationID int, strategyID string, condition models.LayerCondition) ([]models.StrategyLayer, error) {
	if _, ok := models.StrategyByID(strategyID); !ok {
		return nil, fmt.Errorf("unknown strategy: %s", strategyID)
	}
	if !models.ValidCondition(string(condition)) {
		return nil, fmt.Errorf("unknown condition: %s", condition)
	}

	alloc, err := s.load(ctx, allocationID)
	if err != nil {
		return nil, err
	}

	layers := AddLayer(alloc.Layers, models.StrategyLayer{
		StrategyID: strategyID,
		Condition:  condition,
	})
	return s.store.ReplaceLayers(ctx, allocationID, layers)
}

// UpdateLayer changes a layer's weight and/or condition. A weight change
// redistributes the remaining mass across siblings.
func (s *Service) UpdateLayer(ctx context.Context, allocationID, layerID int, weight *float64, condition *models.LayerCondition) ([]models.StrategyLayer, error) {
	if weight == nil && condition == nil {
		return nil, fmt.Errorf("nothing to update")
	}
	if condition != nil && !models.ValidCondition(string(*condition)) {
		return nil, fmt.Errorf("unknown condition: %s", *condition)
	}

	alloc, err := s.load(ctx, allocationID)
	if err != nil {
		return nil, err
	}

	layers := alloc.Layers
	if weight != nil {
		layers, err = UpdateLayerWeight(layers, layerID, *weight)
		if err != nil {
			return nil, err
		}
	}
	if condition != nil {
		found := false
		for i := range layers {
			if layers[i].ID == layerID {
				layers[i].Condition = *condition
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("layer %d not found", layerID)
		}
	}
	return s.store.ReplaceLayers(ctx, allocationID, layers)
}

// RemoveLayer detaches a layer and rescales the survivors back to 100.
// Removing the last layer clears the allocation's strategy assignment.
func (s *Service) RemoveLayer(ctx context.Context, allocationID, layerID int) ([]models.StrategyLayer, error) {
	alloc, err := s.load(ctx, allocationID)
	if err != nil {
		return nil, err
	}

	layers := RemoveLayer(alloc.Layers, layerID)
	if len(layers) == len(alloc.Layers) {
		return nil, fmt.Errorf("layer %d not found", layerID)
	}
	return s.store.ReplaceLayers(ctx, allocationID, layers)
}

// load fetches the allocation and repairs any drifted weight sums before the
// mutation runs.
func (s *Service) load(ctx context.Context, allocationID int) (*models.Allocation, error) {
	alloc, err := s.store.GetAllocation(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	if !Normalized(alloc.Layers) {
		log.Printf("Allocation %d weights sum to %.4f, renormalizing on read",
			allocationID, WeightSum(alloc.Layers))
		alloc.Layers = Renormalize(alloc.Layers)
	}
	return alloc, nil
}
