// Package portfolio maintains user strategy allocations. The normalizer is
// the only mutation path for layer weights: whenever an allocation has
// layers, their weights sum to 100.
package portfolio

import (
	"fmt"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

const (
	// TotalWeight is the full allocation mass per asset.
	TotalWeight = 100.0

	// WeightTolerance is the floating point slack on the sum invariant.
	WeightTolerance = 1e-6

	// newcomerWeight is the share a newly added layer takes from siblings.
	newcomerWeight = 50.0
)

// AddLayer appends a new layer. The first layer takes the whole allocation;
// later additions take half, uniformly shrinking the rest.
func AddLayer(layers []models.StrategyLayer, layer models.StrategyLayer) []models.StrategyLayer {
	out := copyLayers(layers)
	if len(out) == 0 {
		layer.Weight = TotalWeight
		return append(out, layer)
	}

	scale := (TotalWeight - newcomerWeight) / TotalWeight
	for i := range out {
		out[i].Weight *= scale
	}
	layer.Weight = newcomerWeight
	return append(out, layer)
}

// UpdateLayerWeight sets layer layerID to weight (clamped to [0, 100]) and
// redistributes the remaining mass across the other layers proportionally to
// their prior shares, or equally when their prior total was zero.
func UpdateLayerWeight(layers []models.StrategyLayer, layerID int, weight float64) ([]models.StrategyLayer, error) {
	out := copyLayers(layers)

	target := -1
	for i := range out {
		if out[i].ID == layerID {
			target = i
			break
		}
	}
	if target == -1 {
		return nil, fmt.Errorf("layer %d not found", layerID)
	}

	// A sole layer always carries the whole allocation; there are no
	// siblings to absorb the difference.
	if len(out) == 1 {
		out[0].Weight = TotalWeight
		return out, nil
	}

	if weight < 0 {
		weight = 0
	}
	if weight > TotalWeight {
		weight = TotalWeight
	}

	var othersTotal float64
	for i := range out {
		if i != target {
			othersTotal += out[i].Weight
		}
	}

	out[target].Weight = weight
	remaining := TotalWeight - weight
	others := len(out) - 1

	for i := range out {
		if i == target {
			continue
		}
		if othersTotal > 0 {
			out[i].Weight = out[i].Weight / othersTotal * remaining
		} else {
			out[i].Weight = remaining / float64(others)
		}
	}
	return out, nil
}

// RemoveLayer drops layer layerID and rescales the remainder back to 100.
// Removing the last layer leaves the allocation with no strategy assigned.
func RemoveLayer(layers []models.StrategyLayer, layerID int) []models.StrategyLayer {
	out := make([]models.StrategyLayer, 0, len(layers))
	for _, l := range layers {
		if l.ID != layerID {
			out = append(out, l)
		}
	}
	if len(out) == 0 || len(out) == len(layers) {
		return out
	}

	var sum float64
	for _, l := range out {
		sum += l.Weight
	}
	if sum <= 0 {
		// Degenerate prior state; split equally rather than divide by zero.
		equal := TotalWeight / float64(len(out))
		for i := range out {
			out[i].Weight = equal
		}
		return out
	}

	scale := TotalWeight / sum
	for i := range out {
		out[i].Weight *= scale
	}
	return out
}

// WeightSum returns the total weight across layers.
func WeightSum(layers []models.StrategyLayer) float64 {
	var sum float64
	for _, l := range layers {
		sum += l.Weight
	}
	return sum
}

// Normalized reports whether the sum invariant holds for the layer list.
func Normalized(layers []models.StrategyLayer) bool {
	if len(layers) == 0 {
		return true
	}
	diff := WeightSum(layers) - TotalWeight
	return diff > -WeightTolerance && diff < WeightTolerance
}

// Renormalize rescales a non-empty layer list back to 100. Defensive repair
// for reads of state written before the normalizer owned all mutations; not
// a substitute for correct writes.
func Renormalize(layers []models.StrategyLayer) []models.StrategyLayer {
	if len(layers) == 0 || Normalized(layers) {
		return layers
	}
	out := copyLayers(layers)
	sum := WeightSum(out)
	if sum <= 0 {
		equal := TotalWeight / float64(len(out))
		for i := range out {
			out[i].Weight = equal
		}
		return out
	}
	for i := range out {
		out[i].Weight *= TotalWeight / sum
	}
	return out
}

func copyLayers(layers []models.StrategyLayer) []models.StrategyLayer {
	out := make([]models.StrategyLayer, len(layers))
	copy(out, layers)
	return out
}
