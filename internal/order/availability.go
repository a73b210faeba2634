package order

import (
	"sort"

	"farmstore-backend/internal/models"
)

// AvailabilityResult reports whether the batch pool can cover a requirement.
// ShortProducts lists products with some stock but not enough;
// MissingProducts lists required products with no active batch at all.
type AvailabilityResult struct {
	Satisfied       bool
	ShortProducts   []uint
	MissingProducts []uint
}

// CheckAvailability dry-runs the greedy subtraction over a cloned
// requirement. Batch order does not change the outcome (only totals matter),
// but the scan mirrors the allocation pass for consistency. Neither the
// batches nor the original requirement are mutated.
func CheckAvailability(batches []models.StockBatch, req Requirement) AvailabilityResult {
	outstanding := req.Clone()
	seen := make(map[uint]bool, len(req))

	for i := range batches {
		batch := &batches[i]
		required, ok := outstanding[batch.ProductID]
		if !ok {
			continue
		}
		seen[batch.ProductID] = true
		if required.IsPositive() {
			take := decimalMin(batch.Remaining(), required)
			outstanding[batch.ProductID] = required.Sub(take)
		}
	}

	result := AvailabilityResult{Satisfied: true}
	for productID, remaining := range outstanding {
		if !seen[productID] {
			result.MissingProducts = append(result.MissingProducts, productID)
			result.Satisfied = false
			continue
		}
		if remaining.IsPositive() {
			result.ShortProducts = append(result.ShortProducts, productID)
			result.Satisfied = false
		}
	}
	sort.Slice(result.ShortProducts, func(i, j int) bool { return result.ShortProducts[i] < result.ShortProducts[j] })
	sort.Slice(result.MissingProducts, func(i, j int) bool { return result.MissingProducts[i] < result.MissingProducts[j] })
	return result
}
