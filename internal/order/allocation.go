package order

import (
	"farmstore-backend/internal/models"
	"github.com/shopspring/decimal"
)

// Allocate greedily assigns requirement items to batches. Both orderings are
// explicit inputs: batches must be sorted by EndDate ascending (earliest
// production first), and items are consumed in the given order, which decides
// priority between products competing for the same batches.
//
// The function is pure: batches are read-only snapshots. A working remaining
// map stands in for the batch counters so that a product appearing in two
// items cannot take the same stock twice. The caller applies the returned
// per-batch deltas atomically together with the allocation rows.
//
// A batch never gives out more than its remaining quantity, so the invariant
// QuantityAllocated <= QuantityProduced is preserved when deltas are applied.
func Allocate(batches []models.StockBatch, items []RequirementItem, orderID uint) ([]models.OrderBatchAllocation, map[uint]decimal.Decimal) {
	working := make(map[uint]decimal.Decimal, len(batches))
	for i := range batches {
		working[batches[i].ID] = batches[i].Remaining()
	}

	var allocations []models.OrderBatchAllocation
	// one row per (product, batch) pair, merged across duplicate items
	rowIndex := make(map[[2]uint]int)
	deltas := make(map[uint]decimal.Decimal)

	for _, item := range items {
		toAllocate := item.Quantity
		for i := range batches {
			batch := &batches[i]
			if batch.ProductID != item.ProductID {
				continue
			}
			if !toAllocate.IsPositive() {
				break
			}
			take := decimalMin(working[batch.ID], toAllocate)
			if !take.IsPositive() {
				continue
			}

			key := [2]uint{item.ProductID, batch.ID}
			if idx, ok := rowIndex[key]; ok {
				allocations[idx].QuantityAllocated = allocations[idx].QuantityAllocated.Add(take)
			} else {
				rowIndex[key] = len(allocations)
				allocations = append(allocations, models.OrderBatchAllocation{
					OrderID:           orderID,
					ProductID:         item.ProductID,
					BatchID:           batch.ID,
					QuantityAllocated: take,
				})
			}

			working[batch.ID] = working[batch.ID].Sub(take)
			deltas[batch.ID] = deltas[batch.ID].Add(take)
			toAllocate = toAllocate.Sub(take)
		}
	}

	return allocations, deltas
}

func decimalMin(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
