package order

import (
	"testing"

	"farmstore-backend/internal/models"

	"github.com/shopspring/decimal"
)

type batchSpec struct {
	id        uint
	productID uint
	produced  string
	allocated string
	endDay    int
}

func batchPool(specs []batchSpec) []models.StockBatch {
	out := make([]models.StockBatch, 0, len(specs))
	for _, s := range specs {
		out = append(out, batch(s.id, s.productID, s.produced, s.allocated, s.endDay))
	}
	return out
}

func TestAllocatePrefersEarliestBatch(t *testing.T) {
	batches := batchPool([]batchSpec{
		{1, 1, "10", "0", 10},
		{2, 1, "10", "0", 15},
	})
	allocations, deltas := Allocate(batches, []RequirementItem{{ProductID: 1, Quantity: d("4")}}, 7)

	if len(allocations) != 1 {
		t.Fatalf("expected 1 allocation row, got %d", len(allocations))
	}
	row := allocations[0]
	if row.BatchID != 1 || !row.QuantityAllocated.Equal(d("4")) {
		t.Errorf("expected 4 from batch 1, got %s from batch %d", row.QuantityAllocated, row.BatchID)
	}
	if row.OrderID != 7 {
		t.Errorf("expected order 7, got %d", row.OrderID)
	}
	if !deltas[1].Equal(d("4")) {
		t.Errorf("expected delta 4 for batch 1, got %s", deltas[1])
	}
	if _, ok := deltas[2]; ok {
		t.Error("batch 2 should be untouched")
	}
}

func TestAllocateSpillsToNextBatch(t *testing.T) {
	batches := batchPool([]batchSpec{
		{1, 1, "10", "8", 10}, // 2 remaining
		{2, 1, "10", "0", 15},
	})
	allocations, deltas := Allocate(batches, []RequirementItem{{ProductID: 1, Quantity: d("5")}}, 1)

	if len(allocations) != 2 {
		t.Fatalf("expected 2 allocation rows, got %d", len(allocations))
	}
	if !allocations[0].QuantityAllocated.Equal(d("2")) || allocations[0].BatchID != 1 {
		t.Errorf("first row: expected 2 from batch 1, got %s from batch %d",
			allocations[0].QuantityAllocated, allocations[0].BatchID)
	}
	if !allocations[1].QuantityAllocated.Equal(d("3")) || allocations[1].BatchID != 2 {
		t.Errorf("second row: expected 3 from batch 2, got %s from batch %d",
			allocations[1].QuantityAllocated, allocations[1].BatchID)
	}
	if !deltas[1].Equal(d("2")) || !deltas[2].Equal(d("3")) {
		t.Errorf("unexpected deltas: %v", deltas)
	}
}

func TestAllocateNeverExceedsRemaining(t *testing.T) {
	batches := batchPool([]batchSpec{
		{1, 1, "10", "8", 10},
		{2, 1, "5", "4", 15},
	})
	allocations, deltas := Allocate(batches, []RequirementItem{{ProductID: 1, Quantity: d("100")}}, 1)

	for i := range batches {
		delta := deltas[batches[i].ID]
		if delta.GreaterThan(batches[i].Remaining()) {
			t.Errorf("batch %d over-allocated: delta %s, remaining %s",
				batches[i].ID, delta, batches[i].Remaining())
		}
	}

	// With stock exhausted, the product gets exactly the pool's remaining
	// total: min(required, remaining) = min(100, 2+1) = 3.
	var total decimal.Decimal
	for _, row := range allocations {
		total = total.Add(row.QuantityAllocated)
	}
	if !total.Equal(d("3")) {
		t.Errorf("expected total allocation 3, got %s", total)
	}
}

func TestAllocateMergesDuplicateItems(t *testing.T) {
	batches := batchPool([]batchSpec{
		{1, 1, "10", "0", 10},
	})
	allocations, deltas := Allocate(batches, []RequirementItem{
		{ProductID: 1, Quantity: d("2")},
		{ProductID: 1, Quantity: d("3")},
	}, 1)

	if len(allocations) != 1 {
		t.Fatalf("expected duplicate items merged into 1 row, got %d", len(allocations))
	}
	if !allocations[0].QuantityAllocated.Equal(d("5")) {
		t.Errorf("expected merged quantity 5, got %s", allocations[0].QuantityAllocated)
	}
	if !deltas[1].Equal(d("5")) {
		t.Errorf("expected delta 5, got %s", deltas[1])
	}
}

func TestAllocateDuplicateItemsCannotDoubleSpend(t *testing.T) {
	batches := batchPool([]batchSpec{
		{1, 1, "4", "0", 10},
		{2, 1, "10", "0", 15},
	})
	allocations, _ := Allocate(batches, []RequirementItem{
		{ProductID: 1, Quantity: d("3")},
		{ProductID: 1, Quantity: d("3")},
	}, 1)

	var fromFirst decimal.Decimal
	for _, row := range allocations {
		if row.BatchID == 1 {
			fromFirst = fromFirst.Add(row.QuantityAllocated)
		}
	}
	if fromFirst.GreaterThan(d("4")) {
		t.Errorf("batch 1 gave out %s but only holds 4", fromFirst)
	}
}

func TestAllocateItemOrderSetsPriority(t *testing.T) {
	// Two products compete for nothing here, but item order still shapes
	// which rows appear first.
	batches := batchPool([]batchSpec{
		{1, 2, "10", "0", 10},
		{2, 1, "10", "0", 12},
	})
	allocations, _ := Allocate(batches, []RequirementItem{
		{ProductID: 1, Quantity: d("1")},
		{ProductID: 2, Quantity: d("1")},
	}, 1)

	if len(allocations) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(allocations))
	}
	if allocations[0].ProductID != 1 {
		t.Errorf("expected product 1 allocated first, got %d", allocations[0].ProductID)
	}
}

func TestAllocateRowsMatchDeltas(t *testing.T) {
	batches := batchPool([]batchSpec{
		{1, 1, "5", "1", 10},
		{2, 1, "5", "0", 12},
		{3, 2, "8", "2", 14},
	})
	allocations, deltas := Allocate(batches, []RequirementItem{
		{ProductID: 1, Quantity: d("7")},
		{ProductID: 2, Quantity: d("4")},
	}, 1)

	perBatch := make(map[uint]decimal.Decimal)
	for _, row := range allocations {
		perBatch[row.BatchID] = perBatch[row.BatchID].Add(row.QuantityAllocated)
	}
	for batchID, delta := range deltas {
		if !perBatch[batchID].Equal(delta) {
			t.Errorf("batch %d: rows sum to %s but delta is %s", batchID, perBatch[batchID], delta)
		}
	}
	for batchID, sum := range perBatch {
		if _, ok := deltas[batchID]; !ok {
			t.Errorf("batch %d has rows summing %s but no delta", batchID, sum)
		}
	}
}
