package order

import (
	"testing"
	"time"

	"farmstore-backend/internal/models"
)

func day(yearDay int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, yearDay-1)
}

func batch(id, productID uint, produced, allocated string, endDay int) models.StockBatch {
	return models.StockBatch{
		ID:                id,
		ProductID:         productID,
		QuantityProduced:  d(produced),
		QuantityAllocated: d(allocated),
		StartDate:         day(endDay - 5),
		EndDate:           day(endDay),
		IsActive:          true,
	}
}

func TestCheckAvailabilitySatisfiedExactly(t *testing.T) {
	batches := []models.StockBatch{
		batch(1, 1, "10", "7", 10),
		batch(2, 1, "5", "3", 12),
	}
	// remaining: 3 + 2 = 5
	result := CheckAvailability(batches, Requirement{1: d("5")})

	if !result.Satisfied {
		t.Fatalf("expected satisfied, got short=%v missing=%v", result.ShortProducts, result.MissingProducts)
	}
}

func TestCheckAvailabilityShortProduct(t *testing.T) {
	batches := []models.StockBatch{
		batch(1, 1, "10", "8", 10),
	}
	result := CheckAvailability(batches, Requirement{1: d("5")})

	if result.Satisfied {
		t.Fatal("expected unsatisfied")
	}
	if len(result.ShortProducts) != 1 || result.ShortProducts[0] != 1 {
		t.Errorf("expected product 1 short, got %v", result.ShortProducts)
	}
	if len(result.MissingProducts) != 0 {
		t.Errorf("expected no missing products, got %v", result.MissingProducts)
	}
}

func TestCheckAvailabilityMissingProduct(t *testing.T) {
	batches := []models.StockBatch{
		batch(1, 1, "10", "0", 10),
	}
	result := CheckAvailability(batches, Requirement{1: d("5"), 2: d("1")})

	if result.Satisfied {
		t.Fatal("expected unsatisfied")
	}
	if len(result.MissingProducts) != 1 || result.MissingProducts[0] != 2 {
		t.Errorf("expected product 2 missing, got %v", result.MissingProducts)
	}
}

func TestCheckAvailabilityDoesNotMutateInputs(t *testing.T) {
	batches := []models.StockBatch{
		batch(1, 1, "10", "2", 10),
	}
	req := Requirement{1: d("5")}

	CheckAvailability(batches, req)

	if !req[1].Equal(d("5")) {
		t.Errorf("requirement mutated: got %s", req[1])
	}
	if !batches[0].QuantityAllocated.Equal(d("2")) {
		t.Errorf("batch mutated: got %s", batches[0].QuantityAllocated)
	}
}

func TestCheckAvailabilityMoreStockNeverHurts(t *testing.T) {
	base := []models.StockBatch{
		batch(1, 1, "10", "2", 10),
	}
	req := Requirement{1: d("8")}

	if !CheckAvailability(base, req).Satisfied {
		t.Fatal("base pool should satisfy the requirement")
	}

	// Appending batches, for the same product or another one, must never
	// flip a satisfiable requirement to unsatisfiable.
	grown := append(base,
		batch(2, 1, "5", "0", 15),
		batch(3, 2, "7", "1", 12),
	)
	if !CheckAvailability(grown, req).Satisfied {
		t.Error("requirement became unsatisfiable after adding batches")
	}
}

func TestCheckAvailabilityOrderIndependent(t *testing.T) {
	a := batch(1, 1, "10", "9", 10)
	b := batch(2, 1, "10", "5", 12)
	req := Requirement{1: d("6")}

	forward := CheckAvailability([]models.StockBatch{a, b}, req)
	backward := CheckAvailability([]models.StockBatch{b, a}, req)

	if forward.Satisfied != backward.Satisfied {
		t.Errorf("result depends on batch order: %v vs %v", forward.Satisfied, backward.Satisfied)
	}
}
