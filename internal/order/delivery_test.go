package order

import (
	"testing"

	"farmstore-backend/internal/models"
)

func TestEstimateDeliverySingleBatch(t *testing.T) {
	batches := []models.StockBatch{
		batch(1, 1, "10", "0", 10),
	}
	estimate, ok := EstimateDelivery(batches, Requirement{1: d("5")}, day(30))

	if !ok {
		t.Fatal("expected an estimate")
	}
	want := day(10 + ShippingLeadDays)
	if !estimate.Equal(want) {
		t.Errorf("expected %v, got %v", want, estimate)
	}
}

func TestEstimateDeliveryWaitsForEnoughSupply(t *testing.T) {
	// First batch alone cannot cover the requirement; the date comes from
	// the batch that completes the supply.
	batches := []models.StockBatch{
		batch(1, 1, "3", "0", 10),
		batch(2, 1, "5", "0", 15),
	}
	estimate, ok := EstimateDelivery(batches, Requirement{1: d("6")}, day(30))

	if !ok {
		t.Fatal("expected an estimate")
	}
	want := day(15 + ShippingLeadDays)
	if !estimate.Equal(want) {
		t.Errorf("expected %v, got %v", want, estimate)
	}
}

func TestEstimateDeliveryTakesLatestProduct(t *testing.T) {
	// The order ships whole: the product that is ready last decides.
	batches := []models.StockBatch{
		batch(1, 1, "10", "0", 8),
		batch(2, 2, "10", "0", 20),
	}
	estimate, ok := EstimateDelivery(batches, Requirement{1: d("2"), 2: d("2")}, day(30))

	if !ok {
		t.Fatal("expected an estimate")
	}
	want := day(20 + ShippingLeadDays)
	if !estimate.Equal(want) {
		t.Errorf("expected %v, got %v", want, estimate)
	}
}

func TestEstimateDeliveryIgnoresUnrequestedProducts(t *testing.T) {
	batches := []models.StockBatch{
		batch(1, 1, "10", "0", 10),
		batch(2, 9, "10", "0", 25),
	}
	estimate, ok := EstimateDelivery(batches, Requirement{1: d("5")}, day(30))

	if !ok {
		t.Fatal("expected an estimate")
	}
	want := day(10 + ShippingLeadDays)
	if !estimate.Equal(want) {
		t.Errorf("expected %v, got %v", want, estimate)
	}
}

func TestEstimateDeliveryDeadlineDoesNotMoveEstimate(t *testing.T) {
	// The deadline only splits in-time from later supply; the earliest
	// achievable date is a property of the batches alone.
	batches := []models.StockBatch{
		batch(1, 1, "3", "0", 10),
		batch(2, 1, "5", "0", 15),
	}
	req := Requirement{1: d("6")}

	tight, okTight := EstimateDelivery(batches, req, day(5))
	loose, okLoose := EstimateDelivery(batches, req, day(60))

	if !okTight || !okLoose {
		t.Fatal("expected estimates for both deadlines")
	}
	if !tight.Equal(loose) {
		t.Errorf("estimate moved with the deadline: %v vs %v", tight, loose)
	}
}

func TestEstimateDeliveryInsufficientSupply(t *testing.T) {
	batches := []models.StockBatch{
		batch(1, 1, "3", "0", 10),
	}
	_, ok := EstimateDelivery(batches, Requirement{1: d("10")}, day(30))

	if ok {
		t.Fatal("expected no estimate when supply never covers the requirement")
	}
}

func TestEstimateDeliveryMissingProduct(t *testing.T) {
	batches := []models.StockBatch{
		batch(1, 1, "10", "0", 10),
	}
	_, ok := EstimateDelivery(batches, Requirement{2: d("1")}, day(30))

	if ok {
		t.Fatal("expected no estimate for a product with no batches")
	}
}

func TestEstimateDeliveryUsesRemainingNotProduced(t *testing.T) {
	// Heavily allocated early batch cannot carry the requirement, so the
	// estimate comes from the later batch.
	batches := []models.StockBatch{
		batch(1, 1, "10", "9", 10),
		batch(2, 1, "10", "0", 18),
	}
	estimate, ok := EstimateDelivery(batches, Requirement{1: d("5")}, day(30))

	if !ok {
		t.Fatal("expected an estimate")
	}
	want := day(18 + ShippingLeadDays)
	if !estimate.Equal(want) {
		t.Errorf("expected %v, got %v", want, estimate)
	}
}

func TestEstimateDeliveryMinDateAfterThreshold(t *testing.T) {
	// Once enough supply has accumulated, later batches cannot push the
	// date backward below the threshold-crossing batch.
	batches := []models.StockBatch{
		batch(1, 1, "2", "0", 10),
		batch(2, 1, "4", "0", 14),
		batch(3, 1, "100", "0", 20),
	}
	estimate, ok := EstimateDelivery(batches, Requirement{1: d("6")}, day(30))

	if !ok {
		t.Fatal("expected an estimate")
	}
	want := day(14 + ShippingLeadDays)
	if !estimate.Equal(want) {
		t.Errorf("expected %v, got %v", want, estimate)
	}
}
