package order

import (
	"errors"
	"testing"
)

func TestPlanOrderFeasible(t *testing.T) {
	batches := batchPool([]batchSpec{
		{1, 1, "10", "0", 10},
	})
	plan, err := PlanOrder(batches, []RequirementItem{{ProductID: 1, Quantity: d("5")}}, day(20))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Feasible {
		t.Fatal("expected a feasible plan")
	}
	want := day(10 + ShippingLeadDays)
	if !plan.DeliveryDate.Equal(want) {
		t.Errorf("expected delivery %v, got %v", want, plan.DeliveryDate)
	}
}

func TestPlanOrderMissedDeadlineIsNotAnError(t *testing.T) {
	batches := batchPool([]batchSpec{
		{1, 1, "10", "0", 10},
	})
	// Deadline before the batch can ship.
	plan, err := PlanOrder(batches, []RequirementItem{{ProductID: 1, Quantity: d("5")}}, day(8))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Feasible {
		t.Fatal("expected an infeasible plan")
	}
	want := day(10 + ShippingLeadDays)
	if !plan.DeliveryDate.Equal(want) {
		t.Errorf("infeasible plan should still carry the estimate %v, got %v", want, plan.DeliveryDate)
	}
}

func TestPlanOrderInsufficientStock(t *testing.T) {
	batches := batchPool([]batchSpec{
		{1, 1, "3", "0", 10},
	})
	_, err := PlanOrder(batches, []RequirementItem{{ProductID: 1, Quantity: d("10")}}, day(30))

	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestPlanOrderMissingProduct(t *testing.T) {
	batches := batchPool([]batchSpec{
		{1, 1, "10", "0", 10},
	})
	_, err := PlanOrder(batches, []RequirementItem{
		{ProductID: 1, Quantity: d("1")},
		{ProductID: 99, Quantity: d("1")},
	}, day(30))

	if !errors.Is(err, ErrMissingProductAvailability) {
		t.Fatalf("expected ErrMissingProductAvailability, got %v", err)
	}
}

func TestPlanOrderMultiProductFeasibility(t *testing.T) {
	batches := batchPool([]batchSpec{
		{1, 1, "10", "0", 8},
		{2, 2, "10", "0", 20},
	})
	items := []RequirementItem{
		{ProductID: 1, Quantity: d("2")},
		{ProductID: 2, Quantity: d("2")},
	}

	// Deadline between the two products: the later product decides.
	plan, err := PlanOrder(batches, items, day(15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Feasible {
		t.Error("expected infeasible: product 2 ships after the deadline")
	}

	plan, err = PlanOrder(batches, items, day(25))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Feasible {
		t.Error("expected feasible with the later deadline")
	}
}
