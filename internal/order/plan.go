package order

import (
	"errors"
	"time"

	"farmstore-backend/internal/models"
)

var (
	// ErrInsufficientStock: the batch pool cannot cover the requirement.
	ErrInsufficientStock = errors.New("required quantity is not yet available")
	// ErrMissingProductAvailability: a requested product has no active batch.
	ErrMissingProductAvailability = errors.New("no active stock batches for a requested product")
)

// Plan is the outcome of evaluating an order before any write happens.
// An infeasible deadline is not an error: the order is still placed, pending
// confirmation, with no allocations.
type Plan struct {
	Feasible     bool
	DeliveryDate time.Time
}

// PlanOrder runs the availability check and the delivery estimate over a
// batch snapshot. Batches must be sorted by EndDate ascending. Detection
// happens entirely before persistence: callers only write once the plan is
// known.
func PlanOrder(batches []models.StockBatch, items []RequirementItem, maxDateRequired time.Time) (Plan, error) {
	req := BuildRequirement(items)

	availability := CheckAvailability(batches, req)
	if len(availability.MissingProducts) > 0 {
		return Plan{}, ErrMissingProductAvailability
	}
	if !availability.Satisfied {
		return Plan{}, ErrInsufficientStock
	}

	deliveryDate, ok := EstimateDelivery(batches, req, maxDateRequired)
	if !ok {
		return Plan{}, ErrInsufficientStock
	}

	return Plan{
		Feasible:     !deliveryDate.After(maxDateRequired),
		DeliveryDate: deliveryDate,
	}, nil
}
