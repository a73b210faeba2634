package order

import (
	"time"

	"farmstore-backend/internal/models"
	"github.com/shopspring/decimal"
)

// ShippingLeadDays is the fixed gap between a batch's production end date and
// its earliest possible delivery.
const ShippingLeadDays = 2

type deliveryEntry struct {
	quantityAvailableInTime decimal.Decimal
	quantityAvailableLater  decimal.Decimal
	minDateForDelivery      *time.Time
}

// EstimateDelivery computes the earliest date on which the whole requirement
// can be delivered. Batches MUST be sorted by EndDate ascending; the
// min-candidate tracking depends on that order.
//
// For each batch the delivery candidate is EndDate + ShippingLeadDays. The
// batch's remaining quantity counts as "in time" when the candidate is on or
// before the requested deadline, "later" otherwise. Once the cumulative
// supply (in time + later) for a product reaches its required quantity, the
// product's minimum delivery date starts tracking the smallest candidate seen
// from that point on. Earlier candidates belonged to insufficient supply and
// are not considered.
//
// The order-wide date is the maximum across required products: the order is
// not deliverable until its last product is. ok is false when a required
// product never accumulates enough supply (the availability check catches
// this first in the normal flow).
func EstimateDelivery(batches []models.StockBatch, req Requirement, maxDateRequired time.Time) (time.Time, bool) {
	entries := make(map[uint]*deliveryEntry, len(req))

	for i := range batches {
		batch := &batches[i]
		entry, ok := entries[batch.ProductID]
		if !ok {
			entry = &deliveryEntry{}
			entries[batch.ProductID] = entry
		}

		candidate := batch.EndDate.AddDate(0, 0, ShippingLeadDays)
		remaining := batch.Remaining()
		if !candidate.After(maxDateRequired) {
			entry.quantityAvailableInTime = entry.quantityAvailableInTime.Add(remaining)
		} else {
			entry.quantityAvailableLater = entry.quantityAvailableLater.Add(remaining)
		}

		required, requested := req[batch.ProductID]
		if !requested {
			continue
		}
		cumulative := entry.quantityAvailableInTime.Add(entry.quantityAvailableLater)
		if cumulative.GreaterThanOrEqual(required) {
			if entry.minDateForDelivery == nil || candidate.Before(*entry.minDateForDelivery) {
				c := candidate
				entry.minDateForDelivery = &c
			}
		}
	}

	var earliest time.Time
	for productID := range req {
		entry, ok := entries[productID]
		if !ok || entry.minDateForDelivery == nil {
			return time.Time{}, false
		}
		if entry.minDateForDelivery.After(earliest) {
			earliest = *entry.minDateForDelivery
		}
	}
	return earliest, true
}
