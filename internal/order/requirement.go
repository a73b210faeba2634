package order

import (
	"github.com/shopspring/decimal"
)

// RequirementItem is one requested line: a product and a positive quantity in
// kg. Quantities are validated upstream (cart creation or request parsing);
// the builder only sums them.
type RequirementItem struct {
	ProductID uint
	Quantity  decimal.Decimal
}

// Requirement maps productID to the total quantity the order needs.
type Requirement map[uint]decimal.Decimal

// BuildRequirement sums item quantities per product. Duplicate products in
// the input are summed, not overwritten.
func BuildRequirement(items []RequirementItem) Requirement {
	req := make(Requirement, len(items))
	for _, item := range items {
		req[item.ProductID] = req[item.ProductID].Add(item.Quantity)
	}
	return req
}

// Clone returns an independent copy so a dry-run scan cannot destroy the
// original requirement.
func (r Requirement) Clone() Requirement {
	out := make(Requirement, len(r))
	for productID, qty := range r {
		out[productID] = qty
	}
	return out
}
