package order

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(value string) decimal.Decimal {
	out, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return out
}

func TestBuildRequirementSumsDuplicates(t *testing.T) {
	req := BuildRequirement([]RequirementItem{
		{ProductID: 1, Quantity: d("2.5")},
		{ProductID: 2, Quantity: d("1")},
		{ProductID: 1, Quantity: d("0.5")},
	})

	if len(req) != 2 {
		t.Fatalf("expected 2 products, got %d", len(req))
	}
	if !req[1].Equal(d("3")) {
		t.Errorf("product 1: expected 3, got %s", req[1])
	}
	if !req[2].Equal(d("1")) {
		t.Errorf("product 2: expected 1, got %s", req[2])
	}
}

func TestRequirementCloneIsIndependent(t *testing.T) {
	req := Requirement{1: d("5")}
	clone := req.Clone()
	clone[1] = d("0")

	if !req[1].Equal(d("5")) {
		t.Errorf("original mutated through clone: got %s", req[1])
	}
}
