package usecases

import (
	"github.com/shopspring/decimal"
	"prop-vault.backend/internal/domain/entities"
)

// CommissionResult is the outcome of a commission computation.
type CommissionResult struct {
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

// ComputeCommission computes the commission earned on a referred purchase
// under a settings snapshot. Returns ok=false when the purchase is
// ineligible: program disabled, affiliate disabled, or a non-positive
// purchase amount. Pure over the snapshot; callers capture settings once
// per operation.
//
// Amounts are rounded to currency precision with banker's rounding so
// repeated commissions don't drift in either direction.
func ComputeCommission(snap entities.CommissionSnapshot, purchaseAmount decimal.Decimal) (CommissionResult, bool) {
	if !snap.Eligible() {
		return CommissionResult{}, false
	}
	if !purchaseAmount.IsPositive() {
		return CommissionResult{}, false
	}

	rate := snap.Rate()
	amount := purchaseAmount.Mul(rate).RoundBank(2)
	if !amount.IsPositive() {
		return CommissionResult{}, false
	}

	return CommissionResult{Rate: rate, Amount: amount}, true
}
