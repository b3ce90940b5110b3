package utils

import (
	"github.com/shopspring/decimal"
)

func CalculateDiscountAmount(subTotal decimal.Decimal, discount decimal.Decimal, discountType string) decimal.Decimal {

	var discountAmount decimal.Decimal

	decimalOneHundred := decimal.NewFromFloat(100)

	if discount.GreaterThan(decimal.NewFromFloat(0.0)) {
		if discountType == "P" {
			discountAmount = subTotal.Mul(discount).DivRound(decimalOneHundred, 4)
		} else {
			discountAmount = discount
		}
	} else {
		discountAmount = decimal.NewFromFloat(0.0)
	}

	return discountAmount
}

// ApportionFixedDiscount splits a fixed-amount discount when an order is
// split for partial delivery. The remainder order carries the share
// proportional to its subtotal; the delivered order keeps the rest.
func ApportionFixedDiscount(discount decimal.Decimal, originalSubtotal decimal.Decimal, remainingSubtotal decimal.Decimal) decimal.Decimal {
	if originalSubtotal.IsZero() || !discount.IsPositive() {
		return decimal.Zero
	}
	ratio := remainingSubtotal.DivRound(originalSubtotal, 8)
	return discount.Mul(ratio).Round(2)
}
