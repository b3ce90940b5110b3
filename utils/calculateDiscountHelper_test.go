package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculateDiscountAmount(t *testing.T) {
	cases := []struct {
		subTotal     string
		discount     string
		discountType string
		expected     string
	}{
		{"200", "10", "P", "20"},
		{"150", "15", "F", "15"},
		{"150", "0", "P", "0"},
		{"150", "-5", "F", "0"},
	}
	for _, tc := range cases {
		got := CalculateDiscountAmount(
			decimal.RequireFromString(tc.subTotal),
			decimal.RequireFromString(tc.discount),
			tc.discountType,
		)
		if !got.Equal(decimal.RequireFromString(tc.expected)) {
			t.Fatalf("CalculateDiscountAmount(%s, %s, %s) = %s, want %s",
				tc.subTotal, tc.discount, tc.discountType, got, tc.expected)
		}
	}
}

func TestApportionFixedDiscountProportionalToSubtotal(t *testing.T) {
	// 60% of the order stays owed, so 60% of the discount goes with it
	got := ApportionFixedDiscount(
		decimal.NewFromInt(50),
		decimal.NewFromInt(1000),
		decimal.NewFromInt(600),
	)
	if !got.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("ApportionFixedDiscount = %s, want 30", got)
	}
}

func TestApportionFixedDiscountZeroSubtotal(t *testing.T) {
	got := ApportionFixedDiscount(decimal.NewFromInt(50), decimal.Zero, decimal.Zero)
	if !got.IsZero() {
		t.Fatalf("ApportionFixedDiscount with zero subtotal = %s, want 0", got)
	}
}
