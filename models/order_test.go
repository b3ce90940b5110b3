package models_test

import (
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/garments_backend/models"
	"github.com/shopspring/decimal"
)

func discountType(t models.DiscountType) *models.DiscountType {
	return &t
}

func TestRecalculateTotalsPercentDiscount(t *testing.T) {
	order := models.Order{
		Items: models.OrderItems{
			{Reference: "A", Color: "Azul", Sizes: models.SizeMap{"P": 2, "M": 3}, UnitPrice: decimal.NewFromInt(20)},
			{Reference: "B", Color: "Rosa", Sizes: models.SizeMap{"G": 5}, UnitPrice: decimal.NewFromInt(10)},
		},
		DiscountType:  discountType(models.DiscountTypePercent),
		DiscountValue: decimal.NewFromInt(10),
	}
	order.RecalculateTotals()

	if order.TotalPieces != 10 {
		t.Fatalf("TotalPieces = %d, want 10", order.TotalPieces)
	}
	if !order.SubtotalValue.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("SubtotalValue = %s, want 150", order.SubtotalValue)
	}
	if !order.FinalTotalValue.Equal(decimal.NewFromInt(135)) {
		t.Fatalf("FinalTotalValue = %s, want 135", order.FinalTotalValue)
	}
}

func TestRecalculateTotalsFixedDiscountFloorsAtZero(t *testing.T) {
	order := models.Order{
		Items: models.OrderItems{
			{Reference: "A", Color: "Azul", Sizes: models.SizeMap{"P": 1}, UnitPrice: decimal.NewFromInt(30)},
		},
		DiscountType:  discountType(models.DiscountTypeFixed),
		DiscountValue: decimal.NewFromInt(50),
	}
	order.RecalculateTotals()

	if !order.FinalTotalValue.IsZero() {
		t.Fatalf("FinalTotalValue = %s, want 0", order.FinalTotalValue)
	}
}

func TestValidateOrderItemsRejectsPickedAboveOrdered(t *testing.T) {
	err := models.ValidateOrderItems(models.OrderItems{
		{Reference: "A", Color: "Azul", Sizes: models.SizeMap{"M": 2}, Picked: models.SizeMap{"M": 3}},
	})
	if !errors.Is(err, models.ErrPickedExceedsOrder) {
		t.Fatalf("expected ErrPickedExceedsOrder, got %v", err)
	}
}

func TestValidateOrderItemsRejectsEmptyList(t *testing.T) {
	if err := models.ValidateOrderItems(nil); !errors.Is(err, models.ErrOrderHasNoItems) {
		t.Fatalf("expected ErrOrderHasNoItems, got %v", err)
	}
}

func TestValidateOrderItemsPrunesZeroSizes(t *testing.T) {
	items := models.OrderItems{
		{Reference: "A", Color: "Azul", Sizes: models.SizeMap{"P": 3, "M": 0, "G": -1}},
	}
	if err := models.ValidateOrderItems(items); err != nil {
		t.Fatalf("ValidateOrderItems: %v", err)
	}
	if len(items[0].Sizes) != 1 || items[0].Sizes["P"] != 3 {
		t.Fatalf("sizes not pruned: %v", items[0].Sizes)
	}
}

func TestOrderItemSubtotalBeforePickingUsesOrdered(t *testing.T) {
	item := models.OrderItem{
		Reference: "A", Color: "Azul",
		Sizes:     models.SizeMap{"P": 2, "M": 3},
		UnitPrice: decimal.RequireFromString("19.90"),
	}
	if got := item.Subtotal(); !got.Equal(decimal.RequireFromString("99.50")) {
		t.Fatalf("Subtotal = %s, want 99.50", got)
	}
}

func TestOrderItemSubtotalSwitchesToPickedCount(t *testing.T) {
	item := models.OrderItem{
		Reference: "A", Color: "Azul",
		Sizes:     models.SizeMap{"P": 2, "M": 3},
		Picked:    models.SizeMap{"P": 1},
		UnitPrice: decimal.RequireFromString("19.90"),
	}
	if got := item.Subtotal(); !got.Equal(decimal.RequireFromString("19.90")) {
		t.Fatalf("Subtotal = %s, want 19.90", got)
	}

	// an empty picked map means picking started but nothing is separated yet
	item.Picked = models.SizeMap{}
	if got := item.Subtotal(); !got.Equal(decimal.RequireFromString("99.50")) {
		t.Fatalf("Subtotal with empty picked = %s, want ordered-based 99.50", got)
	}
}

func TestRecalculateTotalsMidPickingBillsSeparatedPieces(t *testing.T) {
	order := models.Order{
		Items: models.OrderItems{
			{Reference: "A", Color: "Azul", Sizes: models.SizeMap{"M": 10}, Picked: models.SizeMap{"M": 4}, UnitPrice: decimal.NewFromInt(30)},
		},
	}
	order.RecalculateTotals()

	if order.TotalPieces != 10 {
		t.Fatalf("TotalPieces = %d, want ordered count 10", order.TotalPieces)
	}
	if !order.SubtotalValue.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("SubtotalValue = %s, want picked-based 120", order.SubtotalValue)
	}
}
