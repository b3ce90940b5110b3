package workflow

import (
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/garments_backend/models"
	"github.com/shopspring/decimal"
)

func TestResolveAssortedItemsCreatesTargetRow(t *testing.T) {
	items := models.OrderItems{
		{Reference: "CAM-01", Color: models.AssortedColor, GridType: models.GridTypeAdult,
			Sizes: models.SizeMap{"P": 6, "M": 4}, UnitPrice: decimal.NewFromInt(25)},
	}

	out, err := ResolveAssortedItems(items, 0, "Azul", models.SizeMap{"P": 2})
	if err != nil {
		t.Fatalf("ResolveAssortedItems: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 items, got %d", len(out))
	}
	if out[0].Sizes["P"] != 4 {
		t.Fatalf("placeholder P = %d, want 4", out[0].Sizes["P"])
	}

	target := out[1]
	if target.Color != "Azul" || target.Sizes["P"] != 2 || target.Picked["P"] != 2 {
		t.Fatalf("unexpected target row: %+v", target)
	}
	if !target.UnitPrice.Equal(decimal.NewFromInt(25)) || target.GridType != models.GridTypeAdult {
		t.Fatalf("target row did not inherit price and grid: %+v", target)
	}
	if items[0].Sizes["P"] != 6 {
		t.Fatal("input items were mutated")
	}
}

func TestResolveAssortedItemsMergesIntoExistingRow(t *testing.T) {
	items := models.OrderItems{
		{Reference: "CAM-01", Color: models.AssortedColor, Sizes: models.SizeMap{"M": 5}},
		{Reference: "CAM-01", Color: "Rosa", Sizes: models.SizeMap{"M": 3}, Picked: models.SizeMap{"M": 3}},
	}

	out, err := ResolveAssortedItems(items, 0, "Rosa", models.SizeMap{"M": 2})
	if err != nil {
		t.Fatalf("ResolveAssortedItems: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 items, got %d", len(out))
	}
	rosa := out[1]
	if rosa.Sizes["M"] != 5 || rosa.Picked["M"] != 5 {
		t.Fatalf("merge failed: sizes=%v picked=%v", rosa.Sizes, rosa.Picked)
	}
}

func TestResolveAssortedItemsRemovesDrainedPlaceholder(t *testing.T) {
	items := models.OrderItems{
		{Reference: "CAM-01", Color: models.AssortedColor, Sizes: models.SizeMap{"G": 3}},
	}

	out, err := ResolveAssortedItems(items, 0, "Preto", models.SizeMap{"G": 3})
	if err != nil {
		t.Fatalf("ResolveAssortedItems: %v", err)
	}
	if len(out) != 1 || out[0].Color != "Preto" {
		t.Fatalf("drained placeholder not removed: %+v", out)
	}
}

func TestResolveAssortedItemsRejectsBadInput(t *testing.T) {
	items := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 2}},
		{Reference: "CAM-01", Color: models.AssortedColor, Sizes: models.SizeMap{"P": 2}},
	}

	if _, err := ResolveAssortedItems(items, 0, "Preto", models.SizeMap{"P": 1}); !errors.Is(err, models.ErrNotAssortedItem) {
		t.Fatalf("expected ErrNotAssortedItem, got %v", err)
	}
	if _, err := ResolveAssortedItems(items, 1, models.AssortedColor, models.SizeMap{"P": 1}); err == nil {
		t.Fatal("resolving to the assorted color must fail")
	}
	if _, err := ResolveAssortedItems(items, 1, "Preto", models.SizeMap{}); !errors.Is(err, models.ErrEmptyDistribution) {
		t.Fatalf("expected ErrEmptyDistribution, got %v", err)
	}
	if _, err := ResolveAssortedItems(items, 1, "Preto", models.SizeMap{"P": 5}); err == nil {
		t.Fatal("moving more than remains must fail")
	}
	if _, err := ResolveAssortedItems(items, 9, "Preto", models.SizeMap{"P": 1}); err == nil {
		t.Fatal("out of range index must fail")
	}
}
