package workflow

import (
	"testing"

	"bitbucket.org/mmdatafocus/garments_backend/models"
)

func TestSplitForPartialDelivery(t *testing.T) {
	items := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"M": 10}, Picked: models.SizeMap{"M": 4}},
	}

	delivered, remaining := SplitForPartialDelivery(items)

	if len(delivered) != 1 || delivered[0].Sizes["M"] != 4 {
		t.Fatalf("delivered = %+v, want M:4", delivered)
	}
	if delivered[0].Picked != nil {
		t.Fatalf("delivered picking state should reset, got %v", delivered[0].Picked)
	}
	if len(remaining) != 1 || remaining[0].Sizes["M"] != 6 {
		t.Fatalf("remaining = %+v, want M:6", remaining)
	}
	if remaining[0].Picked == nil || len(remaining[0].Picked) != 0 {
		t.Fatalf("remaining should start with empty picked map, got %v", remaining[0].Picked)
	}
}

func TestSplitForPartialDeliveryRoutesWholeItems(t *testing.T) {
	items := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 3}, Picked: models.SizeMap{"P": 3}},
		{Reference: "CAM-01", Color: "Preto", Sizes: models.SizeMap{"G": 2}},
		{Reference: "CAM-02", Color: models.AssortedColor, Sizes: models.SizeMap{"M": 5}},
	}

	delivered, remaining := SplitForPartialDelivery(items)

	if len(delivered) != 1 || delivered[0].Color != "Azul" {
		t.Fatalf("delivered = %+v, want only the fully picked item", delivered)
	}
	if len(remaining) != 2 {
		t.Fatalf("remaining = %+v, want the unpicked and assorted items", remaining)
	}
	for _, item := range remaining {
		if item.Sizes.Sum() == 0 {
			t.Fatalf("remainder item with no quantity: %+v", item)
		}
	}
}

func TestSplitForPartialDeliveryNothingPicked(t *testing.T) {
	items := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 3}},
	}
	delivered, remaining := SplitForPartialDelivery(items)
	if len(delivered) != 0 {
		t.Fatalf("delivered = %+v, want none", delivered)
	}
	if len(remaining) != 1 {
		t.Fatalf("remaining = %+v, want full order", remaining)
	}
}
