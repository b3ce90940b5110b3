package workflow

import (
	"testing"

	"bitbucket.org/mmdatafocus/garments_backend/models"
)

func TestTruncateToPickedDropsUnpickedItems(t *testing.T) {
	items := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 4, "M": 2}, Picked: models.SizeMap{"P": 3}},
		{Reference: "CAM-01", Color: "Preto", Sizes: models.SizeMap{"G": 5}},
		{Reference: "CAM-02", Color: models.AssortedColor, Sizes: models.SizeMap{"M": 6}},
	}

	out := TruncateToPicked(items)

	if len(out) != 1 {
		t.Fatalf("expected 1 surviving item, got %d", len(out))
	}
	if out[0].Sizes["P"] != 3 || out[0].Sizes["M"] != 0 {
		t.Fatalf("ordered not truncated to picked: %v", out[0].Sizes)
	}
	if out[0].Picked["P"] != 3 {
		t.Fatalf("picked state lost: %v", out[0].Picked)
	}
}

func TestTruncateToPickedEmptyWhenNothingPicked(t *testing.T) {
	items := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 4}},
		{Reference: "CAM-01", Color: "Preto", Sizes: models.SizeMap{"G": 2}, Picked: models.SizeMap{}},
	}
	if out := TruncateToPicked(items); len(out) != 0 {
		t.Fatalf("expected empty result, got %+v", out)
	}
}
