package workflow

import (
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/garments_backend/models"
)

func TestApplyPickingRecordsCounts(t *testing.T) {
	items := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 4, "M": 2}, Picked: models.SizeMap{"P": 3}},
		{Reference: "CAM-01", Color: "Preto", Sizes: models.SizeMap{"G": 3}, Picked: models.SizeMap{"G": 1}},
	}

	out, err := ApplyPicking(items)
	if err != nil {
		t.Fatalf("ApplyPicking: %v", err)
	}
	if out[0].Picked["P"] != 3 {
		t.Fatalf("first item picked = %v, want P:3", out[0].Picked)
	}
	if out[1].Picked["G"] != 1 {
		t.Fatalf("second item picked = %v, want G:1", out[1].Picked)
	}
	if len(out[0].Picked) != 1 {
		t.Fatalf("unpicked sizes should not appear, got %v", out[0].Picked)
	}
}

func TestApplyPickingAcceptsRevisedRows(t *testing.T) {
	// one save can change ordered quantities and add rows alongside counts
	items := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 6}, Picked: models.SizeMap{"P": 2}},
		{Reference: "CAM-02", Color: "Rosa", Sizes: models.SizeMap{"M": 3}},
	}

	out, err := ApplyPicking(items)
	if err != nil {
		t.Fatalf("ApplyPicking: %v", err)
	}
	if out[0].Sizes["P"] != 6 || out[0].Picked["P"] != 2 {
		t.Fatalf("revised row = %+v, want P:6 ordered, P:2 picked", out[0])
	}
	if out[1].Picked == nil || len(out[1].Picked) != 0 {
		t.Fatalf("added row should start picking with an empty map, got %v", out[1].Picked)
	}
	if items[1].Picked != nil {
		t.Fatal("input items were mutated")
	}
}

func TestApplyPickingRejectsOverOrdered(t *testing.T) {
	items := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 2}, Picked: models.SizeMap{"P": 3}},
	}
	_, err := ApplyPicking(items)
	if !errors.Is(err, models.ErrPickedExceedsOrder) {
		t.Fatalf("expected ErrPickedExceedsOrder, got %v", err)
	}
}

func TestApplyPickingRejectsEmptyList(t *testing.T) {
	if _, err := ApplyPicking(nil); !errors.Is(err, models.ErrOrderHasNoItems) {
		t.Fatalf("expected ErrOrderHasNoItems, got %v", err)
	}
}

func TestApplyPickingEmptyCountMarksPickingStarted(t *testing.T) {
	items := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 2}},
	}
	out, err := ApplyPicking(items)
	if err != nil {
		t.Fatalf("ApplyPicking: %v", err)
	}
	if out[0].Picked == nil || len(out[0].Picked) != 0 {
		t.Fatalf("expected empty non-nil picked map, got %v", out[0].Picked)
	}
}
