package workflow

import (
	"testing"

	"bitbucket.org/mmdatafocus/garments_backend/models"
)

func TestMergePickedStateCarriesAndClamps(t *testing.T) {
	old := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 4, "M": 4}, Picked: models.SizeMap{"P": 3, "M": 2}},
	}
	edited := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 2, "M": 4}},
	}

	MergePickedState(old, edited)

	if edited[0].Picked["P"] != 2 {
		t.Fatalf("P picked = %d, want clamped to 2", edited[0].Picked["P"])
	}
	if edited[0].Picked["M"] != 2 {
		t.Fatalf("M picked = %d, want 2", edited[0].Picked["M"])
	}
}

func TestMergePickedStateDropsRemovedItems(t *testing.T) {
	old := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 4}, Picked: models.SizeMap{"P": 3}},
	}
	edited := models.OrderItems{
		{Reference: "CAM-01", Color: "Preto", Sizes: models.SizeMap{"P": 4}},
	}

	MergePickedState(old, edited)

	if edited[0].Picked != nil {
		t.Fatalf("different color inherited picked state: %v", edited[0].Picked)
	}
}

func TestMergePickedStateClampsToZeroAsNil(t *testing.T) {
	old := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 4}, Picked: models.SizeMap{"P": 3}},
	}
	edited := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"M": 4}},
	}

	MergePickedState(old, edited)

	if edited[0].Picked != nil {
		t.Fatalf("fully clamped item should have nil picked, got %v", edited[0].Picked)
	}
}

func TestMergePickedStateAssignsFirstDuplicateOnly(t *testing.T) {
	old := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 4}, Picked: models.SizeMap{"P": 2}},
	}
	edited := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 4}},
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 4}},
	}

	MergePickedState(old, edited)

	if edited[0].Picked["P"] != 2 {
		t.Fatalf("first row picked = %v, want P:2", edited[0].Picked)
	}
	if edited[1].Picked != nil {
		t.Fatalf("second row should stay untouched, got %v", edited[1].Picked)
	}
}
