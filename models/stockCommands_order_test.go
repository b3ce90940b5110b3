package models_test

import (
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/garments_backend/models"
)

func TestBuildItemKeyDoesNotCollide(t *testing.T) {
	a := models.BuildItemKey("AB-1", "C")
	b := models.BuildItemKey("AB", "1C")
	if a == b {
		t.Fatalf("keys collided: %q", a)
	}
	ref, color, ok := models.SplitItemKey(a)
	if !ok || ref != "AB-1" || color != "C" {
		t.Fatalf("SplitItemKey(%q) = %q, %q, %v", a, ref, color, ok)
	}
}

func TestComputeStockDeltasEnforcedFollowsOrdered(t *testing.T) {
	key := models.BuildItemKey("CAM-01", "Azul")
	enforce := map[string]bool{key: true}

	// create: nil -> items
	deltas := models.ComputeStockDeltas(nil, models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 4}},
	}, enforce)
	if got := deltas[key]["P"]; got != 4 {
		t.Fatalf("create delta P = %d, want 4", got)
	}

	// edit down: 4 -> 2 puts 2 back
	deltas = models.ComputeStockDeltas(
		models.OrderItems{{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 4}}},
		models.OrderItems{{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 2}}},
		enforce,
	)
	if got := deltas[key]["P"]; got != -2 {
		t.Fatalf("edit delta P = %d, want -2", got)
	}

	// delete: items -> nil releases everything
	deltas = models.ComputeStockDeltas(
		models.OrderItems{{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 2}}},
		nil, enforce,
	)
	if got := deltas[key]["P"]; got != -2 {
		t.Fatalf("delete delta P = %d, want -2", got)
	}
}

func TestComputeStockDeltasFreeStockFollowsPicked(t *testing.T) {
	key := models.BuildItemKey("CAM-02", "Preto")

	old := models.OrderItems{
		{Reference: "CAM-02", Color: "Preto", Sizes: models.SizeMap{"M": 10}},
	}
	picked := models.OrderItems{
		{Reference: "CAM-02", Color: "Preto", Sizes: models.SizeMap{"M": 10}, Picked: models.SizeMap{"M": 4}},
	}

	// ordering 10 pieces of a free-stock product moves nothing
	deltas := models.ComputeStockDeltas(nil, old, nil)
	if len(deltas) != 0 {
		t.Fatalf("free-stock order creation moved stock: %v", deltas)
	}

	// picking 4 moves 4
	deltas = models.ComputeStockDeltas(old, picked, nil)
	if got := deltas[key]["M"]; got != 4 {
		t.Fatalf("picking delta M = %d, want 4", got)
	}
}

func TestComputeStockDeltasSkipsAssortedAndZeroMovement(t *testing.T) {
	items := models.OrderItems{
		{Reference: "CAM-03", Color: models.AssortedColor, Sizes: models.SizeMap{"G": 12}},
		{Reference: "CAM-03", Color: "Rosa", Sizes: models.SizeMap{"G": 5}},
	}
	enforce := map[string]bool{models.BuildItemKey("CAM-03", "Rosa"): true}

	deltas := models.ComputeStockDeltas(items, items, enforce)
	if len(deltas) != 0 {
		t.Fatalf("identical snapshots produced movement: %v", deltas)
	}

	deltas = models.ComputeStockDeltas(nil, items, enforce)
	if _, ok := deltas[models.BuildItemKey("CAM-03", models.AssortedColor)]; ok {
		t.Fatal("assorted placeholder leaked into stock deltas")
	}
	if got := deltas[models.BuildItemKey("CAM-03", "Rosa")]["G"]; got != 5 {
		t.Fatalf("Rosa delta G = %d, want 5", got)
	}
}

func TestComputeStockDeltasCollapsesDuplicateRows(t *testing.T) {
	key := models.BuildItemKey("CAM-04", "Branco")
	items := models.OrderItems{
		{Reference: "CAM-04", Color: "Branco", Sizes: models.SizeMap{"P": 2}},
		{Reference: "CAM-04", Color: "Branco", Sizes: models.SizeMap{"P": 3, "M": 1}},
	}
	deltas := models.ComputeStockDeltas(nil, items, map[string]bool{key: true})
	if got := deltas[key]["P"]; got != 5 {
		t.Fatalf("duplicate rows P = %d, want 5", got)
	}
	if got := deltas[key]["M"]; got != 1 {
		t.Fatalf("duplicate rows M = %d, want 1", got)
	}
}

func TestValidateStockDeltasRejectsEnforcedShortfall(t *testing.T) {
	key := models.BuildItemKey("CAM-05", "Azul")
	deltas := map[string]models.SizeMap{key: {"P": 4, "M": -2}}
	products := map[string]*models.Product{
		key: {Reference: "CAM-05", Color: "Azul", EnforceStock: true, Stock: models.SizeMap{"P": 3}},
	}

	err := models.ValidateStockDeltas(deltas, products)
	var insufficient *models.StockInsufficientError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected StockInsufficientError, got %v", err)
	}
	if insufficient.Size != "P" || insufficient.Requested != 4 || insufficient.Available != 3 {
		t.Fatalf("unexpected error detail: %+v", insufficient)
	}
}

func TestValidateStockDeltasAllowsReleasesAndFreeStock(t *testing.T) {
	enforcedKey := models.BuildItemKey("CAM-06", "Azul")
	freeKey := models.BuildItemKey("CAM-06", "Preto")
	deltas := map[string]models.SizeMap{
		enforcedKey: {"P": -5},
		freeKey:     {"P": 100},
	}
	products := map[string]*models.Product{
		enforcedKey: {Reference: "CAM-06", Color: "Azul", EnforceStock: true, Stock: models.SizeMap{}},
		freeKey:     {Reference: "CAM-06", Color: "Preto", EnforceStock: false, Stock: models.SizeMap{"P": 1}},
	}
	if err := models.ValidateStockDeltas(deltas, products); err != nil {
		t.Fatalf("ValidateStockDeltas: %v", err)
	}
}
