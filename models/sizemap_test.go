package models_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/garments_backend/models"
)

func TestSizeMapSubCanGoNegativeAndPruneDrops(t *testing.T) {
	m := models.SizeMap{"P": 2, "M": 5}
	m.Sub(models.SizeMap{"P": 3, "M": 5})
	if m["P"] != -1 {
		t.Fatalf("P = %d, want -1", m["P"])
	}
	m.Prune()
	if len(m) != 0 {
		t.Fatalf("prune left entries: %v", m)
	}
}

func TestSizeMapIsEmptyIgnoresNonPositive(t *testing.T) {
	if (models.SizeMap{"P": 0, "M": -2}).IsEmpty() != true {
		t.Fatal("map with no positive counts should be empty")
	}
	if (models.SizeMap{"P": 1}).IsEmpty() {
		t.Fatal("map with a positive count should not be empty")
	}
	var nilMap models.SizeMap
	if !nilMap.IsEmpty() {
		t.Fatal("nil map should be empty")
	}
}

func TestSizeMapCloneIsIndependent(t *testing.T) {
	m := models.SizeMap{"G": 4}
	clone := m.Clone()
	clone["G"] = 99
	if m["G"] != 4 {
		t.Fatalf("clone shares storage with original")
	}
}

func TestOrderItemsScanRoundTrip(t *testing.T) {
	items := models.OrderItems{
		{Reference: "CAM-01", Color: "Azul", Sizes: models.SizeMap{"P": 2}},
	}
	raw, err := items.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	var out models.OrderItems
	if err := out.Scan(raw); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(out) != 1 || out[0].Reference != "CAM-01" || out[0].Sizes["P"] != 2 {
		t.Fatalf("round trip lost data: %+v", out)
	}
}
