package models

import (
	"context"
	"sort"
	"strings"

	"bitbucket.org/mmdatafocus/garments_backend/config"
	"gorm.io/gorm"
)

// Stock reconciliation for orders.
//
// Every order mutation goes through ReconcileOrderStock with the order's item
// list before and after the change. The stock movement is the diff between
// the two snapshots, so create is reconcile(nil, items) and delete is
// reconcile(items, nil). What counts as "consumed" depends on the product:
//
//   enforce_stock  -> ordered quantities reserve stock at order time
//   free stock     -> stock only moves when pieces are physically picked
//
// Assorted (SORTIDO) items are invisible here until resolved to real colors.

const itemKeySep = "\x00"

// BuildItemKey joins reference and color with a separator that cannot appear
// in either field, so AB-1+"C" and AB+"1C" never collide.
func BuildItemKey(reference string, color string) string {
	return reference + itemKeySep + color
}

func SplitItemKey(key string) (reference string, color string, ok bool) {
	parts := strings.SplitN(key, itemKeySep, 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

type itemTotals struct {
	Ordered SizeMap
	Picked  SizeMap
}

// aggregateItemTotals sums ordered and picked pieces per item key. Duplicate
// rows for the same reference+color collapse into one entry. SORTIDO rows are
// skipped.
func aggregateItemTotals(items OrderItems) map[string]*itemTotals {
	totals := make(map[string]*itemTotals)
	for _, item := range items {
		if item.Color == AssortedColor {
			continue
		}
		key := BuildItemKey(item.Reference, item.Color)
		entry, ok := totals[key]
		if !ok {
			entry = &itemTotals{Ordered: SizeMap{}, Picked: SizeMap{}}
			totals[key] = entry
		}
		entry.Ordered.Add(item.Sizes)
		entry.Picked.Add(item.Picked)
	}
	return totals
}

// ComputeStockDeltas diffs two item snapshots into per-key stock movements.
// A positive delta means that many pieces leave stock. For keys missing from
// enforceByKey the free-stock rule applies.
func ComputeStockDeltas(oldItems OrderItems, newItems OrderItems, enforceByKey map[string]bool) map[string]SizeMap {
	oldTotals := aggregateItemTotals(oldItems)
	newTotals := aggregateItemTotals(newItems)

	keys := make(map[string]bool, len(oldTotals)+len(newTotals))
	for key := range oldTotals {
		keys[key] = true
	}
	for key := range newTotals {
		keys[key] = true
	}

	deltas := make(map[string]SizeMap)
	for key := range keys {
		oldEntry, newEntry := oldTotals[key], newTotals[key]

		var oldQty, newQty SizeMap
		if enforceByKey[key] {
			if oldEntry != nil {
				oldQty = oldEntry.Ordered
			}
			if newEntry != nil {
				newQty = newEntry.Ordered
			}
		} else {
			if oldEntry != nil {
				oldQty = oldEntry.Picked
			}
			if newEntry != nil {
				newQty = newEntry.Picked
			}
		}

		delta := SizeMap{}
		for size := range oldQty {
			delta[size] = newQty[size] - oldQty[size]
		}
		for size := range newQty {
			if _, seen := oldQty[size]; !seen {
				delta[size] = newQty[size]
			}
		}

		hasMovement := false
		for _, qty := range delta {
			if qty != 0 {
				hasMovement = true
				break
			}
		}
		if hasMovement {
			deltas[key] = delta
		}
	}
	return deltas
}

// ValidateStockDeltas rejects movements that would take an enforced-stock
// product below zero. Free-stock products are allowed to go negative.
func ValidateStockDeltas(deltas map[string]SizeMap, products map[string]*Product) error {
	keys := sortedDeltaKeys(deltas)
	for _, key := range keys {
		product, ok := products[key]
		if !ok || !product.EnforceStock {
			continue
		}
		delta := deltas[key]
		sizes := make([]string, 0, len(delta))
		for size := range delta {
			sizes = append(sizes, size)
		}
		sort.Strings(sizes)
		for _, size := range sizes {
			qty := delta[size]
			if qty <= 0 {
				continue
			}
			if product.Stock[size] < qty {
				return &StockInsufficientError{
					Reference: product.Reference,
					Color:     product.Color,
					Size:      size,
					Requested: qty,
					Available: product.Stock[size],
				}
			}
		}
	}
	return nil
}

func sortedDeltaKeys(deltas map[string]SizeMap) []string {
	keys := make([]string, 0, len(deltas))
	for key := range deltas {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// applyStockDeltas writes the movements to product rows inside tx. Keys with
// no product row are logged and skipped; the order still sells what it sells.
func applyStockDeltas(ctx context.Context, tx *gorm.DB, deltas map[string]SizeMap, products map[string]*Product) error {
	logger := config.GetLogger()
	for _, key := range sortedDeltaKeys(deltas) {
		product, ok := products[key]
		if !ok {
			reference, color, _ := SplitItemKey(key)
			config.LogError(logger, "Order", "applyStockDeltas", "No product row for item, stock not adjusted",
				map[string]string{"reference": reference, "color": color}, gorm.ErrRecordNotFound)
			continue
		}
		if err := adjustProductStock(tx, product, deltas[key]); err != nil {
			return err
		}
	}
	return nil
}

// ReconcileOrderStock moves stock for an item change inside the caller's
// transaction. With validate set, enforced-stock shortfalls abort the change
// before anything is written.
func ReconcileOrderStock(ctx context.Context, tx *gorm.DB, oldItems OrderItems, newItems OrderItems, validate bool) error {
	keySet := make(map[string]bool)
	for _, item := range append(oldItems.Clone(), newItems.Clone()...) {
		if item.Color == AssortedColor {
			continue
		}
		keySet[BuildItemKey(item.Reference, item.Color)] = true
	}
	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	products, err := fetchProductsByKeys(tx, keys)
	if err != nil {
		return err
	}

	enforceByKey := make(map[string]bool, len(products))
	for key, product := range products {
		enforceByKey[key] = product.EnforceStock
	}

	deltas := ComputeStockDeltas(oldItems, newItems, enforceByKey)
	if validate {
		if err := ValidateStockDeltas(deltas, products); err != nil {
			return err
		}
	}
	return applyStockDeltas(ctx, tx, deltas, products)
}
