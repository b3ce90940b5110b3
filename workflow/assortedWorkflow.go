package workflow

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/mmdatafocus/garments_backend/config"
	"bitbucket.org/mmdatafocus/garments_backend/models"
	"bitbucket.org/mmdatafocus/garments_backend/utils"
	"github.com/google/uuid"
)

// ResolveAssortedItems moves quantities out of a SORTIDO placeholder item
// into a real color decided at the warehouse. The moved pieces land on the
// target item's ordered AND picked counts, since deciding the color is the
// act of separating the pieces. The placeholder shrinks and disappears once
// drained. Returns a new item list; the input is not touched.
func ResolveAssortedItems(items models.OrderItems, itemIndex int, targetColor string, distribution models.SizeMap) (models.OrderItems, error) {
	if itemIndex < 0 || itemIndex >= len(items) {
		return nil, errors.New("item index out of range")
	}
	if targetColor == "" || targetColor == models.AssortedColor {
		return nil, errors.New("invalid target color")
	}

	out := items.Clone()
	assorted := &out[itemIndex]
	if assorted.Color != models.AssortedColor {
		return nil, models.ErrNotAssortedItem
	}

	moved := distribution.Clone().Prune()
	if moved.IsEmpty() {
		return nil, models.ErrEmptyDistribution
	}
	for size, qty := range moved {
		if qty > assorted.Sizes[size] {
			return nil, fmt.Errorf("size %s: moving %d but only %d assorted pieces remain", size, qty, assorted.Sizes[size])
		}
	}

	assorted.Sizes.Sub(moved).Prune()

	// merge into an existing row for the same reference+color if there is one
	targetKey := models.BuildItemKey(assorted.Reference, targetColor)
	merged := false
	for idx := range out {
		if idx == itemIndex || out[idx].Key() != targetKey {
			continue
		}
		out[idx].Sizes.Add(moved)
		if out[idx].Picked == nil {
			out[idx].Picked = models.SizeMap{}
		}
		out[idx].Picked.Add(moved)
		merged = true
		break
	}
	if !merged {
		out = append(out, models.OrderItem{
			Reference: assorted.Reference,
			Color:     targetColor,
			GridType:  assorted.GridType,
			Sizes:     moved.Clone(),
			Picked:    moved.Clone(),
			UnitPrice: assorted.UnitPrice,
		})
	}

	if assorted.Sizes.IsEmpty() {
		out = append(out[:itemIndex], out[itemIndex+1:]...)
	}
	return out, nil
}

type AssortedResolution struct {
	ItemIndex    int            `json:"item_index"`
	TargetColor  string         `json:"target_color" binding:"required"`
	Distribution models.SizeMap `json:"distribution" binding:"required"`
}

// ResolveAssorted applies one SORTIDO resolution to a stored order. The
// target color becomes visible to stock math for the first time here, so the
// moved quantities come out of the target product's stock (ordered for
// enforced products, picked for the rest).
func ResolveAssorted(ctx context.Context, id uuid.UUID, input *AssortedResolution) (*models.Order, error) {
	release, err := utils.OrderLock(ctx, id.String(), "Order", "ResolveAssorted")
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := utils.FetchModelForChange[models.Order](ctx, id.String())
	if err != nil {
		return nil, err
	}

	newItems, err := ResolveAssortedItems(order.Items, input.ItemIndex, input.TargetColor, input.Distribution)
	if err != nil {
		return nil, err
	}

	oldItems := order.Items
	order.Items = newItems
	order.RecalculateTotals()

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	if err := models.ReconcileOrderStock(ctx, tx, oldItems, newItems, true); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Save(order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return order, nil
}
