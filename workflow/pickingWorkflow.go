package workflow

import (
	"context"

	"bitbucket.org/mmdatafocus/garments_backend/config"
	"bitbucket.org/mmdatafocus/garments_backend/models"
	"bitbucket.org/mmdatafocus/garments_backend/utils"
	"github.com/google/uuid"
)

// ApplyPicking normalizes a revised item list coming off the picking screen.
// The list is authoritative: ordered quantities may change and rows may be
// added or removed in the same save. Every row comes out with an initialized
// picked map, so a saved order shows that picking has started even when
// nothing is separated yet. Returns a new list.
func ApplyPicking(items models.OrderItems) (models.OrderItems, error) {
	out := items.Clone()
	if err := models.ValidateOrderItems(out); err != nil {
		return nil, err
	}
	for idx := range out {
		if out[idx].Picked == nil {
			out[idx].Picked = models.SizeMap{}
		}
	}
	return out, nil
}

// SavePicking persists the warehouse's progress on an order: revised item
// list, separated counts, recomputed totals. Item values switch to the
// separated count for rows where picking has begun. Stock moves by the
// policy diff: ordered quantities for enforced-stock products (reserved at
// order time), picked quantities for the rest.
func SavePicking(ctx context.Context, id uuid.UUID, items models.OrderItems) (*models.Order, error) {
	release, err := utils.OrderLock(ctx, id.String(), "Order", "SavePicking")
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := utils.FetchModelForChange[models.Order](ctx, id.String())
	if err != nil {
		return nil, err
	}

	newItems, err := ApplyPicking(items)
	if err != nil {
		return nil, err
	}
	if err := models.ResolveItemPrices(ctx, order.RepId, newItems); err != nil {
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
