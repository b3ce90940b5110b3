package workflow

import (
	"context"

	"bitbucket.org/mmdatafocus/garments_backend/config"
	"bitbucket.org/mmdatafocus/garments_backend/models"
	"bitbucket.org/mmdatafocus/garments_backend/utils"
	"github.com/google/uuid"
)

// TruncateToPicked cuts every item down to what was actually separated:
// ordered becomes picked, picked stays. Items with nothing picked drop out,
// unresolved SORTIDO placeholders included. Returns a new list.
func TruncateToPicked(items models.OrderItems) models.OrderItems {
	out := make(models.OrderItems, 0, len(items))
	for _, item := range items {
		if item.Picked.IsEmpty() {
			continue
		}
		next := item.Clone()
		next.Sizes = item.Picked.Clone().Prune()
		next.Picked = item.Picked.Clone().Prune()
		out = append(out, next)
	}
	return out
}

// FinalizeCancelRemainder closes out an order as "ship what was picked":
// unpicked quantities are cancelled, which releases their reservations on
// enforced-stock products. The order keeps the truncated items, takes the
// romaneio code and locks.
func FinalizeCancelRemainder(ctx context.Context, id uuid.UUID, manifestCode string) (*models.Order, error) {
	if manifestCode == "" {
		return nil, models.ErrManifestCodeRequired
	}

	release, err := utils.OrderLock(ctx, id.String(), "Order", "FinalizeCancelRemainder")
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := utils.FetchModelForChange[models.Order](ctx, id.String())
	if err != nil {
		return nil, err
	}

	existing, err := models.FindOrderByManifest(ctx, manifestCode, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &models.ManifestConflictError{Code: manifestCode}
	}

	newItems := TruncateToPicked(order.Items)
	if len(newItems) == 0 {
		return nil, models.ErrNothingPicked
	}

	oldItems := order.Items
	order.Items = newItems
	order.Romaneio = &manifestCode
	order.Status = models.OrderStatusPrinted
	order.RecalculateTotals()

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	// quantities only shrink here, nothing to validate
	if err := models.ReconcileOrderStock(ctx, tx, oldItems, newItems, false); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Save(order).Error; err != nil {
		tx.Rollback()
		if models.IsDuplicateKeyError(err) {
			return nil, &models.ManifestConflictError{Code: manifestCode}
		}
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return order, nil
}
