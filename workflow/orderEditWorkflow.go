package workflow

import (
	"context"

	"bitbucket.org/mmdatafocus/garments_backend/config"
	"bitbucket.org/mmdatafocus/garments_backend/models"
	"bitbucket.org/mmdatafocus/garments_backend/utils"
	"github.com/google/uuid"
)

// MergePickedState carries picking progress from the stored items onto an
// edited item list. Picked counts follow the reference+color key and are
// clamped to the new ordered quantities, so shrinking an order can never
// leave picked above ordered. When a key appears more than once in the new
// list only the first row receives the carried state.
func MergePickedState(oldItems models.OrderItems, newItems models.OrderItems) {
	pickedByKey := make(map[string]models.SizeMap)
	for _, item := range oldItems {
		if item.Picked == nil {
			continue
		}
		key := item.Key()
		if existing, ok := pickedByKey[key]; ok {
			existing.Add(item.Picked)
		} else {
			pickedByKey[key] = item.Picked.Clone()
		}
	}

	assigned := make(map[string]bool)
	for idx := range newItems {
		item := &newItems[idx]
		key := item.Key()
		picked, ok := pickedByKey[key]
		if !ok || assigned[key] {
			item.Picked = nil
			continue
		}
		assigned[key] = true

		clamped := models.SizeMap{}
		for size, qty := range picked {
			if qty > item.Sizes[size] {
				qty = item.Sizes[size]
			}
			if qty > 0 {
				clamped[size] = qty
			}
		}
		if len(clamped) == 0 {
			item.Picked = nil
		} else {
			item.Picked = clamped
		}
	}
}

// EditOrder replaces the order's header and item list with the incoming
// revision. Picking progress survives the edit. Stock moves by the diff
// between the stored and incoming items, checked against availability for
// enforced-stock products.
func EditOrder(ctx context.Context, id uuid.UUID, input *models.NewOrder) (*models.Order, error) {
	release, err := utils.OrderLock(ctx, id.String(), "Order", "EditOrder")
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := utils.FetchModelForChange[models.Order](ctx, id.String())
	if err != nil {
		return nil, err
	}

	newItems := input.Items.Clone()
	if err := models.ValidateOrderItems(newItems); err != nil {
		return nil, err
	}
	if err := input.ResolveDeliveryDate(); err != nil {
		return nil, err
	}
	MergePickedState(order.Items, newItems)
	if err := models.ResolveItemPrices(ctx, input.RepId, newItems); err != nil {
		return nil, err
	}

	oldItems := order.Items.Clone()

	order.RepId = input.RepId
	order.RepName = input.RepName
	order.ClientId = input.ClientId
	order.ClientName = input.ClientName
	order.ClientCity = input.ClientCity
	order.ClientState = input.ClientState
	order.DeliveryDate = input.DeliveryDate
	order.PaymentMethod = input.PaymentMethod
	order.DiscountType = input.DiscountType
	order.DiscountValue = input.DiscountValue
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
