package workflow

import (
	"context"

	"bitbucket.org/mmdatafocus/garments_backend/config"
	"bitbucket.org/mmdatafocus/garments_backend/models"
	"bitbucket.org/mmdatafocus/garments_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SplitForPartialDelivery divides an item list into what ships now and what
// stays owed. Delivered rows carry the picked quantities as their ordered
// sizes with picking state reset; remainder rows carry ordered minus picked
// with an empty picked map. Items with nothing picked (unresolved SORTIDO
// included) go entirely to the remainder.
func SplitForPartialDelivery(items models.OrderItems) (delivered models.OrderItems, remaining models.OrderItems) {
	delivered = make(models.OrderItems, 0, len(items))
	remaining = make(models.OrderItems, 0, len(items))

	for _, item := range items {
		if !item.Picked.IsEmpty() {
			shipped := item.Clone()
			shipped.Sizes = item.Picked.Clone().Prune()
			shipped.Picked = nil
			delivered = append(delivered, shipped)
		}

		rest := item.Sizes.Clone().Sub(item.Picked).Prune()
		if !rest.IsEmpty() {
			owed := item.Clone()
			owed.Sizes = rest
			owed.Picked = models.SizeMap{}
			remaining = append(remaining, owed)
		}
	}
	return delivered, remaining
}

// PartialDeliver ships the picked part of an order now and rebooks the rest
// as a fresh open order. The original order takes the romaneio code, locks
// with status printed and is flagged partial; the backlog order starts with
// no romaneio and re-reserves enforced stock through the normal creation
// path. A fixed discount is split between the two orders by subtotal share;
// a percentage discount applies to both unchanged.
func PartialDeliver(ctx context.Context, id uuid.UUID, manifestCode string) (*models.Order, *models.Order, error) {
	if manifestCode == "" {
		return nil, nil, models.ErrManifestCodeRequired
	}

	release, err := utils.OrderLock(ctx, id.String(), "Order", "PartialDeliver")
	if err != nil {
		return nil, nil, err
	}
	defer release()

	order, err := utils.FetchModelForChange[models.Order](ctx, id.String())
	if err != nil {
		return nil, nil, err
	}

	existing, err := models.FindOrderByManifest(ctx, manifestCode, id)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, &models.ManifestConflictError{Code: manifestCode}
	}

	delivered, remaining := SplitForPartialDelivery(order.Items)
	if len(delivered) == 0 {
		return nil, nil, models.ErrNothingPicked
	}
	if len(remaining) == 0 {
		// everything picked, nothing to rebook
		release()
		finalized, err := FinalizeCancelRemainder(ctx, id, manifestCode)
		return finalized, nil, err
	}

	oldItems := order.Items
	originalSubtotal := order.SubtotalValue

	backlogDiscount := order.DiscountValue
	deliveredDiscount := order.DiscountValue
	if order.DiscountType != nil && *order.DiscountType == models.DiscountTypeFixed {
		remainingSubtotal := decimal.Zero
		for _, item := range remaining {
			remainingSubtotal = remainingSubtotal.Add(item.Subtotal())
		}
		backlogDiscount = utils.ApportionFixedDiscount(order.DiscountValue, originalSubtotal, remainingSubtotal)
		deliveredDiscount = order.DiscountValue.Sub(backlogDiscount)
		if deliveredDiscount.IsNegative() {
			deliveredDiscount = decimal.Zero
		}
	}

	order.Items = delivered
	order.IsPartial = true
	order.DiscountValue = deliveredDiscount
	order.Romaneio = &manifestCode
	order.Status = models.OrderStatusPrinted
	order.RecalculateTotals()

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, nil, tx.Error
	}

	if err := models.ReconcileOrderStock(ctx, tx, oldItems, delivered, false); err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	if err := tx.Save(order).Error; err != nil {
		tx.Rollback()
		if models.IsDuplicateKeyError(err) {
			return nil, nil, &models.ManifestConflictError{Code: manifestCode}
		}
		return nil, nil, err
	}

	backlog, err := models.CreateOrderInTx(ctx, tx, &models.NewOrder{
		RepId:         order.RepId,
		RepName:       order.RepName,
		ClientId:      order.ClientId,
		ClientName:    order.ClientName,
		ClientCity:    order.ClientCity,
		ClientState:   order.ClientState,
		DeliveryDate:  order.DeliveryDate,
		PaymentMethod: order.PaymentMethod,
		Items:         remaining,
		DiscountType:  order.DiscountType,
		DiscountValue: backlogDiscount,
	})
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, nil, err
	}
	return order, backlog, nil
}
