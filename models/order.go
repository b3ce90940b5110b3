package models

import (
	"context"
	"errors"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/garments_backend/config"
	"bitbucket.org/mmdatafocus/garments_backend/utils"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem is one reference+color line on an order. Sizes holds ordered
// pieces, Picked holds what the warehouse has separated so far (nil until
// picking starts). Picked never exceeds Sizes on stored orders.
type OrderItem struct {
	Reference string          `json:"reference" binding:"required"`
	Color     string          `json:"color" binding:"required"`
	GridType  GridType        `json:"grid_type"`
	Sizes     SizeMap         `json:"sizes" binding:"required"`
	Picked    SizeMap         `json:"picked,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (i OrderItem) Key() string {
	return BuildItemKey(i.Reference, i.Color)
}

func (i OrderItem) Clone() OrderItem {
	out := i
	out.Sizes = i.Sizes.Clone()
	out.Picked = i.Picked.Clone()
	return out
}

// Subtotal is pieces times unit price. Once the warehouse has separated
// anything for the item, the separated count is what gets billed; before
// that it is the ordered quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	pieces := i.Picked.Sum()
	if pieces == 0 {
		pieces = i.Sizes.Sum()
	}
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(pieces)))
}

type Order struct {
	ID              uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	DisplayId       int64           `gorm:"uniqueIndex;not null" json:"display_id"`
	RepId           int             `gorm:"index" json:"rep_id"`
	RepName         string          `gorm:"size:100" json:"rep_name"`
	ClientId        *uuid.UUID      `gorm:"type:char(36);index" json:"client_id"`
	ClientName      string          `gorm:"size:150;not null" json:"client_name" binding:"required"`
	ClientCity      string          `gorm:"size:100" json:"client_city"`
	ClientState     string          `gorm:"size:2" json:"client_state"`
	DeliveryDate    *time.Time      `json:"delivery_date"`
	PaymentMethod   string          `gorm:"size:100" json:"payment_method"`
	Status          OrderStatus     `gorm:"type:enum('open','printed');default:'open'" json:"status"`
	Items           OrderItems      `gorm:"type:json" json:"items"`
	TotalPieces     int             `gorm:"not null;default:0" json:"total_pieces"`
	SubtotalValue   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal_value"`
	DiscountType    *DiscountType   `gorm:"type:enum('P','F')" json:"discount_type"`
	DiscountValue   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_value"`
	FinalTotalValue decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"final_total_value"`
	Romaneio        *string         `gorm:"size:50;uniqueIndex" json:"romaneio"`
	IsPartial       bool            `gorm:"not null;default:false" json:"is_partial"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewOrder struct {
	RepId       int        `json:"rep_id"`
	RepName     string     `json:"rep_name"`
	ClientId    *uuid.UUID `json:"client_id"`
	ClientName  string     `json:"client_name" binding:"required"`
	ClientCity  string     `json:"client_city"`
	ClientState string     `json:"client_state"`
	// DeliveryDateLocal is a zone-less "2006-01-02T15:04:05" string from the
	// rep app, interpreted in the configured timezone when DeliveryDate is
	// not given.
	DeliveryDate      *time.Time      `json:"delivery_date"`
	DeliveryDateLocal string          `json:"delivery_date_local"`
	PaymentMethod     string          `json:"payment_method"`
	Items             OrderItems      `json:"items" binding:"required"`
	DiscountType      *DiscountType   `json:"discount_type"`
	DiscountValue     decimal.Decimal `json:"discount_value"`
	IsPartial         bool            `json:"-"`
}

// ResolveDeliveryDate fills DeliveryDate from DeliveryDateLocal.
func (in *NewOrder) ResolveDeliveryDate() error {
	if in.DeliveryDate != nil || in.DeliveryDateLocal == "" {
		return nil
	}
	t, err := ParseDateString(in.DeliveryDateLocal, os.Getenv("APP_TIMEZONE"))
	if err != nil {
		return err
	}
	in.DeliveryDate = &t
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// IsLocked reports whether the order sits on a shipping manifest. Locked
// orders reject every item-level mutation until the romaneio is cleared.
func (o *Order) IsLocked() bool {
	return o.Romaneio != nil && *o.Romaneio != ""
}

func (o Order) CheckManifestLock(ctx context.Context) error {
	if o.IsLocked() {
		return ErrOrderLocked
	}
	return nil
}

// RecalculateTotals recomputes piece count, subtotal and final total from the
// item list. Fixed discounts never push the total below zero.
func (o *Order) RecalculateTotals() {
	o.TotalPieces = o.Items.TotalPieces()

	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Subtotal())
	}
	o.SubtotalValue = subtotal

	discountType := ""
	if o.DiscountType != nil {
		discountType = string(*o.DiscountType)
	}
	discount := utils.CalculateDiscountAmount(subtotal, o.DiscountValue, discountType)
	final := subtotal.Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
	}
	o.FinalTotalValue = final
}

// ValidateOrderItems rejects malformed item lists. Sizes and picked maps are
// pruned in place; picked above ordered is an error.
func ValidateOrderItems(items OrderItems) error {
	if len(items) == 0 {
		return ErrOrderHasNoItems
	}
	for idx := range items {
		item := &items[idx]
		if item.Reference == "" || item.Color == "" {
			return errors.New("item reference and color are required")
		}
		if item.GridType != "" && !item.GridType.IsValid() {
			return errors.New("invalid grid type on item")
		}
		if item.UnitPrice.IsNegative() {
			return errors.New("item unit price cannot be negative")
		}
		item.Sizes = item.Sizes.Clone().Prune()
		if item.Sizes == nil {
			item.Sizes = SizeMap{}
		}
		if item.Picked != nil {
			item.Picked = item.Picked.Clone().Prune()
			for size, qty := range item.Picked {
				if qty > item.Sizes[size] {
					return ErrPickedExceedsOrder
				}
			}
		}
	}
	return nil
}

// ResolveItemPrices fills zero unit prices from the rep's price table, then
// from the product's base price.
func ResolveItemPrices(ctx context.Context, repId int, items OrderItems) error {
	repPrices, err := GetRepPriceMap(ctx, repId)
	if err != nil {
		return err
	}
	for idx := range items {
		item := &items[idx]
		if !item.UnitPrice.IsZero() {
			continue
		}
		if price, ok := repPrices[item.Reference]; ok {
			item.UnitPrice = price
			continue
		}
		if item.Color == AssortedColor {
			continue
		}
		product, err := GetProductByKey(ctx, item.Reference, item.Color)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				continue
			}
			return err
		}
		item.UnitPrice = product.BasePrice
	}
	return nil
}

// CreateOrderInTx builds and persists a new order inside the caller's
// transaction. Partial delivery uses this to create the backlog order
// atomically with the split.
func CreateOrderInTx(ctx context.Context, tx *gorm.DB, input *NewOrder) (*Order, error) {
	items := input.Items.Clone()
	if err := ValidateOrderItems(items); err != nil {
		return nil, err
	}
	if input.DiscountType != nil && !input.DiscountType.IsValid() {
		return nil, errors.New("invalid discount type")
	}
	if err := input.ResolveDeliveryDate(); err != nil {
		return nil, err
	}
	if err := ResolveItemPrices(ctx, input.RepId, items); err != nil {
		return nil, err
	}

	displayId, err := utils.GetSequence[Order](ctx)
	if err != nil {
		return nil, err
	}

	order := Order{
		DisplayId:     displayId,
		RepId:         input.RepId,
		RepName:       input.RepName,
		ClientId:      input.ClientId,
		ClientName:    input.ClientName,
		ClientCity:    input.ClientCity,
		ClientState:   input.ClientState,
		DeliveryDate:  input.DeliveryDate,
		PaymentMethod: input.PaymentMethod,
		Status:        OrderStatusOpen,
		Items:         items,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		IsPartial:     input.IsPartial,
	}
	order.RecalculateTotals()

	if err := tx.Create(&order).Error; err != nil {
		return nil, err
	}

	validate := !config.AllowUncheckedOrderCreate()
	if err := ReconcileOrderStock(ctx, tx, nil, order.Items, validate); err != nil {
		return nil, err
	}
	return &order, nil
}

func CreateOrder(ctx context.Context, input *NewOrder) (*Order, error) {
	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	order, err := CreateOrderInTx(ctx, tx, input)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return order, nil
}

func GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	return utils.FetchModelByUid[Order](ctx, id.String())
}

type OrderFilter struct {
	RepId       int
	ClientName  string
	Status      OrderStatus
	HasRomaneio *bool
	Limit       int
	Offset      int
}

func GetOrders(ctx context.Context, filter OrderFilter) ([]*Order, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Order{})
	if filter.RepId > 0 {
		dbCtx = dbCtx.Where("rep_id = ?", filter.RepId)
	}
	if filter.ClientName != "" {
		dbCtx = dbCtx.Where("client_name LIKE ?", "%"+filter.ClientName+"%")
	}
	if filter.Status != "" {
		dbCtx = dbCtx.Where("status = ?", filter.Status)
	}
	if filter.HasRomaneio != nil {
		if *filter.HasRomaneio {
			dbCtx = dbCtx.Where("romaneio IS NOT NULL AND romaneio != ''")
		} else {
			dbCtx = dbCtx.Where("romaneio IS NULL OR romaneio = ''")
		}
	}
	if filter.Limit > 0 {
		dbCtx = dbCtx.Limit(filter.Limit).Offset(filter.Offset)
	}

	var orders []*Order
	if err := dbCtx.Order("display_id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// DeleteOrder removes the order and puts back whatever it was holding:
// ordered quantities for enforced-stock products, picked quantities for the
// rest. Deletion is the one mutation allowed on a locked order, since it
// reverses the stock rather than reshaping it.
func DeleteOrder(ctx context.Context, id uuid.UUID) error {
	order, err := utils.FetchModelByUid[Order](ctx, id.String())
	if err != nil {
		return err
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := ReconcileOrderStock(ctx, tx, order.Items, nil, false); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(order).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// IsDuplicateKeyError reports a MySQL duplicate-entry error (1062). The
// unique index on orders.romaneio is the real guard against two orders
// grabbing the same code; the application-level check only exists for a
// friendlier message.
func IsDuplicateKeyError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// FindOrderByManifest returns the order carrying the given romaneio code,
// skipping excludeId. Returns nil when no order has it.
func FindOrderByManifest(ctx context.Context, code string, excludeId uuid.UUID) (*Order, error) {
	db := config.GetDB()
	var order Order
	dbCtx := db.WithContext(ctx).Where("romaneio = ?", code)
	if excludeId != uuid.Nil {
		dbCtx = dbCtx.Where("id != ?", excludeId)
	}
	err := dbCtx.First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// SetOrderManifest assigns a romaneio code, locking the order against item
// edits. An empty code clears the manifest and reopens the order.
func SetOrderManifest(ctx context.Context, id uuid.UUID, code string) (*Order, error) {
	order, err := utils.FetchModelByUid[Order](ctx, id.String())
	if err != nil {
		return nil, err
	}

	if code == "" {
		order.Romaneio = nil
	} else {
		existing, err := FindOrderByManifest(ctx, code, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, &ManifestConflictError{Code: code}
		}
		order.Romaneio = &code
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&Order{}).Where("id = ?", id).
		Update("romaneio", order.Romaneio).Error; err != nil {
		if IsDuplicateKeyError(err) {
			return nil, &ManifestConflictError{Code: code}
		}
		return nil, err
	}
	return order, nil
}

func UpdateOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (*Order, error) {
	if !status.IsValid() {
		return nil, errors.New("invalid order status")
	}
	order, err := utils.FetchModelByUid[Order](ctx, id.String())
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&Order{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}
