package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/garments_backend/config"
	"bitbucket.org/mmdatafocus/garments_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is one sellable reference+color combination. Stock is tracked per
// size in a JSON column. Counts can go negative for free-stock products; the
// warehouse treats a negative count as an open debt.
type Product struct {
	ID           uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	Reference    string          `gorm:"size:50;not null;uniqueIndex:idx_products_ref_color" json:"reference" binding:"required"`
	Color        string          `gorm:"size:50;not null;uniqueIndex:idx_products_ref_color" json:"color" binding:"required"`
	GridType     GridType        `gorm:"type:enum('adult','plus');default:'adult'" json:"grid_type"`
	Stock        SizeMap         `gorm:"type:json" json:"stock"`
	MinStock     SizeMap         `gorm:"type:json" json:"min_stock"`
	BasePrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_price"`
	EnforceStock bool            `gorm:"not null;default:false" json:"enforce_stock"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Reference    string          `json:"reference" binding:"required"`
	Color        string          `json:"color" binding:"required"`
	GridType     GridType        `json:"grid_type"`
	Stock        SizeMap         `json:"stock"`
	MinStock     SizeMap         `json:"min_stock"`
	BasePrice    decimal.Decimal `json:"base_price"`
	EnforceStock bool            `json:"enforce_stock"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsLowStock reports whether any size sits below its minimum.
func (p *Product) IsLowStock() bool {
	for size, min := range p.MinStock {
		if min > 0 && p.Stock[size] < min {
			return true
		}
	}
	return false
}

func validateNewProduct(ctx context.Context, input *NewProduct, exceptId uuid.UUID) error {
	if input.Color == AssortedColor {
		return errors.New("SORTIDO is reserved and cannot be a product color")
	}
	if input.GridType == "" {
		input.GridType = GridTypeAdult
	}
	if !input.GridType.IsValid() {
		return errors.New("invalid grid type")
	}
	if input.BasePrice.IsNegative() {
		return errors.New("base price cannot be negative")
	}

	count, err := utils.ResourceCountWhere[Product](ctx, "reference = ? AND color = ? AND NOT id = ?",
		input.Reference, input.Color, exceptId)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("duplicate reference and color")
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := validateNewProduct(ctx, input, uuid.Nil); err != nil {
		return nil, err
	}

	product := Product{
		Reference:    input.Reference,
		Color:        input.Color,
		GridType:     input.GridType,
		Stock:        input.Stock.Clone(),
		MinStock:     input.MinStock.Clone(),
		BasePrice:    input.BasePrice,
		EnforceStock: input.EnforceStock,
	}
	if product.Stock == nil {
		product.Stock = SizeMap{}
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func UpdateProduct(ctx context.Context, id uuid.UUID, input *NewProduct) (*Product, error) {
	product, err := utils.FetchModelByUid[Product](ctx, id.String())
	if err != nil {
		return nil, err
	}
	if err := validateNewProduct(ctx, input, id); err != nil {
		return nil, err
	}

	product.Reference = input.Reference
	product.Color = input.Color
	product.GridType = input.GridType
	product.Stock = input.Stock.Clone()
	product.MinStock = input.MinStock.Clone()
	product.BasePrice = input.BasePrice
	product.EnforceStock = input.EnforceStock
	if product.Stock == nil {
		product.Stock = SizeMap{}
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Product](id); err != nil {
		return nil, err
	}
	return product, nil
}

func DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := utils.FetchModelByUid[Product](ctx, id.String())
	if err != nil {
		return err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(product).Error; err != nil {
		return err
	}
	return utils.RemoveRedisItem[Product](id)
}

func GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	cached, err := utils.RetrieveRedis[Product](id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	product, err := utils.FetchModelByUid[Product](ctx, id.String())
	if err != nil {
		return nil, err
	}
	if err := utils.StoreRedis[Product](product, id); err != nil {
		return nil, err
	}
	return product, nil
}

func GetProductByKey(ctx context.Context, reference string, color string) (*Product, error) {
	db := config.GetDB()
	var product Product
	err := db.WithContext(ctx).Where("reference = ? AND color = ?", reference, color).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &product, nil
}

type ProductFilter struct {
	Search  string
	LowOnly bool
	Limit   int
	Offset  int
}

func GetProducts(ctx context.Context, filter ProductFilter) ([]*Product, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Product{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		dbCtx = dbCtx.Where("reference LIKE ? OR color LIKE ?", pattern, pattern)
	}
	if filter.Limit > 0 {
		dbCtx = dbCtx.Limit(filter.Limit).Offset(filter.Offset)
	}

	var products []*Product
	if err := dbCtx.Order("reference, color").Find(&products).Error; err != nil {
		return nil, err
	}
	if !filter.LowOnly {
		return products, nil
	}

	low := make([]*Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low, nil
}

// fetchProductsByKeys loads every product touched by a reconciliation into a
// key => product map, inside the caller's transaction. Assorted keys are not
// looked up. Keys with no product row are simply absent from the map.
func fetchProductsByKeys(tx *gorm.DB, keys []string) (map[string]*Product, error) {
	byKey := make(map[string]*Product, len(keys))
	for _, key := range utils.UniqueSlice(keys) {
		reference, color, ok := SplitItemKey(key)
		if !ok || color == AssortedColor {
			continue
		}
		var product Product
		err := tx.Where("reference = ? AND color = ?", reference, color).First(&product).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		byKey[key] = &product
	}
	return byKey, nil
}

// adjustProductStock applies stock[size] -= delta[size] for one product row
// inside the caller's transaction.
func adjustProductStock(tx *gorm.DB, product *Product, delta SizeMap) error {
	if product.Stock == nil {
		product.Stock = SizeMap{}
	}
	for size, qty := range delta {
		if qty == 0 {
			continue
		}
		product.Stock[size] -= qty
	}
	if err := tx.Model(&Product{}).Where("id = ?", product.ID).
		Update("stock", product.Stock).Error; err != nil {
		return err
	}
	return utils.RemoveRedisItem[Product](product.ID)
}
