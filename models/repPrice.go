package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/garments_backend/config"
	"bitbucket.org/mmdatafocus/garments_backend/utils"
	"github.com/shopspring/decimal"
)

// RepPrice is a per-representative override price for one reference. When a
// rep has no row for a reference, the product base price applies.
type RepPrice struct {
	ID        int             `gorm:"primary_key" json:"id"`
	RepId     int             `gorm:"not null;uniqueIndex:idx_rep_prices_rep_ref" json:"rep_id" binding:"required"`
	Reference string          `gorm:"size:50;not null;uniqueIndex:idx_rep_prices_rep_ref" json:"reference" binding:"required"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRepPrice struct {
	RepId     int             `json:"rep_id" binding:"required"`
	Reference string          `json:"reference" binding:"required"`
	Price     decimal.Decimal `json:"price"`
}

func UpsertRepPrice(ctx context.Context, input *NewRepPrice) (*RepPrice, error) {
	if input.Price.IsNegative() {
		return nil, errors.New("price cannot be negative")
	}
	if err := utils.ValidateResourceId[User](ctx, input.RepId); err != nil {
		return nil, errors.New("rep not found")
	}

	db := config.GetDB()
	var repPrice RepPrice
	err := db.WithContext(ctx).
		Where("rep_id = ? AND reference = ?", input.RepId, input.Reference).
		First(&repPrice).Error
	if err == nil {
		repPrice.Price = input.Price
		if err := db.WithContext(ctx).Save(&repPrice).Error; err != nil {
			return nil, err
		}
	} else {
		repPrice = RepPrice{
			RepId:     input.RepId,
			Reference: input.Reference,
			Price:     input.Price,
		}
		if err := db.WithContext(ctx).Create(&repPrice).Error; err != nil {
			return nil, err
		}
	}

	if err := utils.RemoveRedisItem[RepPrice](input.RepId); err != nil {
		return nil, err
	}
	return &repPrice, nil
}

func DeleteRepPrice(ctx context.Context, id int) error {
	repPrice, err := utils.FetchSingleModel[RepPrice](ctx, id)
	if err != nil {
		return err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(repPrice).Error; err != nil {
		return err
	}
	return utils.RemoveRedisItem[RepPrice](repPrice.RepId)
}

func GetRepPrices(ctx context.Context, repId int) ([]*RepPrice, error) {
	db := config.GetDB()
	var prices []*RepPrice
	if err := db.WithContext(ctx).Where("rep_id = ?", repId).
		Order("reference").Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// GetRepPriceMap returns the rep's reference => price table, cached in redis
// under RepPrice:$repId.
func GetRepPriceMap(ctx context.Context, repId int) (map[string]decimal.Decimal, error) {
	if repId <= 0 {
		return map[string]decimal.Decimal{}, nil
	}

	priceMap := make(map[string]decimal.Decimal)
	cacheKey := fmt.Sprintf("RepPrice:%d", repId)
	exists, err := config.GetRedisObject(cacheKey, &priceMap)
	if err != nil {
		return nil, err
	}
	if exists {
		return priceMap, nil
	}

	prices, err := GetRepPrices(ctx, repId)
	if err != nil {
		return nil, err
	}
	for _, p := range prices {
		priceMap[p.Reference] = p.Price
	}
	if err := config.SetRedisObject(cacheKey, &priceMap, utils.GetCacheLifespan()); err != nil {
		return nil, err
	}
	return priceMap, nil
}
