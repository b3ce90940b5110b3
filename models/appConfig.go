package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/garments_backend/config"
	"gorm.io/gorm"
)

// AppConfig is a small key/value table for operational settings that survive
// restarts (default discount, picking screen options).
type AppConfig struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"size:500" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetAppConfig(ctx context.Context, key string) (string, error) {
	db := config.GetDB()
	var cfg AppConfig
	err := db.WithContext(ctx).Where("`key` = ?", key).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return cfg.Value, nil
}

func SetAppConfig(ctx context.Context, key string, value string) error {
	db := config.GetDB()
	cfg := AppConfig{Key: key, Value: value}
	return db.WithContext(ctx).Save(&cfg).Error
}
