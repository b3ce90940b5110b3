package config

import (
	"os"
	"strings"
)

// AllowUncheckedOrderCreate keeps order creation working even when an
// enforced-stock product has less stock than the order asks for. Stock goes
// negative and is sorted out by the warehouse. Turning this off makes order
// creation fail with a stock error instead.
//
// Set via env:
// - ALLOW_UNCHECKED_ORDER_CREATE=false
func AllowUncheckedOrderCreate() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("ALLOW_UNCHECKED_ORDER_CREATE")))
	if v == "" {
		return true
	}
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// AutoMigrateOnBoot runs GORM AutoMigrate for all tables at startup.
//
// Set via env:
// - DB_AUTO_MIGRATE=true
func AutoMigrateOnBoot() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("DB_AUTO_MIGRATE")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
