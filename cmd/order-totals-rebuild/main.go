package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/garments_backend/config"
	"bitbucket.org/mmdatafocus/garments_backend/models"
	"github.com/joho/godotenv"
)

// Recomputes the derived totals (pieces, subtotal, final total) of stored
// orders from their item lists. Useful after manual row edits in the database,
// which bypass RecalculateTotals.
func main() {
	var orderUid string
	var dryRun bool
	flag.StringVar(&orderUid, "order", "", "rebuild a single order by uid (default: all orders)")
	flag.BoolVar(&dryRun, "dry-run", false, "report drifted orders without writing")
	flag.Parse()

	godotenv.Load()
	config.ConnectDatabaseWithRetry()

	ctx := context.Background()
	db := config.GetDB()

	var orders []models.Order
	query := db.WithContext(ctx)
	if orderUid != "" {
		query = query.Where("id = ?", orderUid)
	}
	if err := query.Find(&orders).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to load orders: %v\n", err)
		os.Exit(1)
	}

	fixed := 0
	for i := range orders {
		order := &orders[i]
		before := order.FinalTotalValue
		beforePieces := order.TotalPieces
		order.RecalculateTotals()
		if order.TotalPieces == beforePieces && order.FinalTotalValue.Equal(before) {
			continue
		}
		fixed++
		fmt.Printf("order %d (%s): pieces %d -> %d, total %s -> %s\n",
			order.DisplayId, order.ID, beforePieces, order.TotalPieces,
			before.StringFixed(2), order.FinalTotalValue.StringFixed(2))
		if dryRun {
			continue
		}
		err := db.WithContext(ctx).Model(order).Updates(map[string]interface{}{
			"total_pieces":      order.TotalPieces,
			"subtotal_value":    order.SubtotalValue,
			"final_total_value": order.FinalTotalValue,
		}).Error
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to update order %s: %v\n", order.ID, err)
			os.Exit(1)
		}
	}

	if dryRun {
		fmt.Printf("dry run: %d of %d orders drifted\n", fixed, len(orders))
	} else {
		fmt.Printf("rebuilt totals for %d of %d orders\n", fixed, len(orders))
	}
}
