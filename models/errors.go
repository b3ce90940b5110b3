package models

import (
	"errors"
	"fmt"
)

var (
	ErrOrderLocked        = errors.New("order is on a manifest and can no longer be changed")
	ErrNothingPicked      = errors.New("no pieces have been picked on this order")
	ErrPickedExceedsOrder = errors.New("picked quantity exceeds ordered quantity")
	ErrNotAssortedItem    = errors.New("item is not an assorted-color item")
	ErrEmptyDistribution  = errors.New("color distribution is empty")
	ErrOrderHasNoItems    = errors.New("order has no items")

	ErrManifestCodeRequired = errors.New("a romaneio code is required to close an order")
)

// StockInsufficientError reports the first enforced-stock size that cannot
// cover a requested increase.
type StockInsufficientError struct {
	Reference string
	Color     string
	Size      string
	Requested int
	Available int
}

func (e *StockInsufficientError) Error() string {
	return fmt.Sprintf("insufficient stock for %s/%s size %s: need %d, have %d",
		e.Reference, e.Color, e.Size, e.Requested, e.Available)
}

// ManifestConflictError reports a romaneio code already used by another order.
type ManifestConflictError struct {
	Code string
}

func (e *ManifestConflictError) Error() string {
	return fmt.Sprintf("romaneio %q is already assigned to another order", e.Code)
}
