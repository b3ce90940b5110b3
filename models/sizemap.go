package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// SizeMap maps a size label (P, M, G, GG, G1, ...) to a piece count. Stored
// as a JSON column. Absent size and zero count mean the same thing.
type SizeMap map[string]int

func (m SizeMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *SizeMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into SizeMap", value)
	}
}

// Sum returns total pieces across all sizes.
func (m SizeMap) Sum() int {
	total := 0
	for _, qty := range m {
		total += qty
	}
	return total
}

func (m SizeMap) Clone() SizeMap {
	if m == nil {
		return nil
	}
	out := make(SizeMap, len(m))
	for size, qty := range m {
		out[size] = qty
	}
	return out
}

// Prune removes sizes with zero or negative counts.
func (m SizeMap) Prune() SizeMap {
	for size, qty := range m {
		if qty <= 0 {
			delete(m, size)
		}
	}
	return m
}

// Add merges other into m in place.
func (m SizeMap) Add(other SizeMap) SizeMap {
	for size, qty := range other {
		m[size] += qty
	}
	return m
}

// Sub subtracts other from m in place. Counts may go negative.
func (m SizeMap) Sub(other SizeMap) SizeMap {
	for size, qty := range other {
		m[size] -= qty
	}
	return m
}

// IsEmpty reports whether no size carries a positive count.
func (m SizeMap) IsEmpty() bool {
	for _, qty := range m {
		if qty > 0 {
			return false
		}
	}
	return true
}

// OrderItems is the JSON items column on orders.
type OrderItems []OrderItem

func (items OrderItems) Value() (driver.Value, error) {
	if items == nil {
		return json.Marshal(OrderItems{})
	}
	return json.Marshal(items)
}

func (items *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*items = OrderItems{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, items)
	case string:
		return json.Unmarshal([]byte(v), items)
	default:
		return errors.New("cannot scan items column")
	}
}

func (items OrderItems) Clone() OrderItems {
	if items == nil {
		return nil
	}
	out := make(OrderItems, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// TotalPieces sums ordered pieces across items.
func (items OrderItems) TotalPieces() int {
	total := 0
	for _, item := range items {
		total += item.Sizes.Sum()
	}
	return total
}
