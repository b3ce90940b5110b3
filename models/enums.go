package models

// AssortedColor is the placeholder color carried on order items whose real
// colors are decided later at the warehouse. It never exists as a product row
// and is invisible to stock math until resolved.
const AssortedColor = "SORTIDO"

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleRep   UserRole = "rep"
)

func (r UserRole) IsValid() bool {
	return r == UserRoleAdmin || r == UserRoleRep
}

type OrderStatus string

const (
	OrderStatusOpen    OrderStatus = "open"
	OrderStatusPrinted OrderStatus = "printed"
)

func (s OrderStatus) IsValid() bool {
	return s == OrderStatusOpen || s == OrderStatusPrinted
}

type DiscountType string

const (
	DiscountTypePercent DiscountType = "P"
	DiscountTypeFixed   DiscountType = "F"
)

func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercent || t == DiscountTypeFixed
}

type GridType string

const (
	GridTypeAdult GridType = "adult"
	GridTypePlus  GridType = "plus"
)

// SizeGrids lists the sizes each grid ships with, in display order. Size maps
// are not limited to these keys; legacy rows carry odd sizes and they must
// round-trip untouched.
var SizeGrids = map[GridType][]string{
	GridTypeAdult: {"P", "M", "G", "GG"},
	GridTypePlus:  {"G1", "G2", "G3"},
}

func (g GridType) IsValid() bool {
	_, ok := SizeGrids[g]
	return ok
}

