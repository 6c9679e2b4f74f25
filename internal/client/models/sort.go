package models

import (
	"fmt"
	"strings"
)

// SortField is a column the remote store can order by.
type SortField string

const (
	SortByID      SortField = "id"
	SortByName    SortField = "name"
	SortByZipcode SortField = "zipcode"
)

// SortFields lists the sortable columns.
var SortFields = []SortField{SortByID, SortByName, SortByZipcode}

func ParseSortField(s string) (SortField, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SortFields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortField, s)
}

// Order is a sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case OrderAsc, OrderDesc:
		return o, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOrder, s)
	}
}

func (o Order) Reverse() Order {
	if o == OrderAsc {
		return OrderDesc
	}
	return OrderAsc
}

// Sort is the single active ordering. It is always replaced as a whole.
type Sort struct {
	Field SortField
	Order Order
}

func DefaultSort() Sort {
	return Sort{Field: SortByName, Order: OrderAsc}
}

// Toggle returns the sort that results from picking field in a column
// header: the active ascending column flips to descending, anything else
// starts ascending.
func (s Sort) Toggle(field SortField) Sort {
	if s.Field == field && s.Order == OrderAsc {
		return Sort{Field: field, Order: OrderDesc}
	}
	return Sort{Field: field, Order: OrderAsc}
}

func (s Sort) String() string {
	return string(s.Field) + " " + string(s.Order)
}
