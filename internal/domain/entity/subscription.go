package entity

import "time"

// Subscription is one watched product row from the spreadsheet. The set is
// re-read every cycle; nothing mutates it locally.
type Subscription struct {
	ID             string
	Barcode        string
	Quantity       int
	Warehouses     []int64  // explicit warehouse IDs; empty means "any warehouse the product ships to"
	WarehouseNames []string // names still to be resolved against the catalog
	MaxCoefficient int
	ValidFrom      time.Time // inclusive, date precision
	ValidUntil     time.Time // inclusive
	OwnerChatID    int64
	RequireUnload  bool // surface only bookable slots instead of every non-closed one
}

// InWindow reports whether the slot date falls inside the subscription's
// validity window. Both bounds are inclusive and compared at date precision.
func (s Subscription) InWindow(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(s.ValidFrom)) && !d.After(DateOnly(s.ValidUntil))
}

// AllowsWarehouse reports whether the subscription explicitly lists the
// warehouse. Only meaningful when the explicit set is non-empty.
func (s Subscription) AllowsWarehouse(warehouseID int64) bool {
	for _, id := range s.Warehouses {
		if id == warehouseID {
			return true
		}
	}
	return false
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
