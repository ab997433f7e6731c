package entity

import (
	"fmt"
	"time"
)

// BoxType is the packaging format a warehouse accepts. IDs follow the
// supplies API; QR-boxes come without a numeric ID.
type BoxType int

const (
	BoxTypeUnknown    BoxType = 0
	BoxTypeBox        BoxType = 2
	BoxTypeMonopallet BoxType = 5
	BoxTypeSupersafe  BoxType = 6
)

// CoefficientClosed is the sentinel the coefficients feed uses for "no
// acceptance at all"; such slots never match anything.
const CoefficientClosed = -1

// Slot is one entry of the 14-day acceptance-coefficients feed. Fetched
// fresh every cycle, never stored.
type Slot struct {
	Date            time.Time
	Coefficient     int
	WarehouseID     int64
	WarehouseName   string
	AllowUnload     bool
	BoxTypeID       BoxType
	BoxTypeName     string
	IsSortingCenter bool
}

// Bookable reports whether a supply could actually be booked into the slot:
// free or x1 coefficient with unloading allowed.
func (s Slot) Bookable() bool {
	return s.AllowUnload && (s.Coefficient == 0 || s.Coefficient == 1)
}

// SlotIdentity is the ledger key: the minimal tuple identifying one
// opportunity for one subscription. Two fetches producing the same tuple
// are the same opportunity regardless of display fields.
type SlotIdentity struct {
	SubscriptionID string
	WarehouseID    int64
	Date           time.Time // date precision, UTC
	Coefficient    int
	BoxTypeID      BoxType
}

// NewSlotIdentity builds the identity of a slot for a subscription,
// normalizing the date.
func NewSlotIdentity(subscriptionID string, slot Slot) SlotIdentity {
	return SlotIdentity{
		SubscriptionID: subscriptionID,
		WarehouseID:    slot.WarehouseID,
		Date:           DateOnly(slot.Date),
		Coefficient:    slot.Coefficient,
		BoxTypeID:      slot.BoxTypeID,
	}
}

// Key renders the identity as a stable string, usable as a cache key.
func (i SlotIdentity) Key() string {
	return fmt.Sprintf("%s|%d|%s|%d|%d",
		i.SubscriptionID, i.WarehouseID, i.Date.Format(time.DateOnly), i.Coefficient, i.BoxTypeID)
}
