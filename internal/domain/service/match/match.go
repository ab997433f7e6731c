package match

import (
	"wb_slots/internal/domain/entity"
)

// Match evaluates the current slot feed against one subscription and
// returns the identities of every eligible slot. Pure: no I/O, no ordering
// assumptions about the feed, no truncation.
//
// option is the acceptance-options answer for the subscription's
// barcode/quantity; nil means no eligibility data was available this cycle.
func Match(sub entity.Subscription, slots []entity.Slot, option *entity.AcceptanceOption) []entity.SlotIdentity {
	if option != nil && option.IsError() {
		// A per-item error (unknown barcode etc.) means the product cannot
		// ship anywhere; the caller reports it as a data-quality issue.
		return nil
	}

	var out []entity.SlotIdentity

	for _, slot := range slots {
		if !eligible(sub, slot, option) {
			continue
		}

		out = append(out, entity.NewSlotIdentity(sub.ID, slot))
	}

	return out
}

func eligible(sub entity.Subscription, slot entity.Slot, option *entity.AcceptanceOption) bool {
	if slot.Coefficient == entity.CoefficientClosed {
		return false
	}

	if slot.Coefficient > sub.MaxCoefficient {
		return false
	}

	if !sub.InWindow(slot.Date) {
		return false
	}

	if sub.RequireUnload && !slot.AllowUnload {
		return false
	}

	return warehouseEligible(sub, slot, option)
}

func warehouseEligible(sub entity.Subscription, slot entity.Slot, option *entity.AcceptanceOption) bool {
	if len(sub.Warehouses) > 0 {
		if !sub.AllowsWarehouse(slot.WarehouseID) {
			return false
		}

		// Explicitly listed warehouses are trusted; options data, when
		// present, still narrows by packaging.
		if option != nil {
			if wo, ok := option.WarehouseFor(slot.WarehouseID); ok {
				return wo.Accepts(slot.BoxTypeID)
			}
		}

		return true
	}

	// "Any warehouse" means any warehouse the product can actually ship
	// to, so eligibility data is required.
	if option == nil {
		return false
	}

	wo, ok := option.WarehouseFor(slot.WarehouseID)
	if !ok {
		return false
	}

	return wo.AcceptsAny() && wo.Accepts(slot.BoxTypeID)
}
