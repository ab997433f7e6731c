package server

import (
	"time"

	"wb_slots/internal/domain/entity"
	"wb_slots/internal/worker"
	"wb_slots/pkg/lox"
	"wb_slots/pkg/rest"
)

func newRESTStatus(name, version string) rest.Status {
	return rest.Status{
		Service: name,
		Version: version,
	}
}

func newRESTCycleSummary(summary worker.CycleSummary) rest.CycleSummary {
	return rest.CycleSummary{
		StartedAt:     summary.StartedAt.Format(time.RFC3339),
		FinishedAt:    summary.FinishedAt.Format(time.RFC3339),
		DurationMS:    summary.Duration().Milliseconds(),
		Subscriptions: summary.Subscriptions,
		SlotsSeen:     summary.SlotsSeen,
		Matched:       summary.Matched,
		Notified:      summary.Notified,
		Duplicates:    summary.Duplicates,
		Errors:        summary.Errors,
		Pruned:        summary.Pruned,
	}
}

func newRESTCheckResponse(options []entity.AcceptanceOption) []rest.CheckResult {
	return lox.Map(options, func(o entity.AcceptanceOption) rest.CheckResult {
		result := rest.CheckResult{Barcode: o.Barcode}

		if o.IsError() {
			result.Error = o.Err.Detail
			if result.Error == "" {
				result.Error = o.Err.Title
			}
			return result
		}

		result.Warehouses = lox.Map(o.Warehouses, func(w entity.WarehouseOption) rest.CheckWarehouse {
			return rest.CheckWarehouse{
				WarehouseID:   w.WarehouseID,
				CanBox:        w.CanBox,
				CanMonopallet: w.CanMonopallet,
				CanSupersafe:  w.CanSupersafe,
			}
		})

		return result
	})
}

func newRESTWarehouses(warehouses []entity.Warehouse) []rest.Warehouse {
	return lox.Map(warehouses, func(w entity.Warehouse) rest.Warehouse {
		return rest.Warehouse{
			ID:              w.ID,
			Name:            w.Name,
			Address:         w.Address,
			WorkTime:        w.WorkTime,
			AcceptsQR:       w.AcceptsQR,
			IsActive:        w.IsActive,
			IsTransitActive: w.IsTransitActive,
		}
	})
}
