package persistence

import (
	"time"

	"wb_slots/internal/domain/entity"
)

type ledgerSchema struct {
	SubscriptionID string    `db:"subscription_id"`
	WarehouseID    int64     `db:"warehouse_id"`
	SlotDate       time.Time `db:"slot_date"`
	Coefficient    int       `db:"coefficient"`
	BoxTypeID      int       `db:"box_type_id"`
	NotifiedAt     time.Time `db:"notified_at"`
}

func fromIdentity(id entity.SlotIdentity, notifiedAt time.Time) ledgerSchema {
	return ledgerSchema{
		SubscriptionID: id.SubscriptionID,
		WarehouseID:    id.WarehouseID,
		SlotDate:       id.Date,
		Coefficient:    id.Coefficient,
		BoxTypeID:      int(id.BoxTypeID),
		NotifiedAt:     notifiedAt,
	}
}

func (s ledgerSchema) toDomain() entity.SlotIdentity {
	return entity.SlotIdentity{
		SubscriptionID: s.SubscriptionID,
		WarehouseID:    s.WarehouseID,
		Date:           entity.DateOnly(s.SlotDate),
		Coefficient:    s.Coefficient,
		BoxTypeID:      entity.BoxType(s.BoxTypeID),
	}
}
