package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"wb_slots/internal/domain"
	"wb_slots/internal/domain/entity"
	"wb_slots/pkg/errcodes"
)

// LedgerRepository is the durable record of which (subscription, slot)
// pairs were already surfaced. It is the only state the engine owns.
type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Contains reports whether the identity was already recorded.
func (r *LedgerRepository) Contains(ctx context.Context, id entity.SlotIdentity) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM notification_ledger
			WHERE subscription_id = $1
			  AND warehouse_id = $2
			  AND slot_date = $3
			  AND coefficient = $4
			  AND box_type_id = $5
		)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query,
		id.SubscriptionID, id.WarehouseID, id.Date, id.Coefficient, int(id.BoxTypeID))
	if err != nil {
		return false, domain.WrapError(err, errcodes.LedgerUnavailable, "ledger lookup")
	}

	return exists, nil
}

// Record inserts the identity. Idempotent: recording the same identity
// again keeps the original notified_at and reports no error.
func (r *LedgerRepository) Record(ctx context.Context, id entity.SlotIdentity, notifiedAt time.Time) error {
	query := `
		INSERT INTO notification_ledger
			(subscription_id, warehouse_id, slot_date, coefficient, box_type_id, notified_at)
		VALUES
			(:subscription_id, :warehouse_id, :slot_date, :coefficient, :box_type_id, :notified_at)
		ON CONFLICT (subscription_id, warehouse_id, slot_date, coefficient, box_type_id) DO NOTHING`

	if _, err := r.db.NamedExecContext(ctx, query, fromIdentity(id, notifiedAt)); err != nil {
		return domain.WrapError(err, errcodes.LedgerUnavailable, "ledger record")
	}

	return nil
}

// Prune drops entries whose slot date is strictly before the given date.
// Entries for today and future dates stay, so pruning can never cause a
// still-relevant slot to re-notify.
func (r *LedgerRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notification_ledger WHERE slot_date < $1`, entity.DateOnly(before))
	if err != nil {
		return 0, domain.WrapError(err, errcodes.LedgerUnavailable, "ledger prune")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, domain.WrapError(err, errcodes.LedgerUnavailable, "ledger prune rows")
	}

	return rows, nil
}

// Size is used by the status endpoint only.
func (r *LedgerRepository) Size(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notification_ledger`); err != nil {
		return 0, domain.WrapError(err, errcodes.LedgerUnavailable, "ledger size")
	}
	return count, nil
}
