package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"wb_slots/internal/domain"
	"wb_slots/internal/domain/entity"
	"wb_slots/pkg/dbtest"
	"wb_slots/pkg/errcodes"
)

// testDB connects to the database named by TEST_PG_DSN and applies the
// ledger migration. Tests are skipped when the variable is unset so the
// suite stays runnable without infrastructure.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN is not set")
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, dbtest.MigrateFromFile(db, "../../../migrations/0001_create_notification_ledger.sql"))

	_, err = db.Exec(`TRUNCATE notification_ledger`)
	require.NoError(t, err)

	return db
}

func identity(subID string, warehouseID int64, date string, coef int, boxType entity.BoxType) entity.SlotIdentity {
	d, _ := time.Parse(time.DateOnly, date)
	return entity.SlotIdentity{
		SubscriptionID: subID,
		WarehouseID:    warehouseID,
		Date:           d,
		Coefficient:    coef,
		BoxTypeID:      boxType,
	}
}

func TestLedgerRepository_RecordAndContains(t *testing.T) {
	rq := require.New(t)
	repo := NewLedgerRepository(testDB(t))
	ctx := context.Background()

	id := identity("sub-1", 205349, "2030-04-11", 0, entity.BoxTypeBox)

	seen, err := repo.Contains(ctx, id)
	rq.NoError(err)
	rq.False(seen)

	rq.NoError(repo.Record(ctx, id, time.Now()))

	seen, err = repo.Contains(ctx, id)
	rq.NoError(err)
	rq.True(seen)

	// A different coefficient is a different opportunity.
	seen, err = repo.Contains(ctx, identity("sub-1", 205349, "2030-04-11", 1, entity.BoxTypeBox))
	rq.NoError(err)
	rq.False(seen)

	// The stored row round-trips to the same identity.
	var row ledgerSchema
	rq.NoError(repo.db.Get(&row, `SELECT * FROM notification_ledger WHERE subscription_id = $1`, "sub-1"))
	rq.Equal(id, row.toDomain())
}

func TestLedgerRepository_RecordIdempotent(t *testing.T) {
	rq := require.New(t)
	repo := NewLedgerRepository(testDB(t))
	ctx := context.Background()

	id := identity("sub-1", 301, "2030-05-01", 0, entity.BoxTypeMonopallet)
	first := time.Date(2030, 4, 20, 10, 0, 0, 0, time.UTC)

	rq.NoError(repo.Record(ctx, id, first))
	rq.NoError(repo.Record(ctx, id, first.Add(time.Hour)))

	var notifiedAt time.Time
	rq.NoError(repo.db.Get(&notifiedAt,
		`SELECT notified_at FROM notification_ledger WHERE subscription_id = $1`, "sub-1"))
	rq.True(notifiedAt.Equal(first), "the first notified_at must survive re-recording")

	size, err := repo.Size(ctx)
	rq.NoError(err)
	rq.EqualValues(1, size)
}

func TestLedgerRepository_PrunePastOnly(t *testing.T) {
	rq := require.New(t)
	repo := NewLedgerRepository(testDB(t))
	ctx := context.Background()

	today := time.Date(2030, 6, 15, 13, 30, 0, 0, time.UTC)

	past := identity("sub-1", 100, "2030-06-14", 0, entity.BoxTypeBox)
	same := identity("sub-1", 100, "2030-06-15", 0, entity.BoxTypeBox)
	future := identity("sub-1", 100, "2030-06-16", 0, entity.BoxTypeBox)

	for _, id := range []entity.SlotIdentity{past, same, future} {
		rq.NoError(repo.Record(ctx, id, today))
	}

	pruned, err := repo.Prune(ctx, today)
	rq.NoError(err)
	rq.EqualValues(1, pruned)

	for _, tc := range []struct {
		id   entity.SlotIdentity
		want bool
	}{
		{past, false},
		{same, true},
		{future, true},
	} {
		seen, err := repo.Contains(ctx, tc.id)
		rq.NoError(err)
		rq.Equal(tc.want, seen, "date %s", tc.id.Date.Format(time.DateOnly))
	}
}

func TestLedgerRepository_UnavailableCode(t *testing.T) {
	rq := require.New(t)
	db := testDB(t)
	repo := NewLedgerRepository(db)
	rq.NoError(db.Close())

	_, err := repo.Contains(context.Background(), identity("sub-1", 1, "2030-01-01", 0, entity.BoxTypeBox))
	rq.Error(err)
	rq.True(domain.HasCode(err, errcodes.LedgerUnavailable))
}
