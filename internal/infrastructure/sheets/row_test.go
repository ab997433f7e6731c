package sheets_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wb_slots/internal/domain"
	"wb_slots/internal/infrastructure/sheets"
	"wb_slots/pkg/errcodes"
)

func validRow() []any {
	return []any{"sub-1", "123456789", "7", "205349, Электросталь", "0", "2024-04-01", "2024-04-20", "1217838677", "TRUE"}
}

func TestParseRow(t *testing.T) {
	rq := require.New(t)

	sub, err := sheets.ParseRow(2, validRow())
	rq.NoError(err)

	rq.Equal("sub-1", sub.ID)
	rq.Equal("123456789", sub.Barcode)
	rq.Equal(7, sub.Quantity)
	rq.Equal([]int64{205349}, sub.Warehouses)
	rq.Equal([]string{"Электросталь"}, sub.WarehouseNames)
	rq.Equal(0, sub.MaxCoefficient)
	rq.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), sub.ValidFrom)
	rq.Equal(time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC), sub.ValidUntil)
	rq.EqualValues(1217838677, sub.OwnerChatID)
	rq.True(sub.RequireUnload)
}

func TestParseRowMalformed(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(row []any) []any
	}{
		{
			name: "Missing barcode",
			mutate: func(row []any) []any {
				row[1] = ""
				return row
			},
		},
		{
			name: "Zero quantity",
			mutate: func(row []any) []any {
				row[2] = "0"
				return row
			},
		},
		{
			name: "Quantity not a number",
			mutate: func(row []any) []any {
				row[2] = "seven"
				return row
			},
		},
		{
			name: "Negative max coefficient disables the row",
			mutate: func(row []any) []any {
				row[4] = "-1"
				return row
			},
		},
		{
			name: "Window inverted",
			mutate: func(row []any) []any {
				row[5], row[6] = row[6], row[5]
				return row
			},
		},
		{
			name: "Unparseable date",
			mutate: func(row []any) []any {
				row[5] = "next tuesday"
				return row
			},
		},
		{
			name: "Missing chat id",
			mutate: func(row []any) []any {
				return row[:7]
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			_, err := sheets.ParseRow(2, tc.mutate(validRow()))
			rq.Error(err)
			rq.True(domain.HasCode(err, errcodes.SubscriptionInvalid))
		})
	}
}

func TestParseRowDefaults(t *testing.T) {
	rq := require.New(t)

	// No explicit ID, no warehouses, Russian date format, no flag column.
	row := []any{"", "4650000000001", "10", "", "3", "01.04.2024", "20.04.2024", "42"}

	sub, err := sheets.ParseRow(9, row)
	rq.NoError(err)

	rq.Equal("row9:4650000000001", sub.ID)
	rq.Empty(sub.Warehouses)
	rq.Empty(sub.WarehouseNames)
	rq.Equal(3, sub.MaxCoefficient)
	rq.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), sub.ValidFrom)
	rq.False(sub.RequireUnload)
}
