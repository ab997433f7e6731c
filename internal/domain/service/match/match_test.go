package match_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wb_slots/internal/domain/entity"
	"wb_slots/internal/domain/service/match"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func testSubscription() entity.Subscription {
	return entity.Subscription{
		ID:             "sheet1:2",
		Barcode:        "123456789",
		Quantity:       7,
		Warehouses:     []int64{205349},
		MaxCoefficient: 0,
		ValidFrom:      date("2024-04-01"),
		ValidUntil:     date("2024-04-20"),
		OwnerChatID:    1217838677,
	}
}

func testSlot() entity.Slot {
	return entity.Slot{
		Date:          date("2024-04-11"),
		Coefficient:   0,
		WarehouseID:   205349,
		WarehouseName: "Коледино",
		AllowUnload:   true,
		BoxTypeID:     entity.BoxTypeBox,
		BoxTypeName:   "Короба",
	}
}

func TestMatch(t *testing.T) {
	rq := require.New(t)

	option := &entity.AcceptanceOption{
		Barcode: "123456789",
		Warehouses: []entity.WarehouseOption{
			{WarehouseID: 205349, CanBox: true},
		},
	}

	testCases := []struct {
		name    string
		mutate  func(*entity.Subscription, *entity.Slot)
		option  *entity.AcceptanceOption
		matches int
	}{
		{
			name:    "Example scenario matches exactly once",
			mutate:  func(*entity.Subscription, *entity.Slot) {},
			option:  option,
			matches: 1,
		},
		{
			name: "Closed coefficient never matches",
			mutate: func(sub *entity.Subscription, slot *entity.Slot) {
				sub.MaxCoefficient = 100
				slot.Coefficient = entity.CoefficientClosed
			},
			option: option,
		},
		{
			name: "Coefficient above ceiling",
			mutate: func(_ *entity.Subscription, slot *entity.Slot) {
				slot.Coefficient = 1
			},
			option: option,
		},
		{
			name: "Date before window",
			mutate: func(_ *entity.Subscription, slot *entity.Slot) {
				slot.Date = date("2024-03-31")
			},
			option: option,
		},
		{
			name: "Date after window",
			mutate: func(_ *entity.Subscription, slot *entity.Slot) {
				slot.Date = date("2024-04-21")
			},
			option: option,
		},
		{
			name: "Window bounds are inclusive",
			mutate: func(_ *entity.Subscription, slot *entity.Slot) {
				slot.Date = date("2024-04-20")
			},
			option:  option,
			matches: 1,
		},
		{
			name: "Warehouse not in explicit set",
			mutate: func(_ *entity.Subscription, slot *entity.Slot) {
				slot.WarehouseID = 300123
			},
			option: option,
		},
		{
			name: "Paid slot within raised ceiling",
			mutate: func(sub *entity.Subscription, slot *entity.Slot) {
				sub.MaxCoefficient = 3
				slot.Coefficient = 2
			},
			option:  option,
			matches: 1,
		},
		{
			name: "Unload not required by default",
			mutate: func(_ *entity.Subscription, slot *entity.Slot) {
				slot.AllowUnload = false
			},
			option:  option,
			matches: 1,
		},
		{
			name: "RequireUnload drops non-unloadable slots",
			mutate: func(sub *entity.Subscription, slot *entity.Slot) {
				sub.RequireUnload = true
				slot.AllowUnload = false
			},
			option: option,
		},
		{
			name: "Box type rejected by options",
			mutate: func(_ *entity.Subscription, slot *entity.Slot) {
				slot.BoxTypeID = entity.BoxTypeMonopallet
			},
			option: option,
		},
		{
			name:    "Explicit warehouse trusted without options",
			mutate:  func(*entity.Subscription, *entity.Slot) {},
			matches: 1,
		},
		{
			name: "Any-warehouse mode requires options",
			mutate: func(sub *entity.Subscription, _ *entity.Slot) {
				sub.Warehouses = nil
			},
		},
		{
			name: "Any-warehouse mode intersects with shippable set",
			mutate: func(sub *entity.Subscription, _ *entity.Slot) {
				sub.Warehouses = nil
			},
			option:  option,
			matches: 1,
		},
		{
			name: "Any-warehouse mode skips non-shippable warehouse",
			mutate: func(sub *entity.Subscription, slot *entity.Slot) {
				sub.Warehouses = nil
				slot.WarehouseID = 300123
			},
			option: option,
		},
		{
			name:   "Per-item options error matches nothing",
			mutate: func(*entity.Subscription, *entity.Slot) {},
			option: &entity.AcceptanceOption{
				Barcode: "123456789",
				Err:     &entity.OptionError{Title: "barcode not found"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sub := testSubscription()
			slot := testSlot()
			tc.mutate(&sub, &slot)

			got := match.Match(sub, []entity.Slot{slot}, tc.option)
			require.Len(t, got, tc.matches)

			if tc.matches == 1 {
				rq.Equal(sub.ID, got[0].SubscriptionID)
				rq.Equal(slot.WarehouseID, got[0].WarehouseID)
				rq.Equal(entity.DateOnly(slot.Date), got[0].Date)
				rq.Equal(slot.Coefficient, got[0].Coefficient)
				rq.Equal(slot.BoxTypeID, got[0].BoxTypeID)
			}
		})
	}
}

func TestMatchProcessesWholeFeed(t *testing.T) {
	rq := require.New(t)

	sub := testSubscription()
	sub.MaxCoefficient = 2

	var slots []entity.Slot
	for day := 1; day <= 14; day++ {
		slot := testSlot()
		slot.Date = date("2024-04-01").AddDate(0, 0, day-1)
		slot.Coefficient = day % 3 // 0,1,2 cycling
		slots = append(slots, slot)
	}

	got := match.Match(sub, slots, nil)
	rq.Len(got, 14)

	seen := map[string]struct{}{}
	for _, id := range got {
		seen[id.Key()] = struct{}{}
	}
	rq.Len(seen, 14, "identities must be distinct")
}
