package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slot_scanner_cycles_total",
		Help: "Polling cycles by outcome.",
	}, []string{"result"})

	slotsMatchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slot_scanner_slots_matched_total",
		Help: "Slot/subscription matches found, before dedup.",
	})

	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slot_scanner_notifications_total",
		Help: "Alert deliveries by outcome.",
	}, []string{"result"})

	ledgerErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slot_scanner_ledger_errors_total",
		Help: "Ledger reads or writes that failed.",
	})
)
