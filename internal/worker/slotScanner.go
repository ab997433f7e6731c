package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"wb_slots/internal/domain"
	"wb_slots/internal/domain/entity"
	"wb_slots/internal/domain/service/match"
	"wb_slots/pkg/errcodes"
	"wb_slots/pkg/logx"
)

type SlotProvider interface {
	Warehouses(ctx context.Context) (*entity.Catalog, error)
	Coefficients(ctx context.Context) ([]entity.Slot, error)
	Options(ctx context.Context, items []entity.OptionItem, warehouseID *int64) ([]entity.AcceptanceOption, error)
}

type SubscriptionSource interface {
	LoadAll(ctx context.Context) ([]entity.Subscription, error)
}

type Ledger interface {
	Contains(ctx context.Context, id entity.SlotIdentity) (bool, error)
	Record(ctx context.Context, id entity.SlotIdentity, notifiedAt time.Time) error
	Prune(ctx context.Context, before time.Time) (int64, error)
}

type Notifier interface {
	SendSlotAlert(ctx context.Context, alert entity.SlotAlert) error
}

// SlotScanner runs the poll cycle: load subscriptions, fetch the slot feed
// and eligibility data, match, dedup against the ledger and notify. One
// goroutine drives it, so cycles never overlap.
type SlotScanner struct {
	provider SlotProvider
	source   SubscriptionSource
	ledger   Ledger
	notifier Notifier

	interval    time.Duration
	backoffBase time.Duration
	backoffMax  time.Duration
	batchSize   int
	now         func() time.Time
	cycleHook   func(ctx context.Context, summary CycleSummary)

	// Fast dedup front over the durable ledger; entries outlive the
	// 14-day feed horizon and are evicted by TTL.
	seen *cache.Cache

	mu        sync.Mutex
	lastCycle *CycleSummary
}

func NewSlotScanner(
	provider SlotProvider,
	source SubscriptionSource,
	ledger Ledger,
	notifier Notifier,
) *SlotScanner {
	return &SlotScanner{
		provider:    provider,
		source:      source,
		ledger:      ledger,
		notifier:    notifier,
		interval:    5 * time.Minute,
		backoffBase: time.Minute,
		backoffMax:  30 * time.Minute,
		batchSize:   entity.MaxOptionItems,
		now:         time.Now,
		seen:        cache.New(15*24*time.Hour, time.Hour),
	}
}

func (w *SlotScanner) WithInterval(interval time.Duration) *SlotScanner {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

func (w *SlotScanner) WithBackoff(base, max time.Duration) *SlotScanner {
	if base > 0 {
		w.backoffBase = base
	}
	if max > 0 {
		w.backoffMax = max
	}
	return w
}

func (w *SlotScanner) WithBatchSize(size int) *SlotScanner {
	if size > 0 && size <= entity.MaxOptionItems {
		w.batchSize = size
	}
	return w
}

// WithCycleHook registers a callback invoked after every completed cycle,
// used for the admin summary message.
func (w *SlotScanner) WithCycleHook(hook func(ctx context.Context, summary CycleSummary)) *SlotScanner {
	w.cycleHook = hook
	return w
}

// LastCycle returns the most recent cycle summary, if any cycle ran yet.
func (w *SlotScanner) LastCycle() (CycleSummary, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.lastCycle == nil {
		return CycleSummary{}, false
	}
	return *w.lastCycle, true
}

// Run polls until the context is cancelled. The first cycle starts
// immediately; after a failed cycle the next one waits for an exponential
// backoff instead of the regular interval.
func (w *SlotScanner) Run(ctx context.Context) error {
	logger(ctx).Info("slot scanner started", slog.Duration("interval", w.interval))

	failures := 0

	for {
		if err := w.RunCycle(ctx); err != nil {
			failures++
			cyclesTotal.WithLabelValues("error").Inc()
			logger(ctx).Error("cycle failed", slog.Int("consecutive_failures", failures), logx.Error(err))
		} else {
			failures = 0
			cyclesTotal.WithLabelValues("ok").Inc()
		}

		wait := w.interval
		if failures > 0 {
			wait = w.backoffFor(failures)
		}

		select {
		case <-ctx.Done():
			logger(ctx).Info("slot scanner stopped")
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (w *SlotScanner) backoffFor(failures int) time.Duration {
	backoff := w.backoffBase
	for i := 1; i < failures; i++ {
		backoff *= 2
		if backoff >= w.backoffMax {
			return w.backoffMax
		}
	}
	if backoff > w.backoffMax {
		return w.backoffMax
	}
	return backoff
}

// RunCycle executes a single poll cycle.
func (w *SlotScanner) RunCycle(ctx context.Context) error {
	summary := CycleSummary{StartedAt: w.now()}

	defer func() {
		summary.FinishedAt = w.now()

		w.mu.Lock()
		w.lastCycle = &summary
		w.mu.Unlock()

		if w.cycleHook != nil {
			w.cycleHook(ctx, summary)
		}
	}()

	subs, err := w.source.LoadAll(ctx)
	if err != nil {
		summary.Errors++
		return fmt.Errorf("load subscriptions: %w", err)
	}
	summary.Subscriptions = len(subs)

	if len(subs) == 0 {
		logger(ctx).Info("no subscriptions, skipping cycle")
		return nil
	}

	catalog, err := w.provider.Warehouses(ctx)
	if err != nil {
		summary.Errors++
		return fmt.Errorf("load warehouse catalog: %w", err)
	}

	subs = w.resolveWarehouses(ctx, catalog, subs, &summary)

	var (
		slots   []entity.Slot
		options map[entity.OptionItem]*entity.AcceptanceOption
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		slots, err = w.provider.Coefficients(gctx)
		if err != nil {
			return fmt.Errorf("load coefficients: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		options = w.loadOptions(gctx, subs, &summary)
		return nil
	})
	if err := g.Wait(); err != nil {
		summary.Errors++
		return err
	}
	summary.SlotsSeen = len(slots)

	bySlot := slotIndex(slots, catalog)

	for _, sub := range subs {
		opt := options[entity.OptionItem{Barcode: sub.Barcode, Quantity: sub.Quantity}]
		if opt != nil && opt.IsError() {
			logger(ctx).Warn("subscription rejected by options feed",
				slog.String("subscription_id", sub.ID),
				slog.String("barcode", sub.Barcode),
				slog.String("detail", opt.Err.Detail),
			)
			continue
		}

		ids := match.Match(sub, slots, opt)
		summary.Matched += len(ids)
		slotsMatchedTotal.Add(float64(len(ids)))

		for _, id := range ids {
			w.handleMatch(ctx, sub, id, bySlot, &summary)
		}
	}

	pruned, err := w.ledger.Prune(ctx, w.now())
	if err != nil {
		summary.Errors++
		ledgerErrorsTotal.Inc()
		logger(ctx).Error("ledger prune failed", logx.Error(err))
	} else {
		summary.Pruned = pruned
	}

	logger(ctx).Info("cycle finished",
		slog.Int("subscriptions", summary.Subscriptions),
		slog.Int("slots", summary.SlotsSeen),
		slog.Int("matched", summary.Matched),
		slog.Int("notified", summary.Notified),
		slog.Int("duplicates", summary.Duplicates),
		slog.Int("errors", summary.Errors),
	)

	return nil
}

// handleMatch pushes one matched slot through dedup and delivery. The
// identity is recorded only after the alert is out (or the recipient is
// gone for good), so a crash in between re-notifies rather than loses.
func (w *SlotScanner) handleMatch(
	ctx context.Context,
	sub entity.Subscription,
	id entity.SlotIdentity,
	bySlot map[string]entity.Slot,
	summary *CycleSummary,
) {
	key := id.Key()

	if _, hit := w.seen.Get(key); hit {
		summary.Duplicates++
		return
	}

	known, err := w.ledger.Contains(ctx, id)
	if err != nil {
		// Without the ledger we cannot tell a new slot from an old one;
		// skip rather than spam, the slot is still there next cycle.
		summary.Errors++
		ledgerErrorsTotal.Inc()
		logger(ctx).Error("ledger lookup failed", slog.String("identity", key), logx.Error(err))
		return
	}
	if known {
		summary.Duplicates++
		w.seen.SetDefault(key, struct{}{})
		return
	}

	alert := entity.SlotAlert{
		Subscription: sub,
		Slot:         bySlot[slotKey(id.WarehouseID, id.Date, id.Coefficient, id.BoxTypeID)],
		Identity:     id,
	}

	if err := w.notifier.SendSlotAlert(ctx, alert); err != nil {
		if !domain.HasCode(err, errcodes.RecipientBlocked) {
			summary.Errors++
			notificationsTotal.WithLabelValues("failed").Inc()
			logger(ctx).Error("alert delivery failed", slog.String("identity", key), logx.Error(err))
			return
		}

		// The chat is gone; record anyway so the dead recipient does not
		// get retried every cycle.
		notificationsTotal.WithLabelValues("blocked").Inc()
		logger(ctx).Warn("recipient unreachable",
			slog.String("subscription_id", sub.ID),
			slog.Int64("chat_id", sub.OwnerChatID),
		)
	} else {
		summary.Notified++
		notificationsTotal.WithLabelValues("ok").Inc()
	}

	if err := w.ledger.Record(ctx, id, w.now()); err != nil {
		summary.Errors++
		ledgerErrorsTotal.Inc()
		logger(ctx).Error("ledger record failed", slog.String("identity", key), logx.Error(err))
	}

	w.seen.SetDefault(key, struct{}{})
}

// resolveWarehouses validates spreadsheet warehouse IDs against the
// catalog and turns warehouse names into IDs. A subscription whose
// warehouse set fully fails resolution is skipped: without a resolved set
// it would silently widen to "any warehouse".
func (w *SlotScanner) resolveWarehouses(
	ctx context.Context,
	catalog *entity.Catalog,
	subs []entity.Subscription,
	summary *CycleSummary,
) []entity.Subscription {
	out := make([]entity.Subscription, 0, len(subs))

	for _, sub := range subs {
		hadExplicit := len(sub.Warehouses) > 0

		ids := make([]int64, 0, len(sub.Warehouses))
		for _, id := range sub.Warehouses {
			if _, ok := catalog.ByID(id); !ok {
				summary.Errors++
				logger(ctx).Warn("unknown warehouse id",
					slog.String("subscription_id", sub.ID),
					slog.Int64("warehouse_id", id),
					slog.String("code", string(errcodes.WarehouseUnknown)),
				)
				continue
			}
			ids = append(ids, id)
		}
		sub.Warehouses = ids

		for _, name := range sub.WarehouseNames {
			wh, ok := catalog.ByName(name)
			if !ok {
				summary.Errors++
				logger(ctx).Warn("unknown warehouse name",
					slog.String("subscription_id", sub.ID),
					slog.String("warehouse", name),
					slog.String("code", string(errcodes.WarehouseUnknown)),
				)
				continue
			}
			if !sub.AllowsWarehouse(wh.ID) {
				sub.Warehouses = append(sub.Warehouses, wh.ID)
			}
		}

		wantedSome := hadExplicit || len(sub.WarehouseNames) > 0
		if wantedSome && len(sub.Warehouses) == 0 {
			logger(ctx).Warn("subscription skipped, no warehouse resolved",
				slog.String("subscription_id", sub.ID))
			continue
		}

		out = append(out, sub)
	}

	return out
}

// loadOptions fetches acceptance options for every distinct
// (barcode, quantity) pair. A failed batch is logged and dropped; the
// other batches still serve their subscriptions.
func (w *SlotScanner) loadOptions(
	ctx context.Context,
	subs []entity.Subscription,
	summary *CycleSummary,
) map[entity.OptionItem]*entity.AcceptanceOption {
	items := optionItems(subs)
	out := make(map[entity.OptionItem]*entity.AcceptanceOption, len(items))

	for _, batch := range optionBatches(items, w.batchSize) {
		byBarcode := make(map[string]entity.OptionItem, len(batch))
		for _, item := range batch {
			byBarcode[item.Barcode] = item
		}

		opts, err := w.provider.Options(ctx, batch, nil)
		if err != nil {
			summary.Errors++
			logger(ctx).Error("load options batch failed", slog.Int("items", len(batch)), logx.Error(err))
			continue
		}

		for i := range opts {
			item, ok := byBarcode[opts[i].Barcode]
			if !ok {
				continue
			}
			out[item] = &opts[i]
		}
	}

	return out
}

func optionItems(subs []entity.Subscription) []entity.OptionItem {
	seen := make(map[entity.OptionItem]struct{}, len(subs))
	items := make([]entity.OptionItem, 0, len(subs))

	for _, sub := range subs {
		item := entity.OptionItem{Barcode: sub.Barcode, Quantity: sub.Quantity}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		items = append(items, item)
	}

	return items
}

// optionBatches splits items into request-sized batches while keeping each
// barcode unique within its batch, since the response is keyed by barcode.
func optionBatches(items []entity.OptionItem, size int) [][]entity.OptionItem {
	var out [][]entity.OptionItem

	pending := items
	for len(pending) > 0 {
		batch := make([]entity.OptionItem, 0, min(size, len(pending)))
		barcodes := make(map[string]struct{}, size)
		var spill []entity.OptionItem

		for _, item := range pending {
			if len(batch) == size {
				spill = append(spill, item)
				continue
			}
			if _, dup := barcodes[item.Barcode]; dup {
				spill = append(spill, item)
				continue
			}
			barcodes[item.Barcode] = struct{}{}
			batch = append(batch, item)
		}

		out = append(out, batch)
		pending = spill
	}

	return out
}

// slotIndex keys the feed by the slot part of an identity, so a matched
// identity can be rendered with the slot's display fields. Missing
// warehouse names are filled from the catalog.
func slotIndex(slots []entity.Slot, catalog *entity.Catalog) map[string]entity.Slot {
	out := make(map[string]entity.Slot, len(slots))

	for _, slot := range slots {
		if slot.WarehouseName == "" {
			if wh, ok := catalog.ByID(slot.WarehouseID); ok {
				slot.WarehouseName = wh.Name
			}
		}
		out[slotKey(slot.WarehouseID, entity.DateOnly(slot.Date), slot.Coefficient, slot.BoxTypeID)] = slot
	}

	return out
}

func slotKey(warehouseID int64, date time.Time, coefficient int, boxType entity.BoxType) string {
	return fmt.Sprintf("%d|%s|%d|%d", warehouseID, date.Format(time.DateOnly), coefficient, boxType)
}
