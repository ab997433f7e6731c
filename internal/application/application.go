package application

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"wb_slots/internal/config"
	"wb_slots/internal/infrastructure/notifier"
	"wb_slots/internal/infrastructure/persistence"
	"wb_slots/internal/infrastructure/sheets"
	"wb_slots/internal/infrastructure/wildberries"
	"wb_slots/internal/server"
	"wb_slots/internal/transport/bot"
	"wb_slots/internal/worker"
	"wb_slots/pkg/application/connectors"
	"wb_slots/pkg/application/modules"
	"wb_slots/pkg/logx"
	"wb_slots/pkg/middlewarex"
)

const (
	httpShutdownTimeout        = 10 * time.Second
	httpReadHeaderTimeout      = 5 * time.Second
	responseLoggingFieldMaxLen = 2048
)

func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db.Ping: %w", err)
	}

	ledger := persistence.NewLedgerRepository(db)

	provider := wildberries.NewClient(
		cfg.Wildberries,
		wildberries.NewLimiter(cfg.Wildberries.RateLimit, cfg.Wildberries.RateWindow),
	)

	source, err := sheets.New(ctx, cfg.Sheets)
	if err != nil {
		return fmt.Errorf("sheets.New: %w", err)
	}

	alertBot, err := notifier.NewTelegramBot(
		cfg.Bot.Token,
		cfg.Monitor.NotifyAttempts,
		cfg.Monitor.NotifyRetryBackoff,
	)
	if err != nil {
		return fmt.Errorf("notifier.NewTelegramBot: %w", err)
	}

	if err := alertBot.SendText(ctx, cfg.Bot.AdminID, "🚀 Slot monitor is starting."); err != nil {
		// Not fatal: the monitor still works, the admin just misses the ping.
		logger(ctx).Warn("startup message failed", logx.Error(err))
	}

	scanner := worker.NewSlotScanner(provider, source, ledger, alertBot).
		WithInterval(cfg.Monitor.Interval).
		WithBackoff(cfg.Monitor.BackoffBase, cfg.Monitor.BackoffMax).
		WithBatchSize(cfg.Monitor.OptionsBatchSize).
		WithCycleHook(adminSummaryHook(alertBot, cfg.Bot.AdminID))

	commandBot, err := bot.New(cfg.Bot, alertBot.Bot(), scanner)
	if err != nil {
		return fmt.Errorf("bot.New: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.App.ProbeListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.App.MetricsListenAddress,
	}.Run(ctx, g)

	modules.HTTPServer{
		ShutdownTimeout: httpShutdownTimeout,
	}.Run(ctx, g, statusServer(ctx, cfg, scanner, provider))

	g.Go(func() error {
		return scanner.Run(ctx)
	})

	g.Go(func() error {
		return commandBot.Run(ctx)
	})

	return g.Wait()
}

func statusServer(
	ctx context.Context,
	cfg config.Config,
	scanner *worker.SlotScanner,
	provider *wildberries.Client,
) *http.Server {
	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, responseLoggingFieldMaxLen),
		middlewarex.ResponseLogging(masker, responseLoggingFieldMaxLen),
	)

	server.NewServer(cfg.App.Name, cfg.App.Version, scanner, provider).RegisterRoutes(router)

	return &http.Server{
		Addr:              cfg.App.StatusListenAddress,
		Handler:           router,
		ReadHeaderTimeout: httpReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
}

// adminSummaryHook tells the admin chat about cycles that actually did
// something; quiet cycles stay quiet.
func adminSummaryHook(alertBot *notifier.TelegramBot, adminID int64) func(context.Context, worker.CycleSummary) {
	return func(ctx context.Context, summary worker.CycleSummary) {
		if summary.Notified == 0 && summary.Errors == 0 {
			return
		}

		text := fmt.Sprintf(
			"Cycle done in %s: %d matched, %d notified, %d duplicates, %d errors.",
			summary.Duration().Round(time.Millisecond),
			summary.Matched,
			summary.Notified,
			summary.Duplicates,
			summary.Errors,
		)

		if err := alertBot.SendText(ctx, adminID, text); err != nil {
			logger(ctx).Warn("admin summary failed", logx.Error(err))
		}
	}
}
