package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"wb_slots/internal/config"
	"wb_slots/internal/domain"
	"wb_slots/internal/domain/entity"
	"wb_slots/pkg/contextx"
	"wb_slots/pkg/errcodes"
	"wb_slots/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Source reads the subscription table from a Google spreadsheet. The
// spreadsheet is the system of record: every cycle gets a fresh snapshot
// and nothing is written back.
type Source struct {
	service       *sheets.Service
	spreadsheetID string
	readRange     string
}

func New(ctx context.Context, cfg config.Sheets) (*Source, error) {
	credentials, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(credentials))
	if err != nil {
		return nil, fmt.Errorf("sheets.NewService: %w", err)
	}

	return &Source{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     cfg.ReadRange,
	}, nil
}

// LoadAll returns the complete current subscription set. Malformed rows
// are skipped and logged; a row problem never aborts the load.
func (s *Source) LoadAll(ctx context.Context) ([]entity.Subscription, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.SubscriptionSourceError, "read spreadsheet")
	}

	subscriptions := make([]entity.Subscription, 0, len(resp.Values))
	skipped := 0

	for i, row := range resp.Values {
		if rowEmpty(row) {
			continue
		}

		sub, err := ParseRow(i+rowOffset(s.readRange), row)
		if err != nil {
			skipped++
			logger(ctx).Warn(
				"skipping malformed subscription row",
				slog.Int("row", i+rowOffset(s.readRange)),
				logx.Error(err),
			)
			continue
		}

		subscriptions = append(subscriptions, sub)
	}

	if skipped > 0 {
		logger(ctx).Warn(
			"subscription load finished with skipped rows",
			slog.Int("loaded", len(subscriptions)),
			slog.Int("skipped", skipped),
		)
	}

	return subscriptions, nil
}

func rowEmpty(row []any) bool {
	for _, cell := range row {
		if fmt.Sprintf("%v", cell) != "" {
			return false
		}
	}
	return true
}
