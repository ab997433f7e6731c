package server

import (
	"context"
	"fmt"
	"net/http"

	"wb_slots/internal/domain/entity"
	"wb_slots/internal/worker"
	"wb_slots/pkg/httpx/reply"
	"wb_slots/pkg/httpx/req"
	"wb_slots/pkg/rest"
)

type catalogProvider interface {
	Warehouses(ctx context.Context) (*entity.Catalog, error)
	Options(ctx context.Context, items []entity.OptionItem, warehouseID *int64) ([]entity.AcceptanceOption, error)
}

// Server exposes the operational API: the last cycle summary and the
// warehouse catalog, so sheet editors can look up exact warehouse names.
type Server struct {
	name     string
	version  string
	scanner  *worker.SlotScanner
	provider catalogProvider
}

func NewServer(name, version string, scanner *worker.SlotScanner, provider catalogProvider) Server {
	return Server{
		name:     name,
		version:  version,
		scanner:  scanner,
		provider: provider,
	}
}

func (s Server) getV1Status(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	status := newRESTStatus(s.name, s.version)
	if summary, ok := s.scanner.LastCycle(); ok {
		restSummary := newRESTCycleSummary(summary)
		status.LastCycle = &restSummary
	}

	reply.JSON(ctx, w, http.StatusOK, status)

	return nil
}

func (s Server) getV1Warehouses(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	catalog, err := s.provider.Warehouses(ctx)
	if err != nil {
		return fmt.Errorf("provider.Warehouses: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTWarehouses(catalog.All()))

	return nil
}

// postV1Check answers "where can this product ship right now", so sheet
// editors can sanity-check a row before subscribing it.
func (s Server) postV1Check(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CheckRequest
	if err := req.Read(r, &request); err != nil {
		return err
	}

	options, err := s.provider.Options(ctx,
		[]entity.OptionItem{{Barcode: request.Barcode, Quantity: request.Quantity}},
		request.WarehouseID,
	)
	if err != nil {
		return fmt.Errorf("provider.Options: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTCheckResponse(options))

	return nil
}
