package wildberries

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"

	"wb_slots/internal/config"
	"wb_slots/internal/domain/entity"
	"wb_slots/pkg/contextx"
	"wb_slots/pkg/errcodes"
	"wb_slots/pkg/httpx"
	"wb_slots/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	pathWarehouses   = "/api/v1/warehouses"
	pathCoefficients = "/api/v1/acceptance/coefficients"
	pathOptions      = "/api/v1/acceptance/options"

	// The options endpoint takes at most this many items per request.
	maxOptionItems = entity.MaxOptionItems

	catalogCacheKey = "warehouses"
)

// Client is the typed supplies-API client. Every request passes through
// the shared Limiter before it is dispatched.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	limiter     *Limiter
	catalog     *cache.Cache
	catalogTTL  time.Duration
	maxAttempts int
	backoff     time.Duration
}

// catalogEntry keeps the fetch time so an expired catalog can still serve
// as a stale fallback when a refresh fails.
type catalogEntry struct {
	catalog   *entity.Catalog
	fetchedAt time.Time
}

func NewClient(cfg config.Wildberries, limiter *Limiter) *Client {
	transport := httpx.NewAuthTokenRoundTripper(
		httpx.NewLoggingRoundTripper(
			http.DefaultTransport,
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
			httpx.WithLogFieldMaxLen(2048),
		),
		cfg.APIKey,
		"",
	)

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		baseURL:     cfg.BaseURL,
		limiter:     limiter,
		catalog:     cache.New(cache.NoExpiration, 0),
		catalogTTL:  cfg.CatalogTTL,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.RetryBackoff,
	}
}

// Warehouses returns the warehouse catalog, refreshing it over the API at
// most once per TTL. A stale catalog is better than none, so on refresh
// failure the expired copy keeps serving if one exists.
func (c *Client) Warehouses(ctx context.Context) (*entity.Catalog, error) {
	cached, haveCached := c.cachedCatalog()
	if haveCached && time.Since(cached.fetchedAt) < c.catalogTTL {
		return cached.catalog, nil
	}

	var schemas []warehouseSchema
	if err := c.getJSON(ctx, pathWarehouses, &schemas); err != nil {
		if haveCached {
			logger(ctx).Warn("warehouse catalog refresh failed, serving stale", logx.Error(err))
			return cached.catalog, nil
		}
		return nil, err
	}

	warehouses := make([]entity.Warehouse, 0, len(schemas))
	for _, s := range schemas {
		warehouses = append(warehouses, s.toDomain())
	}

	catalog := entity.NewCatalog(warehouses)
	c.catalog.SetDefault(catalogCacheKey, catalogEntry{catalog: catalog, fetchedAt: time.Now()})

	logger(ctx).Info("warehouse catalog refreshed", slog.Int("count", len(warehouses)))

	return catalog, nil
}

func (c *Client) cachedCatalog() (catalogEntry, bool) {
	cached, found := c.catalog.Get(catalogCacheKey)
	if !found {
		return catalogEntry{}, false
	}
	return cached.(catalogEntry), true
}

// Coefficients fetches the 14-day acceptance-coefficients feed across all
// warehouses. Records with unparseable dates are skipped and reported,
// never failing the feed.
func (c *Client) Coefficients(ctx context.Context) ([]entity.Slot, error) {
	var schemas []coefficientSchema
	if err := c.getJSON(ctx, pathCoefficients, &schemas); err != nil {
		return nil, err
	}

	slots := make([]entity.Slot, 0, len(schemas))
	for _, s := range schemas {
		slot, err := s.toDomain()
		if err != nil {
			logger(ctx).Warn("skipping malformed coefficient record", logx.Error(err))
			continue
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// Options asks which warehouses accept each (barcode, quantity) pair and
// in what packaging. Per-item errors come back inside the results; only
// call-level failures return an error.
func (c *Client) Options(ctx context.Context, items []entity.OptionItem, warehouseID *int64) ([]entity.AcceptanceOption, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if len(items) > maxOptionItems {
		return nil, &ProviderError{
			Op:   pathOptions,
			Code: errcodes.ProviderBadRequest,
		}
	}

	body := make([]optionItemSchema, 0, len(items))
	for _, item := range items {
		body = append(body, optionItemSchema{Quantity: item.Quantity, Barcode: item.Barcode})
	}

	path := pathOptions
	if warehouseID != nil {
		path += "?warehouseID=" + strconv.FormatInt(*warehouseID, 10)
	}

	var response optionsResponseSchema
	if err := c.postJSON(ctx, path, body, &response); err != nil {
		return nil, err
	}

	options := make([]entity.AcceptanceOption, 0, len(response.Result))
	for _, r := range response.Result {
		options = append(options, r.toDomain())
	}

	return options, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, dest)
}

func (c *Client) postJSON(ctx context.Context, path string, body, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return payloadError(path, fmt.Errorf("json.Marshal: %w", err))
	}
	return c.doJSON(ctx, http.MethodPost, path, payload, dest)
}

// doJSON performs one API call with quota accounting and bounded retry of
// transient failures.
func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, dest any) error {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			wait := c.backoff << (attempt - 2)

			logger(ctx).Warn(
				"retrying supplies API call",
				slog.String("path", path),
				slog.Int("attempt", attempt),
				logx.Error(lastErr),
			)

			select {
			case <-ctx.Done():
				return transientError(path, ctx.Err())
			case <-time.After(wait):
			}
		}

		if err := c.limiter.Acquire(ctx); err != nil {
			return transientError(path, err)
		}

		lastErr = c.doOnce(ctx, method, path, body, dest)
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, body []byte, dest any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return payloadError(path, fmt.Errorf("http.NewRequest: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return transientError(path, err)
		}
		return transientError(path, fmt.Errorf("httpClient.Do: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return statusError(path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return payloadError(path, fmt.Errorf("json.Decode: %w", err))
	}

	return nil
}
