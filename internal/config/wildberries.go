package config

import "time"

type Wildberries struct {
	// APIKey must be scoped to the "Supplies" category.
	APIKey         string        `env:"WB_API_KEY,required" json:"-"`
	BaseURL        string        `env:"WB_BASE_URL" envDefault:"https://supplies-api.wildberries.ru"`
	RequestTimeout time.Duration `env:"WB_REQUEST_TIMEOUT" envDefault:"15s"`

	// The documented quota is 6 requests per minute per credential.
	RateLimit  int           `env:"WB_RATE_LIMIT" envDefault:"6"`
	RateWindow time.Duration `env:"WB_RATE_WINDOW" envDefault:"1m"`

	MaxAttempts  int           `env:"WB_MAX_ATTEMPTS" envDefault:"3"`
	RetryBackoff time.Duration `env:"WB_RETRY_BACKOFF" envDefault:"2s"`

	CatalogTTL time.Duration `env:"WB_CATALOG_TTL" envDefault:"1h"`
}
