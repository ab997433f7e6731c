package config

import "time"

type Monitor struct {
	Interval time.Duration `env:"MONITOR_INTERVAL" envDefault:"5m"`

	// Backoff applied after a failed fetch before the next cycle is allowed.
	BackoffBase time.Duration `env:"MONITOR_BACKOFF_BASE" envDefault:"1m"`
	BackoffMax  time.Duration `env:"MONITOR_BACKOFF_MAX" envDefault:"30m"`

	// How many (barcode, quantity) pairs go into one options request.
	// The API caps a request at 5000 items.
	OptionsBatchSize int `env:"MONITOR_OPTIONS_BATCH_SIZE" envDefault:"5000"`

	NotifyAttempts     int           `env:"MONITOR_NOTIFY_ATTEMPTS" envDefault:"3"`
	NotifyRetryBackoff time.Duration `env:"MONITOR_NOTIFY_RETRY_BACKOFF" envDefault:"2s"`
}
