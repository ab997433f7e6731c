package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App         App
	Postgres    Postgres
	Wildberries Wildberries
	Sheets      Sheets
	Bot         Bot
	Monitor     Monitor
}

type App struct {
	Name                 string `env:"APP_NAME" envDefault:"wb-slots"`
	Version              string `env:"APP_VERSION" envDefault:"dev"`
	StatusListenAddress  string `env:"STATUS_LISTEN_ADDRESS" envDefault:":8080"`
	ProbeListenAddress   string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
	MetricsListenAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
