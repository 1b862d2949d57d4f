package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	caseBaseURL = "https://raw.githubusercontent.com/CSSEGISandData/COVID-19/master/csse_covid_19_data/csse_covid_19_time_series"

	DefaultConfirmedURL    = caseBaseURL + "/time_series_covid19_confirmed_global.csv"
	DefaultDeathsURL       = caseBaseURL + "/time_series_covid19_deaths_global.csv"
	DefaultRecoveredURL    = caseBaseURL + "/time_series_covid19_recovered_global.csv"
	DefaultVaccinationsURL = "https://raw.githubusercontent.com/owid/covid-19-data/master/public/data/vaccinations/vaccinations.csv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ConfirmedURL    string `env:"CONFIRMED_URL"`
	DeathsURL       string `env:"DEATHS_URL"`
	RecoveredURL    string `env:"RECOVERED_URL"`
	VaccinationsURL string `env:"VACCINATIONS_URL"`

	GeoCSVPath     string `env:"GEO_CSV_PATH"     envDefault:"./region.csv"`
	GeoCSVEncoding string `env:"GEO_CSV_ENCODING" envDefault:"latin1"`
	GeoDSN         string `env:"GEO_DSN"`

	CacheTTL       time.Duration `env:"CACHE_TTL"        envDefault:"1h"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT"     envDefault:"30s"`
	MaxRetries     int           `env:"MAX_RETRIES"      envDefault:"3"`
	RetryBaseDelay time.Duration `env:"RETRY_BASE_DELAY" envDefault:"2s"`
	MaxConcurrency int           `env:"MAX_CONCURRENCY"  envDefault:"4"`

	ExportPath string `env:"EXPORT_PATH"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the .env file and returns a populated Config struct.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, falling back to system env vars")
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ConfirmedURL == "" {
		c.ConfirmedURL = DefaultConfirmedURL
	}
	if c.DeathsURL == "" {
		c.DeathsURL = DefaultDeathsURL
	}
	if c.RecoveredURL == "" {
		c.RecoveredURL = DefaultRecoveredURL
	}
	if c.VaccinationsURL == "" {
		c.VaccinationsURL = DefaultVaccinationsURL
	}
}

// Validate rejects values the loader cannot work with.
func (c *Config) Validate() error {
	if c.CacheTTL <= 0 {
		return fmt.Errorf("config: CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("config: MAX_RETRIES must be at least 1, got %d", c.MaxRetries)
	}
	switch c.GeoCSVEncoding {
	case "latin1", "utf8":
	default:
		return fmt.Errorf("config: GEO_CSV_ENCODING must be latin1 or utf8, got %q", c.GeoCSVEncoding)
	}
	return nil
}
