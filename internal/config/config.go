// Package config provides configuration management for the pace-bias
// pipelines.
package config

import (
	"fmt"

	"github.com/yourusername/pace-bias/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Backtest BacktestConfig `mapstructure:"backtest" validate:"required"`
	Cards    CardsConfig    `mapstructure:"cards" validate:"required"`
	Reco     RecoConfig     `mapstructure:"reco" validate:"required"`
	Schedule ScheduleConfig `mapstructure:"schedule" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents the JV-Data PostgreSQL connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// BacktestConfig represents the combination backtest configuration.
// AnchorDate is the inclusive end of the replay window; empty means today.
type BacktestConfig struct {
	AnchorDate string   `mapstructure:"anchor_date" validate:"omitempty,datetime=2006-01-02"`
	Years      int      `mapstructure:"years" validate:"required,gt=0"`
	UnitStake  float64  `mapstructure:"unit_stake" validate:"required,gt=0"`
	Markets    []string `mapstructure:"markets" validate:"required,min=1,markets"`
	OutputPath string   `mapstructure:"output_path" validate:"required"`
}

// CardsConfig represents race-day card handling configuration
type CardsConfig struct {
	DataDir                string  `mapstructure:"data_dir" validate:"required"`
	SourceURL              string  `mapstructure:"source_url" validate:"omitempty,url"`
	APIToken               string  `mapstructure:"api_token"`
	TimeoutSeconds         int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RequestsPerSecond      float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	RetryAttempts          int     `mapstructure:"retry_attempts" validate:"gte=0"`
	HistoryCacheTTLSeconds int     `mapstructure:"history_cache_ttl_seconds" validate:"required,gt=0"`
}

// RecoConfig represents the recommendation gate thresholds
type RecoConfig struct {
	WinROIMin    float64 `mapstructure:"win_roi_min" validate:"gte=0"`
	PlaceROIMin  float64 `mapstructure:"place_roi_min" validate:"gte=0"`
	WinOddsMin   float64 `mapstructure:"win_odds_min" validate:"gte=0"`
	WinOddsMax   float64 `mapstructure:"win_odds_max" validate:"gte=0"`
	NoWinOddsCut bool    `mapstructure:"no_win_odds_cut"`
}

// ScheduleConfig represents the nightly job scheduling
type ScheduleConfig struct {
	NightlyCron string `mapstructure:"nightly_cron" validate:"required"`
	TimeZone    string `mapstructure:"time_zone" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// BacktestWindow resolves the configured replay window to concrete dates.
// The anchor defaults to today when unset.
func (c *Config) BacktestWindow(today models.YMD) (from, to models.YMD, err error) {
	to = today
	if c.Backtest.AnchorDate != "" {
		to, err = models.ParseISODate(c.Backtest.AnchorDate)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid backtest anchor_date: %w", err)
		}
	}
	from = to.AddYears(-c.Backtest.Years)
	if from > to {
		return 0, 0, models.ErrInvalidDateRange
	}
	return from, to, nil
}
