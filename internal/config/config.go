package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/username/vacation-calc/internal/vacation"
	"github.com/username/vacation-calc/pkg/dateutil"
)

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Rules    RulesConfig    `mapstructure:"rules"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig represents holiday sources
type CalendarConfig struct {
	Holidays     []string `mapstructure:"holidays"`      // YYYY-MM-DD dates always excluded
	HolidaysFile string   `mapstructure:"holidays_file"` // "YYYY-MM-DD [note]" per line
	Remote       string   `mapstructure:"remote"`        // "" (disabled) or "isdayoff"
	Country      string   `mapstructure:"country"`       // isdayoff.ru country code
	APIURL       string   `mapstructure:"api_url"`
	FallbackURL  string   `mapstructure:"fallback_url"` // xmlcalendar.ru, {year} placeholder
	CacheTTL     string   `mapstructure:"cache_ttl"`
}

// RulesConfig represents calculation rules
type RulesConfig struct {
	RestDay     string `mapstructure:"rest_day"`      // weekday flagged on vacation boundaries
	MaxWalkDays int    `mapstructure:"max_walk_days"` // calendar days a date walk may visit
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	ReadTimeout string `mapstructure:"read_timeout"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load loads configuration from file and environment.
// With an empty configPath the default locations are searched and a missing
// file is not an error; an explicit configPath must exist.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("calendar.holidays", []string{})
	v.SetDefault("calendar.country", "ru")
	v.SetDefault("calendar.api_url", "https://isdayoff.ru")
	v.SetDefault("calendar.fallback_url", "https://xmlcalendar.ru/data/ru/{year}/calendar.json")
	v.SetDefault("calendar.cache_ttl", "24h")
	v.SetDefault("rules.rest_day", "sunday")
	v.SetDefault("rules.max_walk_days", vacation.DefaultMaxWalkDays)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("log.level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.vacation-calc")
		v.AddConfigPath("/etc/vacation-calc")
	}

	// VACATION_RULES_REST_DAY overrides rules.rest_day
	v.SetEnvPrefix("vacation")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Calendar.Remote {
	case "":
	case "isdayoff":
		if c.Calendar.APIURL == "" {
			return fmt.Errorf("calendar.api_url is required for isdayoff remote")
		}
	default:
		return fmt.Errorf("calendar.remote must be empty or 'isdayoff', got '%s'", c.Calendar.Remote)
	}

	for _, holiday := range c.Calendar.Holidays {
		if _, err := dateutil.ParseDate(holiday); err != nil {
			return fmt.Errorf("calendar.holidays: %w", err)
		}
	}

	if c.Calendar.CacheTTL != "" {
		if _, err := time.ParseDuration(c.Calendar.CacheTTL); err != nil {
			return fmt.Errorf("calendar.cache_ttl: %w", err)
		}
	}

	if _, err := dateutil.ParseWeekday(c.Rules.RestDay); err != nil {
		return fmt.Errorf("rules.rest_day: %w", err)
	}
	if c.Rules.MaxWalkDays <= 0 {
		return fmt.Errorf("rules.max_walk_days must be positive")
	}

	if c.Server.ReadTimeout != "" {
		if _, err := time.ParseDuration(c.Server.ReadTimeout); err != nil {
			return fmt.Errorf("server.read_timeout: %w", err)
		}
	}

	return nil
}

// GetCacheTTL returns cache TTL duration
func (c *CalendarConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// GetRestDay returns the configured rest day. Default: Sunday
func (c *RulesConfig) GetRestDay() time.Weekday {
	day, err := dateutil.ParseWeekday(c.RestDay)
	if err != nil {
		return vacation.DefaultRestDay
	}
	return day
}

// GetReadTimeout returns the HTTP read timeout
func (c *ServerConfig) GetReadTimeout() time.Duration {
	if c.ReadTimeout == "" {
		return 10 * time.Second
	}
	duration, err := time.ParseDuration(c.ReadTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return duration
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Calendar.HolidaysFile = os.ExpandEnv(c.Calendar.HolidaysFile)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
