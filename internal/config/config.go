package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/diegoclair/jadwal-bot/internal/domain"
	"github.com/diegoclair/jadwal-bot/internal/domain/entity"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

const (
	envPrefix  = "JADWAL_"
	envFileKey = "JADWAL_CONFIG"
)

type Config struct {
	SlackBotToken      string `koanf:"slack_bot_token"`
	SlackSigningSecret string `koanf:"slack_signing_secret"`
	DatabasePath       string `koanf:"database_path"`
	Port               string `koanf:"port"`
	LogLevel           string `koanf:"log_level"`

	// Timezone is the zone the cron triggers run in and the default zone of tenants.
	Timezone         string        `koanf:"timezone"`
	DailySummaryCron string        `koanf:"daily_summary_cron"`
	ReminderCron     string        `koanf:"reminder_cron"`
	MaxConcurrency   int           `koanf:"max_concurrency"`
	CallTimeout      time.Duration `koanf:"call_timeout"`

	Tenants []TenantConfig `koanf:"tenants"`
}

// TenantConfig is a registry entry seeded at startup.
type TenantConfig struct {
	ID       string `koanf:"id"`
	Channel  string `koanf:"channel"`
	Store    string `koanf:"store"`
	Timezone string `koanf:"timezone"`
	Active   *bool  `koanf:"active"`
}

func New() *Config {
	return &Config{
		DatabasePath:     "./jadwal.db",
		Port:             "3000",
		LogLevel:         "info",
		Timezone:         domain.DefaultTimezone,
		DailySummaryCron: domain.DefaultDailySummarySpec,
		ReminderCron:     domain.DefaultReminderSpec,
		MaxConcurrency:   domain.DefaultMaxConcurrency,
		CallTimeout:      domain.DefaultCallTimeout,
	}
}

// Load layers, from low to high precedence, the defaults, the YAML file named
// by JADWAL_CONFIG and JADWAL_* environment variables.
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envFileKey); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", ErrLoadConfig, path, err)
		}
	}

	// JADWAL_REMINDER_CRON -> reminder_cron
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: reading environment: %w", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database_path must not be empty", ErrInvalidConfig)
	}
	if c.Port == "" {
		return fmt.Errorf("%w: port must not be empty", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	if _, err := cron.ParseStandard(c.ReminderCron); err != nil {
		return fmt.Errorf("%w: reminder_cron %q: %w", ErrInvalidConfig, c.ReminderCron, err)
	}
	if _, err := cron.ParseStandard(c.DailySummaryCron); err != nil {
		return fmt.Errorf("%w: daily_summary_cron %q: %w", ErrInvalidConfig, c.DailySummaryCron, err)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("%w: max_concurrency must be at least 1", ErrInvalidConfig)
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("%w: call_timeout must be positive", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Tenants))
	for i, t := range c.Tenants {
		if t.ID == "" || t.Channel == "" {
			return fmt.Errorf("%w: tenants[%d] needs an id and a channel", ErrInvalidConfig, i)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate tenant id %q", ErrInvalidConfig, t.ID)
		}
		seen[t.ID] = true

		if t.Timezone != "" {
			if _, err := time.LoadLocation(t.Timezone); err != nil {
				return fmt.Errorf("%w: tenant %q timezone %q: %w", ErrInvalidConfig, t.ID, t.Timezone, err)
			}
		}
	}

	return nil
}

// TenantEntities turns the configured tenants into registry rows. The store
// defaults to the tenant id and the timezone to the global one.
func (c *Config) TenantEntities() []*entity.Tenant {
	tenants := make([]*entity.Tenant, 0, len(c.Tenants))
	for _, t := range c.Tenants {
		tenant := &entity.Tenant{
			ID:         t.ID,
			ChannelRef: t.Channel,
			StoreRef:   t.Store,
			Timezone:   t.Timezone,
			IsActive:   t.Active == nil || *t.Active,
		}
		if tenant.StoreRef == "" {
			tenant.StoreRef = t.ID
		}
		if tenant.Timezone == "" {
			tenant.Timezone = c.Timezone
		}
		tenants = append(tenants, tenant)
	}
	return tenants
}
