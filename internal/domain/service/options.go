package service

import (
	"time"

	"github.com/diegoclair/jadwal-bot/internal/domain/contract"
	"github.com/diegoclair/jadwal-bot/pkg/logger"
	"github.com/diegoclair/jadwal-bot/pkg/metrics"
)

// Option configures the services built by New.
type Option func(*options)

type options struct {
	clock          contract.Clock
	log            logger.Logger
	metrics        *metrics.Manager
	timezone       string
	reminderSpec   string
	summarySpec    string
	maxConcurrency int
	callTimeout    time.Duration
}

// WithClock replaces the system clock.
func WithClock(clock contract.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTimezone sets the zone the cron triggers are evaluated in.
func WithTimezone(name string) Option {
	return func(o *options) {
		if name != "" {
			o.timezone = name
		}
	}
}

// WithSchedules sets the cron specs of the reminder sweep and the daily summary.
func WithSchedules(reminderSpec, summarySpec string) Option {
	return func(o *options) {
		if reminderSpec != "" {
			o.reminderSpec = reminderSpec
		}
		if summarySpec != "" {
			o.summarySpec = summarySpec
		}
	}
}

// WithMaxConcurrency bounds how many tenants a pass processes at once.
func WithMaxConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConcurrency = n
		}
	}
}

// WithCallTimeout bounds every store and notifier call.
func WithCallTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}
