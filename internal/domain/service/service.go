package service

import (
	"github.com/diegoclair/jadwal-bot/internal/domain"
	"github.com/diegoclair/jadwal-bot/internal/domain/contract"
	"github.com/diegoclair/jadwal-bot/pkg/logger"
	"github.com/diegoclair/jadwal-bot/pkg/metrics"
)

type Services struct {
	Jadwal    *jadwalService
	Scheduler *scheduler
}

func New(dm contract.DataManager, notifier contract.Notifier, opts ...Option) *Services {
	o := buildOptions(opts...)

	return &Services{
		Jadwal:    newJadwal(dm, o),
		Scheduler: newScheduler(dm, notifier, o),
	}
}

func buildOptions(opts ...Option) options {
	o := options{
		clock:          SystemClock(),
		log:            logger.NewNop(),
		timezone:       domain.DefaultTimezone,
		reminderSpec:   domain.DefaultReminderSpec,
		summarySpec:    domain.DefaultDailySummarySpec,
		maxConcurrency: domain.DefaultMaxConcurrency,
		callTimeout:    domain.DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = metrics.NewManager()
	}
	return o
}
