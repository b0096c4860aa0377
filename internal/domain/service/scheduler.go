package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/diegoclair/jadwal-bot/internal/domain"
	"github.com/diegoclair/jadwal-bot/internal/domain/contract"
	"github.com/diegoclair/jadwal-bot/internal/domain/entity"
	"github.com/diegoclair/jadwal-bot/internal/domain/reminder"
	"github.com/diegoclair/jadwal-bot/pkg/logger"
	"github.com/diegoclair/jadwal-bot/pkg/metrics"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// Poll triggers.
const (
	TriggerReminder     = "reminder"
	TriggerDailySummary = "daily_summary"
)

// SweepResult counts what one reminder sweep did for one tenant.
type SweepResult struct {
	Evaluated int
	Sent      int
	Advanced  int
	Missed    int
	Failed    int
}

// SummaryResult counts what one daily summary did for one tenant.
type SummaryResult struct {
	Sent   int
	Failed int
}

type scheduler struct {
	dm       contract.DataManager
	notifier contract.Notifier
	clock    contract.Clock
	log      logger.Logger
	metrics  *metrics.Manager

	timezone       string
	reminderSpec   string
	summarySpec    string
	maxConcurrency int
	callTimeout    time.Duration

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	running bool

	missedMu sync.Mutex
	missed   map[missKey]struct{}
}

func newScheduler(dm contract.DataManager, notifier contract.Notifier, o options) *scheduler {
	return &scheduler{
		dm:             dm,
		notifier:       notifier,
		clock:          o.clock,
		log:            o.log,
		metrics:        o.metrics,
		timezone:       o.timezone,
		reminderSpec:   o.reminderSpec,
		summarySpec:    o.summarySpec,
		maxConcurrency: o.maxConcurrency,
		callTimeout:    o.callTimeout,
		missed:         make(map[missKey]struct{}),
	}
}

// Start registers both triggers and starts them. It is a no-op when already running.
func (s *scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	loc, err := time.LoadLocation(s.timezone)
	if err != nil {
		return fmt.Errorf("failed to load scheduler timezone %q: %w", s.timezone, err)
	}

	cronLog := cronLogger{log: s.log}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog)),
	)

	if _, err := cron.ParseStandard(s.summarySpec); err != nil {
		return fmt.Errorf("invalid daily summary schedule %q: %w", s.summarySpec, err)
	}

	runCtx, cancel := context.WithCancel(ctx)

	if _, err := c.AddFunc(s.reminderSpec, func() { _ = s.RunReminderPass(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("invalid reminder schedule %q: %w", s.reminderSpec, err)
	}

	zones := s.summaryZones(ctx)
	for _, zone := range zones {
		if _, err := c.AddFunc(zonedSpec(zone, s.summarySpec), func() { _ = s.runDailySummaryZone(runCtx, zone, zones) }); err != nil {
			cancel()
			return fmt.Errorf("invalid daily summary schedule %q: %w", s.summarySpec, err)
		}
	}

	c.Start()
	s.cron = c
	s.cancel = cancel
	s.running = true

	s.log.Info(ctx, "scheduler started",
		logger.String("timezone", s.timezone),
		logger.String("reminder_schedule", s.reminderSpec),
		logger.String("summary_schedule", s.summarySpec),
		logger.Any("summary_zones", zones),
	)
	return nil
}

// summaryZones lists the zones the daily summary fires in: the scheduler's
// own zone first, then every distinct valid zone of the active tenants.
func (s *scheduler) summaryZones(ctx context.Context) []string {
	zones := []string{s.timezone}
	if hasZonePrefix(s.summarySpec) {
		return zones
	}

	var tenants []*entity.Tenant
	err := s.withTimeout(ctx, func(ctx context.Context) (err error) {
		tenants, err = s.dm.Tenant().ListActive(ctx)
		return err
	})
	if err != nil {
		s.log.Warn(ctx, "failed to list tenant zones, daily summary runs in the default zone only", logger.Err(err))
		return zones
	}

	for _, tenant := range tenants {
		zone := s.tenantZone(tenant)
		if slices.Contains(zones, zone) {
			continue
		}
		if _, err := time.LoadLocation(zone); err != nil {
			s.log.Warn(ctx, "ignoring invalid tenant timezone", logger.String("tenant_id", tenant.ID), logger.String("timezone", zone))
			continue
		}
		zones = append(zones, zone)
	}
	return zones
}

// tenantZone is the tenant's zone, or the scheduler's when the tenant has none.
func (s *scheduler) tenantZone(tenant *entity.Tenant) string {
	if tenant.Timezone == "" {
		return s.timezone
	}
	return tenant.Timezone
}

// zonedSpec pins spec to zone unless it already names one.
func zonedSpec(zone, spec string) string {
	if hasZonePrefix(spec) {
		return spec
	}
	return "CRON_TZ=" + zone + " " + spec
}

func hasZonePrefix(spec string) bool {
	return strings.HasPrefix(spec, "CRON_TZ=") || strings.HasPrefix(spec, "TZ=")
}

// Stop halts both triggers and waits for running passes until ctx expires,
// then cancels whatever is still in flight.
func (s *scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.log.Info(ctx, "scheduler stopping")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn(ctx, "scheduler stop timed out, cancelling running passes")
	}
	s.cancel()
	s.running = false
}

// RunReminderPass sweeps every active tenant once.
func (s *scheduler) RunReminderPass(ctx context.Context) error {
	return s.runPass(ctx, TriggerReminder, nil, func(ctx context.Context, log logger.Logger, tenant *entity.Tenant) error {
		res, err := s.sweepTenant(ctx, log, tenant)
		if err != nil {
			return err
		}
		if res.Sent > 0 || res.Failed > 0 {
			log.Info(ctx, "tenant swept",
				logger.Int("evaluated", res.Evaluated),
				logger.Int("sent", res.Sent),
				logger.Int("advanced", res.Advanced),
				logger.Int("missed", res.Missed),
				logger.Int("failed", res.Failed),
			)
		}
		return nil
	})
}

// RunDailySummaryPass sends today's summary for every active tenant once.
func (s *scheduler) RunDailySummaryPass(ctx context.Context) error {
	return s.runDailySummary(ctx, nil)
}

// runDailySummaryZone summarizes the tenants living in zone. The scheduler's
// own zone also takes tenants whose zone had no trigger registered at start.
func (s *scheduler) runDailySummaryZone(ctx context.Context, zone string, registered []string) error {
	return s.runDailySummary(ctx, func(tenant *entity.Tenant) bool {
		tz := s.tenantZone(tenant)
		if tz == zone {
			return true
		}
		return zone == s.timezone && !slices.Contains(registered, tz)
	})
}

func (s *scheduler) runDailySummary(ctx context.Context, include func(*entity.Tenant) bool) error {
	return s.runPass(ctx, TriggerDailySummary, include, func(ctx context.Context, log logger.Logger, tenant *entity.Tenant) error {
		res, err := s.summarizeTenant(ctx, log, tenant)
		if err != nil {
			return err
		}
		log.Info(ctx, "daily summary sent", logger.Int("sent", res.Sent), logger.Int("failed", res.Failed))
		return nil
	})
}

type tenantFunc func(ctx context.Context, log logger.Logger, tenant *entity.Tenant) error

// runPass fans fn out over the active tenants accepted by include (all when
// nil) with bounded concurrency. A failing or panicking tenant is logged and
// never stops the others.
func (s *scheduler) runPass(ctx context.Context, trigger string, include func(*entity.Tenant) bool, fn tenantFunc) error {
	start := time.Now()
	log := s.log.With(logger.String("pass_id", uuid.NewString()), logger.String("trigger", trigger))

	var tenants []*entity.Tenant
	err := s.withTimeout(ctx, func(ctx context.Context) (err error) {
		tenants, err = s.dm.Tenant().ListActive(ctx)
		return err
	})
	if err != nil {
		log.Error(ctx, "failed to list active tenants", logger.Err(err))
		return fmt.Errorf("failed to list active tenants: %w", err)
	}

	if include != nil {
		tenants = slices.DeleteFunc(tenants, func(t *entity.Tenant) bool { return !include(t) })
	}

	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)

	for _, tenant := range tenants {
		g.Go(func() (err error) {
			tenantLog := log.With(logger.String("tenant_id", tenant.ID))
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
				if err != nil {
					s.metrics.TenantFailed(trigger)
					tenantLog.Error(ctx, "tenant pass failed", logger.Err(err))
				}
				err = nil
			}()
			return fn(ctx, tenantLog, tenant)
		})
	}
	_ = g.Wait()

	elapsed := time.Since(start)
	s.metrics.PassCompleted(trigger, elapsed)
	log.Debug(ctx, "pass completed", logger.Int("tenants", len(tenants)), logger.Duration("elapsed", elapsed))
	return nil
}

// SweepTenant runs one reminder sweep for a single tenant.
func (s *scheduler) SweepTenant(ctx context.Context, tenant *entity.Tenant) (SweepResult, error) {
	return s.sweepTenant(ctx, s.log.With(logger.String("tenant_id", tenant.ID)), tenant)
}

func (s *scheduler) sweepTenant(ctx context.Context, log logger.Logger, tenant *entity.Tenant) (SweepResult, error) {
	var res SweepResult

	loc, err := time.LoadLocation(s.tenantZone(tenant))
	if err != nil {
		return res, fmt.Errorf("invalid timezone %q: %w", s.tenantZone(tenant), err)
	}

	now := s.clock.Now(loc)
	today := now.Format(domain.DateLayout)

	events, err := s.listEvents(ctx, tenant, today)
	if err != nil {
		return res, err
	}

	for _, ev := range events {
		if ev.Date != today || ev.Stage.IsTerminal() {
			continue
		}
		res.Evaluated++

		evLog := log.With(logger.Int64("position", ev.Position), logger.String("stage", ev.Stage.String()))

		at, err := ev.At(loc)
		if err != nil {
			evLog.Warn(ctx, "skipping event with invalid date or time",
				logger.String("date", ev.Date), logger.String("time", ev.Time), logger.Err(err))
			res.Failed++
			continue
		}

		rem, due := reminder.Evaluate(now, at, ev)
		if !due {
			if reminder.Missed(now, at, ev.Stage) {
				res.Missed++
				s.reportMissed(ctx, evLog, tenant, ev, now, at)
			}
			continue
		}

		err = s.withTimeout(ctx, func(ctx context.Context) error {
			return s.notifier.Send(ctx, tenant.ChannelRef, renderReminder(rem))
		})
		if err != nil {
			// stage stays put so the next pass re-evaluates the event
			s.metrics.DeliveryFailed()
			evLog.Error(ctx, "failed to send reminder", logger.String("class", string(rem.Class)), logger.Err(err))
			res.Failed++
			continue
		}
		res.Sent++
		s.metrics.ReminderSent(string(rem.Class))

		if !reminder.Advance(ev.Stage, rem.Target) {
			s.metrics.StageUpdate(metrics.UpdateRejected)
			continue
		}

		err = s.withTimeout(ctx, func(ctx context.Context) error {
			return s.dm.Event().UpdateStage(ctx, tenant.StoreRef, ev.Position, rem.Target)
		})
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.metrics.StageUpdate(metrics.UpdateNotFound)
			evLog.Warn(ctx, "event vanished before its stage was saved", logger.Err(err))
			res.Failed++
			continue
		case err != nil:
			s.metrics.StageUpdate(metrics.UpdateFailed)
			evLog.Error(ctx, "failed to save stage", logger.String("target", rem.Target.String()), logger.Err(err))
			res.Failed++
			continue
		}

		ev.Stage = rem.Target
		res.Advanced++
		s.metrics.StageUpdate(metrics.UpdateAdvanced)
		evLog.Info(ctx, "reminder sent", logger.String("class", string(rem.Class)), logger.String("target", rem.Target.String()))
	}

	return res, nil
}

// missKey identifies a missed event for reporting.
type missKey struct {
	storeRef string
	position int64
	date     string
}

// reportMissed warns and counts the first sweep that finds an event past the
// grace window, however late that sweep is, and only debug-logs later ones.
func (s *scheduler) reportMissed(ctx context.Context, log logger.Logger, tenant *entity.Tenant, ev *entity.Event, now, at time.Time) {
	overdue := -reminder.MinutesUntil(now, at)
	if s.markMissed(missKey{storeRef: tenant.StoreRef, position: ev.Position, date: ev.Date}) {
		s.metrics.EventMissed()
		log.Warn(ctx, "event passed its grace window without a final reminder", logger.Int("minutes_overdue", overdue))
		return
	}
	log.Debug(ctx, "skipping missed event", logger.Int("minutes_overdue", overdue))
}

// markMissed records key and reports whether it was new. Entries older than
// the day before key's date are dropped. The set only dedupes reporting; a
// restart reports still-missed events once more.
func (s *scheduler) markMissed(key missKey) bool {
	s.missedMu.Lock()
	defer s.missedMu.Unlock()

	if _, seen := s.missed[key]; seen {
		return false
	}

	if d, err := time.Parse(domain.DateLayout, key.date); err == nil {
		cutoff := d.AddDate(0, 0, -1).Format(domain.DateLayout)
		for k := range s.missed {
			if k.date < cutoff {
				delete(s.missed, k)
			}
		}
	}

	s.missed[key] = struct{}{}
	return true
}

// SummarizeTenant sends today's per-person summary for a single tenant.
func (s *scheduler) SummarizeTenant(ctx context.Context, tenant *entity.Tenant) (SummaryResult, error) {
	return s.summarizeTenant(ctx, s.log.With(logger.String("tenant_id", tenant.ID)), tenant)
}

func (s *scheduler) summarizeTenant(ctx context.Context, log logger.Logger, tenant *entity.Tenant) (SummaryResult, error) {
	var res SummaryResult

	loc, err := time.LoadLocation(s.tenantZone(tenant))
	if err != nil {
		return res, fmt.Errorf("invalid timezone %q: %w", s.tenantZone(tenant), err)
	}
	today := s.clock.Now(loc).Format(domain.DateLayout)

	events, err := s.listEvents(ctx, tenant, today)
	if err != nil {
		return res, err
	}

	var todays []*entity.Event
	for _, ev := range events {
		if ev.Date == today {
			todays = append(todays, ev)
		}
	}
	if len(todays) == 0 {
		log.Debug(ctx, "nothing scheduled today")
		return res, nil
	}

	for _, group := range entity.GroupByPerson(todays) {
		err := s.withTimeout(ctx, func(ctx context.Context) error {
			return s.notifier.Send(ctx, tenant.ChannelRef, renderDailySummary(today, group))
		})
		if err != nil {
			res.Failed++
			s.metrics.DeliveryFailed()
			log.Error(ctx, "failed to send daily summary", logger.String("person", group.Person), logger.Err(err))
			continue
		}
		res.Sent++
		s.metrics.SummarySent()
	}

	return res, nil
}

func (s *scheduler) listEvents(ctx context.Context, tenant *entity.Tenant, date string) ([]*entity.Event, error) {
	var events []*entity.Event
	err := s.withTimeout(ctx, func(ctx context.Context) (err error) {
		events, err = s.dm.Event().ListByDate(ctx, tenant.StoreRef, date)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// withTimeout runs fn under the per-call timeout. A timed-out call fails
// like any other error and only affects the event or tenant it belongs to.
func (s *scheduler) withTimeout(ctx context.Context, fn func(ctx context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	return fn(callCtx)
}

// cronLogger routes robfig/cron's internal logging into our logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(context.Background(), "cron: "+msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	fields := append(kvFields(keysAndValues), logger.Err(err))
	l.log.Error(context.Background(), "cron: "+msg, fields...)
}

func kvFields(kv []any) []logger.Field {
	fields := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, logger.Any(key, kv[i+1]))
	}
	return fields
}
