package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/diegoclair/jadwal-bot/internal/domain"
	"github.com/diegoclair/jadwal-bot/internal/domain/contract"
	"github.com/diegoclair/jadwal-bot/internal/domain/entity"
	"github.com/diegoclair/jadwal-bot/pkg/logger"
)

type jadwalService struct {
	dm    contract.DataManager
	clock contract.Clock
	log   logger.Logger
}

func newJadwal(dm contract.DataManager, o options) *jadwalService {
	return &jadwalService{
		dm:    dm,
		clock: o.clock,
		log:   o.log,
	}
}

func (s *jadwalService) AddEvent(ctx context.Context, channelRef string, input entity.EventInput) (*entity.Event, error) {
	tenant, loc, err := s.resolveTenant(ctx, channelRef)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now(loc)

	at, err := time.Parse(domain.TimeLayout, strings.TrimSpace(input.Time))
	if err != nil {
		return nil, fmt.Errorf("%w: time must be HH:MM (24-hour), e.g. 14:00", domain.ErrInvalidInput)
	}

	date, err := resolveDate(input.Date, now)
	if err != nil {
		return nil, err
	}

	person := entity.CapitalizeName(input.Person)
	if person == "" {
		return nil, fmt.Errorf("%w: person is required", domain.ErrInvalidInput)
	}

	activity := strings.TrimSpace(input.Activity)
	if activity == "" {
		return nil, fmt.Errorf("%w: activity is required", domain.ErrInvalidInput)
	}

	event := &entity.Event{
		TenantID:   tenant.ID,
		Date:       date,
		Time:       at.Format(domain.TimeLayout),
		Person:     person,
		Activity:   activity,
		Stage:      entity.StageRecorded,
		RecordedAt: now,
	}

	if err := s.dm.Event().Append(ctx, tenant.StoreRef, event); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}

	s.log.Info(ctx, "event recorded",
		logger.String("tenant_id", tenant.ID),
		logger.Int64("position", event.Position),
		logger.String("date", event.Date),
		logger.String("time", event.Time),
	)

	return event, nil
}

func (s *jadwalService) ListEvents(ctx context.Context, channelRef, date, person string) (*entity.DaySchedule, error) {
	tenant, loc, err := s.resolveTenant(ctx, channelRef)
	if err != nil {
		return nil, err
	}

	day, err := resolveDate(date, s.clock.Now(loc))
	if err != nil {
		return nil, err
	}

	events, err := s.dm.Event().ListByDate(ctx, tenant.StoreRef, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	filter := ""
	if !domain.AllPeople[strings.ToLower(strings.TrimSpace(person))] {
		filter = entity.CapitalizeName(person)
	}

	var matched []*entity.Event
	for _, ev := range events {
		if ev.Date != day {
			continue
		}
		if filter != "" && entity.CapitalizeName(ev.Person) != filter {
			continue
		}
		matched = append(matched, ev)
	}

	return &entity.DaySchedule{
		Date:   day,
		Person: filter,
		Groups: entity.GroupByPerson(matched),
	}, nil
}

func (s *jadwalService) resolveTenant(ctx context.Context, channelRef string) (*entity.Tenant, *time.Location, error) {
	tenant, err := s.dm.Tenant().GetByChannelRef(ctx, channelRef)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	if tenant == nil || !tenant.IsActive {
		return nil, nil, fmt.Errorf("channel %s: %w", channelRef, domain.ErrTenantNotFound)
	}

	loc, err := tenant.Location()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid timezone %q: %w", tenant.Timezone, err)
	}

	return tenant, loc, nil
}

// resolveDate turns "", "today", "tomorrow" or a YYYY-MM-DD date into a date
// string relative to now.
func resolveDate(value string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today":
		return now.Format(domain.DateLayout), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(domain.DateLayout), nil
	}

	d, err := time.Parse(domain.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD, today or tomorrow", domain.ErrInvalidInput)
	}
	return d.Format(domain.DateLayout), nil
}
