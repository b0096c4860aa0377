package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/diegoclair/jadwal-bot/internal/domain"
	"github.com/diegoclair/jadwal-bot/internal/domain/entity"
	"github.com/diegoclair/jadwal-bot/internal/domain/reminder"
)

func renderReminder(r reminder.Reminder) string {
	switch r.Class {
	case reminder.ClassThirtyMinutes:
		return fmt.Sprintf("🔔 *30 minutes to go!* 🔔\n\n*%s* for *%s* starts soon (at %s).", r.Activity, r.Person, r.Time)
	case reminder.ClassTenMinutes:
		return fmt.Sprintf("🔔 *Get ready, 10 minutes left!* 🔔\n\nDon't forget, *%s* (at %s) for *%s* is coming up!", r.Activity, r.Time, r.Person)
	case reminder.ClassFiveMinutes:
		return fmt.Sprintf("🔔 *5 minutes left, everyone!* 🔔\n\nAlmost there! *%s* at %s for *%s*!", r.Activity, r.Time, r.Person)
	default:
		return fmt.Sprintf("✨ *It's time!* ✨\n\n*%s* for *%s* starts now. Good luck!", r.Activity, r.Person)
	}
}

// ScheduleLines renders one "- *HH:MM* - activity" line per event.
func ScheduleLines(events []*entity.Event) string {
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		lines = append(lines, fmt.Sprintf("- *%s* - %s", ev.Time, ev.Activity))
	}
	return strings.Join(lines, "\n")
}

// FormatDate renders a YYYY-MM-DD date for humans, falling back to the raw value.
func FormatDate(date string) string {
	d, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format(domain.DisplayDateLayout)
}

func renderDailySummary(date string, group entity.PersonSchedule) string {
	return fmt.Sprintf("*Good morning! ☀️ Here is the schedule for %s today, %s*\n%s",
		group.Person, FormatDate(date), ScheduleLines(group.Events))
}
