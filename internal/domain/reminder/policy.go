// Package reminder decides when a scheduled event is due for a reminder.
// Everything here is pure: no clock, no I/O.
package reminder

import (
	"time"

	"github.com/diegoclair/jadwal-bot/internal/domain"
	"github.com/diegoclair/jadwal-bot/internal/domain/entity"
)

// Class is the kind of notification a reminder produces.
type Class string

const (
	ClassThirtyMinutes Class = "30 minutes out"
	ClassTenMinutes    Class = "10 minutes out"
	ClassFiveMinutes   Class = "5 minutes out"
	ClassStartingNow   Class = "starting now"
)

// Reminder carries what the caller needs to render and persist a reminder.
type Reminder struct {
	Person   string
	Activity string
	Time     string
	Class    Class
	Target   entity.Stage
}

// window fires when lower < delta <= upper and the current stage is allowed.
type window struct {
	lower, upper int
	allowed      func(entity.Stage) bool
	target       entity.Stage
	class        Class
}

// windows are evaluated in order. They are half-open and disjoint on delta so
// at most one can match.
var windows = []window{
	{
		lower: 10, upper: 30,
		allowed: func(s entity.Stage) bool { return s == entity.StageRecorded },
		target:  entity.StageNotified30,
		class:   ClassThirtyMinutes,
	},
	{
		lower: 5, upper: 10,
		allowed: func(s entity.Stage) bool { return s == entity.StageRecorded || s == entity.StageNotified30 },
		target:  entity.StageNotified10,
		class:   ClassTenMinutes,
	},
	{
		lower: 0, upper: 5,
		allowed: func(s entity.Stage) bool { return s != entity.StageNotified5 && s != entity.StageDone },
		target:  entity.StageNotified5,
		class:   ClassFiveMinutes,
	},
	{
		lower: -domain.GraceMinutes, upper: 0,
		allowed: func(s entity.Stage) bool { return s != entity.StageDone },
		target:  entity.StageDone,
		class:   ClassStartingNow,
	},
}

// MinutesUntil returns at-now in whole minutes, truncated toward zero.
func MinutesUntil(now, at time.Time) int {
	return int(at.Sub(now) / time.Minute)
}

// Evaluate returns the reminder due for ev at now, where at is the event's
// absolute instant. The second result is false when nothing fires.
func Evaluate(now, at time.Time, ev *entity.Event) (Reminder, bool) {
	if ev.Stage.IsTerminal() {
		return Reminder{}, false
	}

	delta := MinutesUntil(now, at)
	for _, w := range windows {
		if delta <= w.lower || delta > w.upper {
			continue
		}
		if !w.allowed(ev.Stage) {
			return Reminder{}, false
		}
		return Reminder{
			Person:   entity.CapitalizeName(ev.Person),
			Activity: ev.Activity,
			Time:     ev.Time,
			Class:    w.class,
			Target:   w.target,
		}, true
	}

	return Reminder{}, false
}

// Missed reports whether the event is past the grace window without having
// reached DONE. Such events are skipped, never notified.
func Missed(now, at time.Time, stage entity.Stage) bool {
	return !stage.IsTerminal() && MinutesUntil(now, at) <= -domain.GraceMinutes
}
