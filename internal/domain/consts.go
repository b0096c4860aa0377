package domain

import "time"

// DefaultTimezone is used for tenants that do not configure their own zone.
const DefaultTimezone = "Asia/Jakarta"

// Cron specs for the two poll triggers (standard 5-field format).
const (
	DefaultDailySummarySpec = "0 5 * * *"
	DefaultReminderSpec     = "* * * * *"
)

// Layouts used for the tenant-local date and time-of-day of an event.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// DisplayDateLayout renders dates in replies and summaries.
const DisplayDateLayout = "Monday, 02 January 2006"

// GraceMinutes is how far past due (exclusive) the "starting now" reminder may still fire.
const GraceMinutes = 2

// DefaultCallTimeout bounds every store read/write and notifier send.
const DefaultCallTimeout = 10 * time.Second

// DefaultMaxConcurrency bounds how many tenants a single pass processes at once.
const DefaultMaxConcurrency = 4

// AllPeople matches every person when filtering schedules.
var AllPeople = map[string]bool{
	"":      true,
	"all":   true,
	"semua": true,
}
