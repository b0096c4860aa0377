package entity

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Event is a scheduled activity ("jadwal") of one tenant.
type Event struct {
	// Position identifies the event inside its tenant's event list.
	Position   int64
	TenantID   string
	Date       string // YYYY-MM-DD, tenant-local
	Time       string // HH:MM, tenant-local
	Person     string
	Activity   string
	Stage      Stage
	RecordedAt time.Time
}

// At combines Date and Time into one instant in loc.
func (e *Event) At(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", e.Date+" "+e.Time, loc)
}

// CapitalizeName upper-cases the first letter and lower-cases the rest.
func CapitalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + strings.ToLower(name[size:])
}
