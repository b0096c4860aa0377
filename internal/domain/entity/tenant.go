package entity

import (
	"time"

	"github.com/diegoclair/jadwal-bot/internal/domain"
)

// Tenant is an independent group with its own event list and channel.
type Tenant struct {
	ID         string
	ChannelRef string
	StoreRef   string
	Timezone   string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Location loads the tenant's fixed timezone, falling back to the default zone.
func (t *Tenant) Location() (*time.Location, error) {
	if t.Timezone == "" {
		return time.LoadLocation(domain.DefaultTimezone)
	}
	return time.LoadLocation(t.Timezone)
}
