package contract

//go:generate mockgen -source=notifier.go -destination=../../../mocks/notifier_mock.go -package=mocks

import (
	"context"
	"time"
)

// Notifier delivers a rendered message to a tenant's channel.
type Notifier interface {
	Send(ctx context.Context, channelRef, text string) error
}

// Clock is the only time source the scheduling engine trusts.
type Clock interface {
	Now(loc *time.Location) time.Time
}
