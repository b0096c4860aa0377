package contract

//go:generate mockgen -source=repo.go -destination=../../../mocks/repo_mock.go -package=mocks

import (
	"context"

	"github.com/diegoclair/jadwal-bot/internal/domain/entity"
)

// DataManager aggregates all repository interfaces
type DataManager interface {
	WithTransaction(ctx context.Context, fn func(dm DataManager) error) error
	Event() EventRepo
	Tenant() TenantRepo
}

// EventRepo is the tenant-scoped event store. It offers no atomicity beyond
// overwriting a single row.
type EventRepo interface {
	// List returns the events of storeRef in insertion order. An empty store
	// yields an empty slice, not an error.
	List(ctx context.Context, storeRef string) ([]*entity.Event, error)
	// ListByDate is List narrowed to one tenant-local YYYY-MM-DD date.
	ListByDate(ctx context.Context, storeRef, date string) ([]*entity.Event, error)
	Append(ctx context.Context, storeRef string, event *entity.Event) error
	// UpdateStage overwrites the stage of the event at position. It fails with
	// domain.ErrNotFound when the position no longer exists.
	UpdateStage(ctx context.Context, storeRef string, position int64, stage entity.Stage) error
}

// TenantRepo is the read side of the tenant registry plus the startup seed.
type TenantRepo interface {
	Upsert(ctx context.Context, tenant *entity.Tenant) error
	GetByChannelRef(ctx context.Context, channelRef string) (*entity.Tenant, error)
	ListActive(ctx context.Context) ([]*entity.Tenant, error)
}
