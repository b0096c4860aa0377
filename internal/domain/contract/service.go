package contract

//go:generate mockgen -source=service.go -destination=../../../mocks/service_mock.go -package=mocks

import (
	"context"

	"github.com/diegoclair/jadwal-bot/internal/domain/entity"
)

// JadwalService backs the slash commands.
type JadwalService interface {
	AddEvent(ctx context.Context, channelRef string, input entity.EventInput) (*entity.Event, error)
	// ListEvents accepts a YYYY-MM-DD date or the keywords "today"/"tomorrow";
	// an empty date means today. An empty person or "all" lists everybody.
	ListEvents(ctx context.Context, channelRef, date, person string) (*entity.DaySchedule, error)
}
