package reminder

import "github.com/diegoclair/jadwal-bot/internal/domain/entity"

// Advance reports whether an event at current may move to next. Only strictly
// forward moves are accepted; anything else is a silent no-op, which keeps a
// late or duplicate evaluation from rewinding a stage already persisted.
func Advance(current, next entity.Stage) bool {
	return next.Valid() && current.Before(next)
}
