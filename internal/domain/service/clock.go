package service

import (
	"time"

	"github.com/diegoclair/jadwal-bot/internal/domain/contract"
)

type systemClock struct{}

// SystemClock reads the wall clock.
func SystemClock() contract.Clock {
	return systemClock{}
}

func (systemClock) Now(loc *time.Location) time.Time {
	return time.Now().In(loc)
}
