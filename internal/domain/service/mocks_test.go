package service

import (
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/diegoclair/jadwal-bot/mocks"
	"github.com/diegoclair/jadwal-bot/pkg/logger"
	"github.com/diegoclair/jadwal-bot/pkg/metrics"
	"go.uber.org/mock/gomock"
)

type allMocks struct {
	mockDataManager *mocks.MockDataManager
	mockEventRepo   *mocks.MockEventRepo
	mockTenantRepo  *mocks.MockTenantRepo
	mockNotifier    *mocks.MockNotifier
}

func newServiceTestMock(t *testing.T) (m allMocks, ctrl *gomock.Controller) {
	t.Helper()

	ctrl = gomock.NewController(t)

	dm := mocks.NewMockDataManager(ctrl)

	eventRepo := mocks.NewMockEventRepo(ctrl)
	dm.EXPECT().Event().Return(eventRepo).AnyTimes()

	tenantRepo := mocks.NewMockTenantRepo(ctrl)
	dm.EXPECT().Tenant().Return(tenantRepo).AnyTimes()

	m = allMocks{
		mockDataManager: dm,
		mockEventRepo:   eventRepo,
		mockTenantRepo:  tenantRepo,
		mockNotifier:    mocks.NewMockNotifier(ctrl),
	}

	return
}

// fakeClock is a settable Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now(loc *time.Location) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now.In(loc)
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func testOptions(clock *fakeClock, opts ...Option) options {
	base := []Option{
		WithClock(clock),
		WithLogger(logger.NewNop()),
		WithMetrics(metrics.NewManager()),
		WithCallTimeout(time.Second),
	}
	return buildOptions(append(base, opts...)...)
}

var jakarta = mustLoad("Asia/Jakarta")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
