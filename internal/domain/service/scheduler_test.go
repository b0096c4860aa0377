package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/diegoclair/jadwal-bot/internal/domain"
	"github.com/diegoclair/jadwal-bot/internal/domain/entity"
	"github.com/diegoclair/jadwal-bot/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// 2024-03-04 is a Monday.
var sweepNow = time.Date(2024, 3, 4, 13, 31, 0, 0, jakarta)

func testTenant(id string) *entity.Tenant {
	return &entity.Tenant{
		ID:         id,
		ChannelRef: "C-" + id,
		StoreRef:   id,
		Timezone:   "Asia/Jakarta",
		IsActive:   true,
	}
}

func testEvent(position int64, date, at string, stage entity.Stage) *entity.Event {
	return &entity.Event{
		Position: position,
		TenantID: "family",
		Date:     date,
		Time:     at,
		Person:   "bunga",
		Activity: "meeting",
		Stage:    stage,
	}
}

func Test_scheduler_sweepTenant(t *testing.T) {
	tenant := testTenant("family")

	tests := []struct {
		name      string
		buildMock func(m allMocks)
		want      SweepResult
		wantErr   bool
	}{
		{
			name: "Should send the 30 minutes reminder and advance the stage",
			buildMock: func(m allMocks) {
				gomock.InOrder(
					m.mockEventRepo.EXPECT().
						ListByDate(gomock.Any(), tenant.StoreRef, "2024-03-04").
						Return([]*entity.Event{testEvent(1, "2024-03-04", "14:00", entity.StageRecorded)}, nil).Times(1),

					m.mockNotifier.EXPECT().
						Send(gomock.Any(), tenant.ChannelRef, gomock.Any()).
						DoAndReturn(func(_ context.Context, _ string, text string) error {
							assert.Contains(t, text, "30 minutes to go")
							assert.Contains(t, text, "*Bunga*")
							return nil
						}).Times(1),

					m.mockEventRepo.EXPECT().
						UpdateStage(gomock.Any(), tenant.StoreRef, int64(1), entity.StageNotified30).
						Return(nil).Times(1),
				)
			},
			want: SweepResult{Evaluated: 1, Sent: 1, Advanced: 1},
		},
		{
			name: "Should treat an empty store as nothing to do",
			buildMock: func(m allMocks) {
				m.mockEventRepo.EXPECT().
					ListByDate(gomock.Any(), tenant.StoreRef, "2024-03-04").
					Return([]*entity.Event{}, nil).Times(1)
			},
			want: SweepResult{},
		},
		{
			name: "Should ignore events of other days and finished events",
			buildMock: func(m allMocks) {
				m.mockEventRepo.EXPECT().
					ListByDate(gomock.Any(), tenant.StoreRef, "2024-03-04").
					Return([]*entity.Event{
						testEvent(1, "2024-03-05", "14:00", entity.StageRecorded),
						testEvent(2, "2024-03-03", "14:00", entity.StageRecorded),
						testEvent(3, "2024-03-04", "13:31", entity.StageDone),
					}, nil).Times(1)
			},
			want: SweepResult{},
		},
		{
			name: "Should not act on events outside every window",
			buildMock: func(m allMocks) {
				m.mockEventRepo.EXPECT().
					ListByDate(gomock.Any(), tenant.StoreRef, "2024-03-04").
					Return([]*entity.Event{
						testEvent(1, "2024-03-04", "15:00", entity.StageRecorded),
						testEvent(2, "2024-03-04", "13:50", entity.StageNotified30),
					}, nil).Times(1)
			},
			want: SweepResult{Evaluated: 2},
		},
		{
			name: "Should skip stale events as missed",
			buildMock: func(m allMocks) {
				m.mockEventRepo.EXPECT().
					ListByDate(gomock.Any(), tenant.StoreRef, "2024-03-04").
					Return([]*entity.Event{
						testEvent(1, "2024-03-04", "13:28", entity.StageNotified5),
						testEvent(2, "2024-03-04", "13:29", entity.StageNotified5),
					}, nil).Times(1)
			},
			want: SweepResult{Evaluated: 2, Missed: 2},
		},
		{
			name: "Should finish events inside the grace window",
			buildMock: func(m allMocks) {
				gomock.InOrder(
					m.mockEventRepo.EXPECT().
						ListByDate(gomock.Any(), tenant.StoreRef, "2024-03-04").
						Return([]*entity.Event{testEvent(4, "2024-03-04", "13:30", entity.StageNotified5)}, nil).Times(1),

					m.mockNotifier.EXPECT().
						Send(gomock.Any(), tenant.ChannelRef, gomock.Any()).
						Return(nil).Times(1),

					m.mockEventRepo.EXPECT().
						UpdateStage(gomock.Any(), tenant.StoreRef, int64(4), entity.StageDone).
						Return(nil).Times(1),
				)
			},
			want: SweepResult{Evaluated: 1, Sent: 1, Advanced: 1},
		},
		{
			name: "Should leave the stage untouched when delivery fails",
			buildMock: func(m allMocks) {
				gomock.InOrder(
					m.mockEventRepo.EXPECT().
						ListByDate(gomock.Any(), tenant.StoreRef, "2024-03-04").
						Return([]*entity.Event{testEvent(1, "2024-03-04", "13:40", entity.StageNotified30)}, nil).Times(1),

					m.mockNotifier.EXPECT().
						Send(gomock.Any(), tenant.ChannelRef, gomock.Any()).
						Return(domain.ErrDeliveryFailed).Times(1),
				)
				m.mockEventRepo.EXPECT().UpdateStage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			want: SweepResult{Evaluated: 1, Failed: 1},
		},
		{
			name: "Should keep going when an event vanished before the write",
			buildMock: func(m allMocks) {
				m.mockEventRepo.EXPECT().
					ListByDate(gomock.Any(), tenant.StoreRef, "2024-03-04").
					Return([]*entity.Event{
						testEvent(1, "2024-03-04", "13:35", entity.StageNotified10),
						testEvent(2, "2024-03-04", "13:40", entity.StageNotified30),
					}, nil).Times(1)

				m.mockNotifier.EXPECT().
					Send(gomock.Any(), tenant.ChannelRef, gomock.Any()).
					Return(nil).Times(2)

				m.mockEventRepo.EXPECT().
					UpdateStage(gomock.Any(), tenant.StoreRef, int64(1), entity.StageNotified5).
					Return(domain.ErrNotFound).Times(1)
				m.mockEventRepo.EXPECT().
					UpdateStage(gomock.Any(), tenant.StoreRef, int64(2), entity.StageNotified10).
					Return(nil).Times(1)
			},
			want: SweepResult{Evaluated: 2, Sent: 2, Advanced: 1, Failed: 1},
		},
		{
			name: "Should keep going when the stage write fails or the time is invalid",
			buildMock: func(m allMocks) {
				m.mockEventRepo.EXPECT().
					ListByDate(gomock.Any(), tenant.StoreRef, "2024-03-04").
					Return([]*entity.Event{
						testEvent(1, "2024-03-04", "13:35", entity.StageNotified10),
						testEvent(2, "2024-03-04", "25:99", entity.StageNotified30),
					}, nil).Times(1)

				m.mockNotifier.EXPECT().
					Send(gomock.Any(), tenant.ChannelRef, gomock.Any()).
					Return(nil).Times(1)

				m.mockEventRepo.EXPECT().
					UpdateStage(gomock.Any(), tenant.StoreRef, int64(1), entity.StageNotified5).
					Return(domain.ErrStoreUnavailable).Times(1)
			},
			want: SweepResult{Evaluated: 2, Sent: 1, Failed: 2},
		},
		{
			name: "Should return an error when the store is unavailable",
			buildMock: func(m allMocks) {
				m.mockEventRepo.EXPECT().
					ListByDate(gomock.Any(), tenant.StoreRef, "2024-03-04").
					Return(nil, domain.ErrStoreUnavailable).Times(1)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ctrl := newServiceTestMock(t)
			defer ctrl.Finish()

			s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow)))
			tt.buildMock(m)

			got, err := s.SweepTenant(context.Background(), tenant)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_scheduler_sweepTenant_invalidTimezone(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow)))
	tenant := testTenant("family")
	tenant.Timezone = "Mars/Olympus"

	_, err := s.SweepTenant(context.Background(), tenant)
	require.Error(t, err)
}

func Test_scheduler_summarizeTenant(t *testing.T) {
	tenant := testTenant("family")

	t.Run("Should send one message per person in first appearance order", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		events := []*entity.Event{
			{Position: 1, Date: "2024-03-04", Time: "09:00", Person: "Bunga", Activity: "gym", Stage: entity.StageDone},
			{Position: 2, Date: "2024-03-04", Time: "10:00", Person: "jaka", Activity: "dentist"},
			{Position: 3, Date: "2024-03-05", Time: "10:00", Person: "Jaka", Activity: "tomorrow"},
			{Position: 4, Date: "2024-03-04", Time: "16:00", Person: "BUNGA", Activity: "meeting"},
		}
		m.mockEventRepo.EXPECT().ListByDate(gomock.Any(), tenant.StoreRef, "2024-03-04").Return(events, nil).Times(1)

		var sent []string
		m.mockNotifier.EXPECT().
			Send(gomock.Any(), tenant.ChannelRef, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, text string) error {
				sent = append(sent, text)
				return nil
			}).Times(2)

		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(time.Date(2024, 3, 4, 5, 0, 0, 0, jakarta))))
		got, err := s.SummarizeTenant(context.Background(), tenant)
		require.NoError(t, err)
		assert.Equal(t, SummaryResult{Sent: 2}, got)

		require.Len(t, sent, 2)
		assert.Contains(t, sent[0], "schedule for Bunga today, Monday, 04 March 2024")
		assert.Contains(t, sent[0], "- *09:00* - gym\n- *16:00* - meeting")
		assert.Contains(t, sent[1], "schedule for Jaka today")
		assert.NotContains(t, sent[1], "tomorrow")
	})

	t.Run("Should send nothing when no event is scheduled today", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		m.mockEventRepo.EXPECT().ListByDate(gomock.Any(), tenant.StoreRef, "2024-03-04").Return([]*entity.Event{}, nil).Times(1)

		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow)))
		got, err := s.SummarizeTenant(context.Background(), tenant)
		require.NoError(t, err)
		assert.Equal(t, SummaryResult{}, got)
	})

	t.Run("Should continue with the next person when one message fails", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		events := []*entity.Event{
			{Position: 1, Date: "2024-03-04", Time: "09:00", Person: "Bunga", Activity: "gym"},
			{Position: 2, Date: "2024-03-04", Time: "10:00", Person: "Jaka", Activity: "dentist"},
		}
		m.mockEventRepo.EXPECT().ListByDate(gomock.Any(), tenant.StoreRef, "2024-03-04").Return(events, nil).Times(1)
		gomock.InOrder(
			m.mockNotifier.EXPECT().Send(gomock.Any(), tenant.ChannelRef, gomock.Any()).Return(domain.ErrDeliveryFailed).Times(1),
			m.mockNotifier.EXPECT().Send(gomock.Any(), tenant.ChannelRef, gomock.Any()).Return(nil).Times(1),
		)

		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow)))
		got, err := s.SummarizeTenant(context.Background(), tenant)
		require.NoError(t, err)
		assert.Equal(t, SummaryResult{Sent: 1, Failed: 1}, got)
	})
}

func Test_scheduler_RunReminderPass(t *testing.T) {
	t.Run("Should isolate a failing tenant from the others", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		broken := testTenant("broken")
		healthy := testTenant("healthy")

		m.mockTenantRepo.EXPECT().ListActive(gomock.Any()).Return([]*entity.Tenant{broken, healthy}, nil).Times(1)
		m.mockEventRepo.EXPECT().ListByDate(gomock.Any(), broken.StoreRef, "2024-03-04").Return(nil, domain.ErrStoreUnavailable).Times(1)
		m.mockEventRepo.EXPECT().
			ListByDate(gomock.Any(), healthy.StoreRef, "2024-03-04").
			Return([]*entity.Event{testEvent(7, "2024-03-04", "13:35", entity.StageNotified10)}, nil).Times(1)
		m.mockNotifier.EXPECT().Send(gomock.Any(), healthy.ChannelRef, gomock.Any()).Return(nil).Times(1)
		m.mockEventRepo.EXPECT().UpdateStage(gomock.Any(), healthy.StoreRef, int64(7), entity.StageNotified5).Return(nil).Times(1)

		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow), WithMaxConcurrency(2)))
		require.NoError(t, s.RunReminderPass(context.Background()))
	})

	t.Run("Should recover from a panicking tenant", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		panicky := testTenant("panicky")
		healthy := testTenant("healthy")

		m.mockTenantRepo.EXPECT().ListActive(gomock.Any()).Return([]*entity.Tenant{panicky, healthy}, nil).Times(1)
		m.mockEventRepo.EXPECT().
			ListByDate(gomock.Any(), panicky.StoreRef, "2024-03-04").
			DoAndReturn(func(context.Context, string, string) ([]*entity.Event, error) {
				panic("boom")
			}).Times(1)
		m.mockEventRepo.EXPECT().ListByDate(gomock.Any(), healthy.StoreRef, "2024-03-04").Return([]*entity.Event{}, nil).Times(1)

		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow), WithMaxConcurrency(1)))
		assert.NotPanics(t, func() {
			require.NoError(t, s.RunReminderPass(context.Background()))
		})
	})

	t.Run("Should fail the pass when the registry is unavailable", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		m.mockTenantRepo.EXPECT().ListActive(gomock.Any()).Return(nil, domain.ErrStoreUnavailable).Times(1)

		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow)))
		err := s.RunReminderPass(context.Background())
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})

	t.Run("Should never run more tenants at once than the limit", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		var tenants []*entity.Tenant
		for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
			tenants = append(tenants, testTenant(id))
		}
		m.mockTenantRepo.EXPECT().ListActive(gomock.Any()).Return(tenants, nil).Times(1)

		var mu sync.Mutex
		inFlight, peak := 0, 0
		m.mockEventRepo.EXPECT().
			ListByDate(gomock.Any(), gomock.Any(), "2024-03-04").
			DoAndReturn(func(context.Context, string, string) ([]*entity.Event, error) {
				mu.Lock()
				inFlight++
				if inFlight > peak {
					peak = inFlight
				}
				mu.Unlock()

				time.Sleep(20 * time.Millisecond)

				mu.Lock()
				inFlight--
				mu.Unlock()
				return []*entity.Event{}, nil
			}).Times(len(tenants))

		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow), WithMaxConcurrency(2)))
		require.NoError(t, s.RunReminderPass(context.Background()))
		assert.LessOrEqual(t, peak, 2)
	})
}

func Test_scheduler_RunDailySummaryPass(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	family := testTenant("family")
	office := testTenant("office")

	m.mockTenantRepo.EXPECT().ListActive(gomock.Any()).Return([]*entity.Tenant{family, office}, nil).Times(1)
	m.mockEventRepo.EXPECT().ListByDate(gomock.Any(), family.StoreRef, "2024-03-04").Return(nil, domain.ErrStoreUnavailable).Times(1)
	m.mockEventRepo.EXPECT().
		ListByDate(gomock.Any(), office.StoreRef, "2024-03-04").
		Return([]*entity.Event{{Position: 1, Date: "2024-03-04", Time: "09:00", Person: "sari", Activity: "standup"}}, nil).Times(1)
	m.mockNotifier.EXPECT().
		Send(gomock.Any(), office.ChannelRef, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, text string) error {
			assert.True(t, strings.Contains(text, "Sari"))
			return nil
		}).Times(1)

	s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow)))
	require.NoError(t, s.RunDailySummaryPass(context.Background()))
}

func Test_scheduler_StartStop(t *testing.T) {
	t.Run("Should reject an invalid schedule", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow), WithSchedules("not a cron", "")))
		err := s.Start(context.Background())
		require.Error(t, err)
		assert.False(t, s.running)
	})

	t.Run("Should reject an unknown timezone", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow), WithTimezone("Mars/Olympus")))
		require.Error(t, s.Start(context.Background()))
	})

	t.Run("Should start once and stop cleanly", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		m.mockTenantRepo.EXPECT().ListActive(gomock.Any()).Return(nil, nil).AnyTimes()

		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow)))
		require.NoError(t, s.Start(context.Background()))
		require.NoError(t, s.Start(context.Background()))
		assert.True(t, s.running)
		assert.Len(t, s.cron.Entries(), 2)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Stop(ctx)
		assert.False(t, s.running)

		s.Stop(ctx)
	})
}

func scrapeMetrics(t *testing.T, m *metrics.Manager) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func Test_scheduler_sweepTenant_missedReporting(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	tenant := testTenant("family")
	late := testEvent(1, "2024-03-04", "14:00", entity.StageNotified5)
	// recorded after its time had already passed
	backdated := testEvent(2, "2024-03-04", "09:00", entity.StageRecorded)

	m.mockEventRepo.EXPECT().
		ListByDate(gomock.Any(), tenant.StoreRef, "2024-03-04").
		DoAndReturn(func(context.Context, string, string) ([]*entity.Event, error) {
			return []*entity.Event{late, backdated}, nil
		}).AnyTimes()

	metricsManager := metrics.NewManager()
	clock := newFakeClock(time.Date(2024, 3, 4, 14, 3, 0, 0, jakarta))
	s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(clock, WithMetrics(metricsManager)))

	// first sweep after an outage, three minutes past the event
	got, err := s.SweepTenant(context.Background(), tenant)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Evaluated: 2, Missed: 2}, got)
	assert.Contains(t, scrapeMetrics(t, metricsManager), "jadwal_events_missed_total 2")

	for _, at := range []time.Time{
		time.Date(2024, 3, 4, 14, 4, 0, 0, jakarta),
		time.Date(2024, 3, 4, 14, 10, 0, 0, jakarta),
		time.Date(2024, 3, 4, 14, 59, 0, 0, jakarta),
	} {
		clock.Set(at)
		got, err := s.SweepTenant(context.Background(), tenant)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Missed)
	}
	assert.Contains(t, scrapeMetrics(t, metricsManager), "jadwal_events_missed_total 2")
}

func Test_scheduler_callTimeout(t *testing.T) {
	blockUntilDone := func(ctx context.Context, _ string, _ string) error {
		<-ctx.Done()
		return ctx.Err()
	}

	t.Run("Should fail only the event whose send outlives the timeout", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		tenant := testTenant("family")
		slow := testEvent(1, "2024-03-04", "13:35", entity.StageNotified10)
		fast := testEvent(2, "2024-03-04", "13:40", entity.StageNotified30)

		m.mockEventRepo.EXPECT().
			ListByDate(gomock.Any(), tenant.StoreRef, "2024-03-04").
			Return([]*entity.Event{slow, fast}, nil).Times(1)
		gomock.InOrder(
			m.mockNotifier.EXPECT().Send(gomock.Any(), tenant.ChannelRef, gomock.Any()).DoAndReturn(blockUntilDone).Times(1),
			m.mockNotifier.EXPECT().Send(gomock.Any(), tenant.ChannelRef, gomock.Any()).Return(nil).Times(1),
		)
		m.mockEventRepo.EXPECT().
			UpdateStage(gomock.Any(), tenant.StoreRef, int64(2), entity.StageNotified10).
			Return(nil).Times(1)

		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow), WithCallTimeout(50*time.Millisecond)))
		got, err := s.SweepTenant(context.Background(), tenant)
		require.NoError(t, err)

		assert.Equal(t, SweepResult{Evaluated: 2, Sent: 1, Advanced: 1, Failed: 1}, got)
		assert.Equal(t, entity.StageNotified10, slow.Stage)
		assert.Equal(t, entity.StageNotified10, fast.Stage)
	})

	t.Run("Should fail only the tenant whose store read outlives the timeout", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		hanging := testTenant("hanging")
		healthy := testTenant("healthy")

		m.mockTenantRepo.EXPECT().ListActive(gomock.Any()).Return([]*entity.Tenant{hanging, healthy}, nil).Times(1)
		m.mockEventRepo.EXPECT().
			ListByDate(gomock.Any(), hanging.StoreRef, "2024-03-04").
			DoAndReturn(func(ctx context.Context, _ string, _ string) ([]*entity.Event, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			}).Times(1)
		m.mockEventRepo.EXPECT().
			ListByDate(gomock.Any(), healthy.StoreRef, "2024-03-04").
			Return([]*entity.Event{testEvent(3, "2024-03-04", "13:35", entity.StageNotified10)}, nil).Times(1)
		m.mockNotifier.EXPECT().Send(gomock.Any(), healthy.ChannelRef, gomock.Any()).Return(nil).Times(1)
		m.mockEventRepo.EXPECT().UpdateStage(gomock.Any(), healthy.StoreRef, int64(3), entity.StageNotified5).Return(nil).Times(1)

		metricsManager := metrics.NewManager()
		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow),
			WithCallTimeout(50*time.Millisecond), WithMaxConcurrency(1), WithMetrics(metricsManager)))

		require.NoError(t, s.RunReminderPass(context.Background()))
		assert.Contains(t, scrapeMetrics(t, metricsManager), `jadwal_tenant_failures_total{trigger="reminder"} 1`)
	})
}

func Test_scheduler_summaryZones(t *testing.T) {
	family := testTenant("family")
	office := testTenant("office")
	office.Timezone = "Asia/Makassar"
	legacy := testTenant("legacy")
	legacy.Timezone = ""

	t.Run("Should register one daily summary per tenant zone", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		broken := testTenant("broken")
		broken.Timezone = "Mars/Olympus"
		m.mockTenantRepo.EXPECT().ListActive(gomock.Any()).Return([]*entity.Tenant{family, office, legacy, broken}, nil).AnyTimes()

		// yearly schedules keep the triggers from firing during the test
		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow), WithSchedules("0 0 1 1 *", "0 0 1 1 *")))
		assert.Equal(t, []string{"Asia/Jakarta", "Asia/Makassar"}, s.summaryZones(context.Background()))

		require.NoError(t, s.Start(context.Background()))
		defer s.Stop(context.Background())
		assert.Len(t, s.cron.Entries(), 3)
	})

	t.Run("Should fall back to the default zone when the registry is down", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		m.mockTenantRepo.EXPECT().ListActive(gomock.Any()).Return(nil, domain.ErrStoreUnavailable).Times(1)

		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow)))
		assert.Equal(t, []string{"Asia/Jakarta"}, s.summaryZones(context.Background()))
	})

	t.Run("Should summarize only the tenants of the firing zone", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		stray := testTenant("stray")
		stray.Timezone = "Europe/Berlin"

		m.mockTenantRepo.EXPECT().ListActive(gomock.Any()).Return([]*entity.Tenant{family, office, legacy, stray}, nil).Times(2)
		m.mockEventRepo.EXPECT().ListByDate(gomock.Any(), office.StoreRef, "2024-03-04").Return([]*entity.Event{}, nil).Times(1)
		m.mockEventRepo.EXPECT().ListByDate(gomock.Any(), family.StoreRef, "2024-03-04").Return([]*entity.Event{}, nil).Times(1)
		m.mockEventRepo.EXPECT().ListByDate(gomock.Any(), legacy.StoreRef, "2024-03-04").Return([]*entity.Event{}, nil).Times(1)
		m.mockEventRepo.EXPECT().ListByDate(gomock.Any(), stray.StoreRef, "2024-03-04").Return([]*entity.Event{}, nil).Times(1)

		s := newScheduler(m.mockDataManager, m.mockNotifier, testOptions(newFakeClock(sweepNow)))
		registered := []string{"Asia/Jakarta", "Asia/Makassar"}

		require.NoError(t, s.runDailySummaryZone(context.Background(), "Asia/Makassar", registered))
		// the default zone also covers zones without their own trigger
		require.NoError(t, s.runDailySummaryZone(context.Background(), "Asia/Jakarta", registered))
	})
}

func Test_zonedSpec(t *testing.T) {
	assert.Equal(t, "CRON_TZ=Asia/Makassar 0 5 * * *", zonedSpec("Asia/Makassar", "0 5 * * *"))
	assert.Equal(t, "TZ=UTC 0 5 * * *", zonedSpec("Asia/Makassar", "TZ=UTC 0 5 * * *"))
}
