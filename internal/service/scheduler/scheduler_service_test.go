package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/ecarponi/obsbook/internal/domain"
	"github.com/ecarponi/obsbook/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSlotRepo struct{ mock.Mock }

func (m *mockSlotRepo) List(ctx context.Context) ([]domain.Slot, error) {
	args := m.Called(ctx)
	slots, _ := args.Get(0).([]domain.Slot)
	return slots, args.Error(1)
}

func (m *mockSlotRepo) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	slot, _ := args.Get(0).(*domain.Slot)
	return slot, args.Error(1)
}

func (m *mockSlotRepo) FirstStartingBetween(ctx context.Context, from, to time.Time, excludeID int64) (*domain.Slot, error) {
	args := m.Called(ctx, from, to, excludeID)
	slot, _ := args.Get(0).(*domain.Slot)
	return slot, args.Error(1)
}

func (m *mockSlotRepo) FirstPrevDayOverlap(ctx context.Context, from, to, start time.Time, excludeID int64) (*domain.Slot, error) {
	args := m.Called(ctx, from, to, start, excludeID)
	slot, _ := args.Get(0).(*domain.Slot)
	return slot, args.Error(1)
}

func (m *mockSlotRepo) FirstNextDayOverlap(ctx context.Context, from, to, end time.Time, excludeID int64) (*domain.Slot, error) {
	args := m.Called(ctx, from, to, end, excludeID)
	slot, _ := args.Get(0).(*domain.Slot)
	return slot, args.Error(1)
}

func (m *mockSlotRepo) FirstOverlapping(ctx context.Context, start, end time.Time, excludeID int64) (*domain.Slot, error) {
	args := m.Called(ctx, start, end, excludeID)
	slot, _ := args.Get(0).(*domain.Slot)
	return slot, args.Error(1)
}

func (m *mockSlotRepo) Create(ctx context.Context, slot *domain.Slot) error {
	return m.Called(ctx, slot).Error(0)
}

func (m *mockSlotRepo) Update(ctx context.Context, slot *domain.Slot) error {
	return m.Called(ctx, slot).Error(0)
}

func (m *mockSlotRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSlotRepo) StartingBetween(ctx context.Context, from, to time.Time) ([]domain.Slot, error) {
	args := m.Called(ctx, from, to)
	slots, _ := args.Get(0).([]domain.Slot)
	return slots, args.Error(1)
}

func (m *mockSlotRepo) UpdateWeather(ctx context.Context, id int64, rating *float64, warning, forecast bool) error {
	return m.Called(ctx, id, rating, warning, forecast).Error(0)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id int64, role string, adminRank *string) error {
	return m.Called(ctx, id, role, adminRank).Error(0)
}

func (m *mockUserRepo) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	return m.Called(ctx, id, blocked).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockConfigRepo struct{ mock.Mock }

func (m *mockConfigRepo) Get(ctx context.Context) (*domain.Configuration, error) {
	args := m.Called(ctx)
	cfg, _ := args.Get(0).(*domain.Configuration)
	return cfg, args.Error(1)
}

func (m *mockConfigRepo) Update(ctx context.Context, cfg *domain.Configuration) error {
	return m.Called(ctx, cfg).Error(0)
}

type mockProvider struct{ mock.Mock }

func (m *mockProvider) AssessWindow(ctx context.Context, start, end time.Time, cfg *domain.Configuration) domain.WeatherAssessment {
	args := m.Called(ctx, start, end, cfg)
	return args.Get(0).(domain.WeatherAssessment)
}

func (m *mockProvider) RefreshUpcoming(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type fixture struct {
	slots    *mockSlotRepo
	users    *mockUserRepo
	configs  *mockConfigRepo
	provider *mockProvider
	svc      *SchedulerService
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		slots:    new(mockSlotRepo),
		users:    new(mockUserRepo),
		configs:  new(mockConfigRepo),
		provider: new(mockProvider),
	}
	f.svc = NewSchedulerService(f.slots, f.users, f.configs, f.provider,
		WithClock(func() time.Time { return testNow }))
	return f
}

func utcConfig() *domain.Configuration {
	cfg := domain.DefaultConfiguration()
	cfg.Timezone = "UTC"
	return &cfg
}

func (f *fixture) expectConfig() {
	f.configs.On("Get", mock.Anything).Return(utcConfig(), nil)
}

func (f *fixture) expectAssessment() {
	rating := 90.0
	f.provider.On("AssessWindow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(domain.WeatherAssessment{Rating: &rating, ForecastPresent: true})
}

func (f *fixture) expectNoConflicts() {
	f.slots.On("FirstStartingBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	f.slots.On("FirstPrevDayOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	f.slots.On("FirstNextDayOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	f.slots.On("FirstOverlapping", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
}

func validInput() SlotInput {
	return SlotInput{
		Title:       "Perseids night",
		Description: "Meteor shower session",
		Date:        "2025-06-02",
		OpeningTime: "21:00",
		ClosingTime: "23:00",
		MaxBookings: 10,
	}
}

func TestConfirmSlot_CreatesSlot(t *testing.T) {
	f := newFixture()
	f.expectConfig()
	f.expectAssessment()
	f.expectNoConflicts()

	var created *domain.Slot
	f.slots.On("Create", mock.Anything, mock.AnythingOfType("*domain.Slot")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Slot) }).
		Return(nil)

	res := f.svc.ConfirmSlot(context.Background(), validInput(), 0)

	assert.True(t, res.OK)
	assert.Equal(t, "Event created successfully.", res.Message)
	require.NotNil(t, created)
	assert.Equal(t, time.Date(2025, 6, 2, 21, 0, 0, 0, time.UTC), created.StartTime)
	assert.Equal(t, time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC), created.EndTime)
	assert.True(t, created.Available)
	require.NotNil(t, created.WeatherRating)
	assert.Equal(t, 90.0, *created.WeatherRating)
}

func TestConfirmSlot_OvernightRollsToNextDay(t *testing.T) {
	f := newFixture()
	f.expectConfig()
	f.expectAssessment()
	f.expectNoConflicts()

	var created *domain.Slot
	f.slots.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Slot) }).
		Return(nil)

	input := validInput()
	input.OpeningTime = "22:00"
	input.ClosingTime = "01:00"

	res := f.svc.ConfirmSlot(context.Background(), input, 0)

	assert.True(t, res.OK)
	require.NotNil(t, created)
	assert.Equal(t, time.Date(2025, 6, 2, 22, 0, 0, 0, time.UTC), created.StartTime)
	assert.Equal(t, time.Date(2025, 6, 3, 1, 0, 0, 0, time.UTC), created.EndTime)
}

func TestConfirmSlot_InvalidInput(t *testing.T) {
	cases := map[string]func(*SlotInput){
		"empty title":      func(in *SlotInput) { in.Title = "  " },
		"title too long":   func(in *SlotInput) { in.Title = "0123456789012345678901234567890" },
		"zero capacity":    func(in *SlotInput) { in.MaxBookings = 0 },
		"bad date":         func(in *SlotInput) { in.Date = "02-06-2025" },
		"bad opening time": func(in *SlotInput) { in.OpeningTime = "9pm" },
		"bad closing time": func(in *SlotInput) { in.ClosingTime = "25:00" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.expectConfig()

			input := validInput()
			mutate(&input)

			res := f.svc.ConfirmSlot(context.Background(), input, 0)
			assert.False(t, res.OK)
			assert.Equal(t, "Invalid input parameters.", res.Message)
		})
	}
}

func TestConfirmSlot_RejectsPastOpening(t *testing.T) {
	f := newFixture()
	f.expectConfig()

	input := validInput()
	input.Date = "2025-05-30"

	res := f.svc.ConfirmSlot(context.Background(), input, 0)
	assert.False(t, res.OK)
	assert.Equal(t, "Cannot schedule or edit an event with opening time in the past.", res.Message)
}

func TestConfirmSlot_WeatherUnavailable(t *testing.T) {
	f := newFixture()
	f.expectConfig()

	svc := NewSchedulerService(f.slots, f.users, f.configs, nil,
		WithClock(func() time.Time { return testNow }))

	res := svc.ConfirmSlot(context.Background(), validInput(), 0)
	assert.False(t, res.OK)
	assert.Equal(t, "Weather service not available.", res.Message)
}

func TestConfirmSlot_SameDayConflict(t *testing.T) {
	f := newFixture()
	f.expectConfig()
	f.expectAssessment()

	f.slots.On("FirstStartingBetween", mock.Anything, mock.Anything, mock.Anything, int64(0)).
		Return(&domain.Slot{ID: 7}, nil)

	res := f.svc.ConfirmSlot(context.Background(), validInput(), 0)
	assert.False(t, res.OK)
	assert.Equal(t, "Only one event can start per day.", res.Message)
	f.slots.AssertNotCalled(t, "FirstPrevDayOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.slots.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConfirmSlot_PrevDayOverlap(t *testing.T) {
	f := newFixture()
	f.expectConfig()
	f.expectAssessment()

	f.slots.On("FirstStartingBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	f.slots.On("FirstPrevDayOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Slot{ID: 3}, nil)

	res := f.svc.ConfirmSlot(context.Background(), validInput(), 0)
	assert.False(t, res.OK)
	assert.Equal(t, "Start time overlaps with previous day's event.", res.Message)
}

func TestConfirmSlot_NextDayOverlap(t *testing.T) {
	f := newFixture()
	f.expectConfig()
	f.expectAssessment()

	f.slots.On("FirstStartingBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	f.slots.On("FirstPrevDayOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	f.slots.On("FirstNextDayOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Slot{ID: 4}, nil)

	res := f.svc.ConfirmSlot(context.Background(), validInput(), 0)
	assert.False(t, res.OK)
	assert.Equal(t, "End time overlaps with next day's event.", res.Message)
}

func TestConfirmSlot_GeneralOverlapNamesSlot(t *testing.T) {
	f := newFixture()
	f.expectConfig()
	f.expectAssessment()

	f.slots.On("FirstStartingBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	f.slots.On("FirstPrevDayOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	f.slots.On("FirstNextDayOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	f.slots.On("FirstOverlapping", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Slot{ID: 42}, nil)

	res := f.svc.ConfirmSlot(context.Background(), validInput(), 0)
	assert.False(t, res.OK)
	assert.Equal(t, "Time conflict with another event (ID: 42).", res.Message)
}

func TestConfirmSlot_EditExcludesOwnID(t *testing.T) {
	f := newFixture()
	f.expectConfig()
	f.expectAssessment()

	existing := &domain.Slot{
		ID:        5,
		StartTime: time.Date(2025, 6, 2, 21, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC),
	}
	f.slots.On("GetByID", mock.Anything, int64(5)).Return(existing, nil)
	f.slots.On("FirstStartingBetween", mock.Anything, mock.Anything, mock.Anything, int64(5)).Return(nil, nil)
	f.slots.On("FirstPrevDayOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, int64(5)).Return(nil, nil)
	f.slots.On("FirstNextDayOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, int64(5)).Return(nil, nil)
	f.slots.On("FirstOverlapping", mock.Anything, mock.Anything, mock.Anything, int64(5)).Return(nil, nil)
	f.slots.On("Update", mock.Anything, existing).Return(nil)

	res := f.svc.ConfirmSlot(context.Background(), validInput(), 5)

	assert.True(t, res.OK)
	assert.Equal(t, "Event updated successfully.", res.Message)
	f.slots.AssertExpectations(t)
}

func TestConfirmSlot_CannotEditStartedSlot(t *testing.T) {
	f := newFixture()
	f.expectConfig()
	f.expectAssessment()

	started := &domain.Slot{
		ID:        5,
		StartTime: testNow.Add(-2 * time.Hour),
		EndTime:   testNow.Add(time.Hour),
	}
	f.slots.On("GetByID", mock.Anything, int64(5)).Return(started, nil)

	res := f.svc.ConfirmSlot(context.Background(), validInput(), 5)
	assert.False(t, res.OK)
	assert.Equal(t, "Cannot modify an event that has already started or ended.", res.Message)
}

func TestConfirmSlot_EditMissingSlot(t *testing.T) {
	f := newFixture()
	f.expectConfig()
	f.expectAssessment()

	f.slots.On("GetByID", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound)

	res := f.svc.ConfirmSlot(context.Background(), validInput(), 99)
	assert.False(t, res.OK)
	assert.Equal(t, "Event not found.", res.Message)
}

func TestDeleteSlot_Guards(t *testing.T) {
	t.Run("already started", func(t *testing.T) {
		f := newFixture()
		f.slots.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.Slot{ID: 1, StartTime: testNow.Add(-time.Hour)}, nil)

		res := f.svc.DeleteSlot(context.Background(), 1)
		assert.False(t, res.OK)
		assert.Equal(t, "Cannot delete an event that has already started.", res.Message)
	})

	t.Run("has bookings", func(t *testing.T) {
		f := newFixture()
		f.slots.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.Slot{ID: 1, StartTime: testNow.Add(time.Hour)}, nil)
		f.slots.On("Delete", mock.Anything, int64(1)).Return(repository.ErrSlotHasBookings)

		res := f.svc.DeleteSlot(context.Background(), 1)
		assert.False(t, res.OK)
		assert.Equal(t, "Cannot delete an event with existing bookings.", res.Message)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.slots.On("GetByID", mock.Anything, int64(1)).Return(nil, repository.ErrNotFound)

		res := f.svc.DeleteSlot(context.Background(), 1)
		assert.False(t, res.OK)
		assert.Equal(t, "Event not found.", res.Message)
	})

	t.Run("success", func(t *testing.T) {
		f := newFixture()
		f.slots.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.Slot{ID: 1, StartTime: testNow.Add(time.Hour)}, nil)
		f.slots.On("Delete", mock.Anything, int64(1)).Return(nil)

		res := f.svc.DeleteSlot(context.Background(), 1)
		assert.True(t, res.OK)
		assert.Equal(t, "Event deleted successfully.", res.Message)
	})
}

func TestUpdateConfiguration_TriggersWeatherRefresh(t *testing.T) {
	f := newFixture()
	f.expectConfig()
	f.configs.On("Update", mock.Anything, mock.AnythingOfType("*domain.Configuration")).Return(nil)
	f.provider.On("RefreshUpcoming", mock.Anything).Return(nil)

	update := ConfigurationUpdate{
		Latitude:            45.0,
		Longitude:           9.0,
		Timezone:            "Europe/Rome",
		WeatherThreshold:    60,
		MaxBookingsPerEvent: 5,
		DefaultOpeningTime:  "18:00",
		DefaultClosingTime:  "23:00",
	}

	cfg, err := f.svc.UpdateConfiguration(context.Background(), update)
	require.NoError(t, err)
	assert.Equal(t, 45.0, cfg.Latitude)
	assert.Equal(t, 60, cfg.WeatherThreshold)
	f.provider.AssertCalled(t, "RefreshUpcoming", mock.Anything)
}

func TestUpdateConfiguration_RejectsInvalidValues(t *testing.T) {
	f := newFixture()
	f.expectConfig()

	update := ConfigurationUpdate{
		Latitude:            120.0, // out of range
		Longitude:           9.0,
		Timezone:            "Europe/Rome",
		WeatherThreshold:    60,
		MaxBookingsPerEvent: 5,
		DefaultOpeningTime:  "18:00",
		DefaultClosingTime:  "23:00",
	}

	_, err := f.svc.UpdateConfiguration(context.Background(), update)
	assert.Error(t, err)
	f.configs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateUserRole(t *testing.T) {
	t.Run("invalid role", func(t *testing.T) {
		f := newFixture()
		err := f.svc.UpdateUserRole(context.Background(), 1, "Owner")
		assert.Error(t, err)
	})

	t.Run("superadmin protected", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.User{ID: 1, Role: domain.RoleAdmin, AdminRank: domain.AdminRankSuper}, nil)

		err := f.svc.UpdateUserRole(context.Background(), 1, domain.RoleUser)
		assert.Error(t, err)
	})

	t.Run("promote to admin", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, int64(2)).
			Return(&domain.User{ID: 2, Role: domain.RoleUser}, nil)
		f.users.On("UpdateRole", mock.Anything, int64(2), domain.RoleAdmin, mock.MatchedBy(func(rank *string) bool {
			return rank != nil && *rank == "admin"
		})).Return(nil)

		err := f.svc.UpdateUserRole(context.Background(), 2, domain.RoleAdmin)
		assert.NoError(t, err)
		f.users.AssertExpectations(t)
	})
}

func TestBlockUser(t *testing.T) {
	t.Run("admin protected", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.User{ID: 1, Role: domain.RoleAdmin}, nil)

		err := f.svc.BlockUser(context.Background(), 1, true)
		assert.Error(t, err)
	})

	t.Run("blocks regular user", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, int64(2)).
			Return(&domain.User{ID: 2, Role: domain.RoleUser}, nil)
		f.users.On("SetBlocked", mock.Anything, int64(2), true).Return(nil)

		err := f.svc.BlockUser(context.Background(), 2, true)
		assert.NoError(t, err)
	})
}

// memorySlotStore mirrors the repository's interval queries over a slice
// so the boundary semantics of the overlap checks can be exercised end to
// end instead of being mocked away.
type memorySlotStore struct {
	slots  []domain.Slot
	nextID int64
}

func (s *memorySlotStore) first(excludeID int64, match func(domain.Slot) bool) (*domain.Slot, error) {
	for i := range s.slots {
		slot := s.slots[i]
		if slot.ID == excludeID || !match(slot) {
			continue
		}
		return &slot, nil
	}
	return nil, nil
}

func (s *memorySlotStore) List(context.Context) ([]domain.Slot, error) { return s.slots, nil }

func (s *memorySlotStore) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	for i := range s.slots {
		if s.slots[i].ID == id {
			slot := s.slots[i]
			return &slot, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memorySlotStore) FirstStartingBetween(_ context.Context, from, to time.Time, excludeID int64) (*domain.Slot, error) {
	return s.first(excludeID, func(sl domain.Slot) bool {
		return !sl.StartTime.Before(from) && sl.StartTime.Before(to)
	})
}

func (s *memorySlotStore) FirstPrevDayOverlap(_ context.Context, from, to, start time.Time, excludeID int64) (*domain.Slot, error) {
	return s.first(excludeID, func(sl domain.Slot) bool {
		return !sl.StartTime.Before(from) && sl.StartTime.Before(to) && sl.EndTime.After(start)
	})
}

func (s *memorySlotStore) FirstNextDayOverlap(_ context.Context, from, to, end time.Time, excludeID int64) (*domain.Slot, error) {
	return s.first(excludeID, func(sl domain.Slot) bool {
		return !sl.StartTime.Before(from) && sl.StartTime.Before(to) && sl.StartTime.Before(end)
	})
}

func (s *memorySlotStore) FirstOverlapping(_ context.Context, start, end time.Time, excludeID int64) (*domain.Slot, error) {
	return s.first(excludeID, func(sl domain.Slot) bool {
		return sl.EndTime.After(start) && sl.StartTime.Before(end)
	})
}

func (s *memorySlotStore) Create(_ context.Context, slot *domain.Slot) error {
	s.nextID++
	slot.ID = s.nextID
	s.slots = append(s.slots, *slot)
	return nil
}

func (s *memorySlotStore) Update(_ context.Context, slot *domain.Slot) error {
	for i := range s.slots {
		if s.slots[i].ID == slot.ID {
			s.slots[i] = *slot
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *memorySlotStore) Delete(_ context.Context, id int64) error { return nil }

func (s *memorySlotStore) StartingBetween(context.Context, time.Time, time.Time) ([]domain.Slot, error) {
	return nil, nil
}

func (s *memorySlotStore) UpdateWeather(context.Context, int64, *float64, bool, bool) error {
	return nil
}

func newBoundaryScheduler(store *memorySlotStore) *SchedulerService {
	configs := new(mockConfigRepo)
	configs.On("Get", mock.Anything).Return(utcConfig(), nil)

	rating := 90.0
	provider := new(mockProvider)
	provider.On("AssessWindow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(domain.WeatherAssessment{Rating: &rating, ForecastPresent: true})

	return NewSchedulerService(store, new(mockUserRepo), configs, provider,
		WithClock(func() time.Time { return testNow }))
}

func TestConfirmSlot_TouchingEndpointsDoNotConflict(t *testing.T) {
	store := &memorySlotStore{}
	svc := newBoundaryScheduler(store)
	ctx := context.Background()

	first := SlotInput{
		Title:       "Night one",
		Date:        "2025-06-02",
		OpeningTime: "22:00",
		ClosingTime: "01:00",
		MaxBookings: 10,
	}
	require.True(t, svc.ConfirmSlot(ctx, first, 0).OK)

	// Starts exactly where the overnight slot ends (June 3rd 01:00).
	second := SlotInput{
		Title:       "Night two",
		Date:        "2025-06-03",
		OpeningTime: "01:00",
		ClosingTime: "03:00",
		MaxBookings: 10,
	}
	res := svc.ConfirmSlot(ctx, second, 0)

	assert.True(t, res.OK)
	assert.Equal(t, "Event created successfully.", res.Message)
	assert.Len(t, store.slots, 2)
}

func TestConfirmSlot_MinuteIntoPreviousSlotConflicts(t *testing.T) {
	store := &memorySlotStore{}
	svc := newBoundaryScheduler(store)
	ctx := context.Background()

	first := SlotInput{
		Title:       "Night one",
		Date:        "2025-06-02",
		OpeningTime: "22:00",
		ClosingTime: "01:00",
		MaxBookings: 10,
	}
	require.True(t, svc.ConfirmSlot(ctx, first, 0).OK)

	second := SlotInput{
		Title:       "Night two",
		Date:        "2025-06-03",
		OpeningTime: "00:30",
		ClosingTime: "03:00",
		MaxBookings: 10,
	}
	res := svc.ConfirmSlot(ctx, second, 0)

	assert.False(t, res.OK)
	assert.Equal(t, "Start time overlaps with previous day's event.", res.Message)
	assert.Len(t, store.slots, 1)
}

func TestDeleteUser_SuperAdminProtected(t *testing.T) {
	f := newFixture()
	f.users.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.User{ID: 1, Role: domain.RoleAdmin, AdminRank: domain.AdminRankSuper}, nil)

	err := f.svc.DeleteUser(context.Background(), 1)
	assert.Error(t, err)
}
