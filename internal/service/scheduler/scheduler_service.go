// Package scheduler implements the admin side of slot management: slot
// confirmation with overlap resolution, slot deletion, configuration
// updates, and user administration.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ecarponi/obsbook/internal/domain"
	"github.com/ecarponi/obsbook/internal/repository"
	"github.com/ecarponi/obsbook/internal/service/forecast"
)

type SchedulerUseCase interface {
	// ConfirmSlot creates (slotID == 0) or updates a slot. Validation and
	// conflict failures come back as a Result message, never an error.
	ConfirmSlot(ctx context.Context, input SlotInput, slotID int64) Result
	DeleteSlot(ctx context.Context, slotID int64) Result
	UpdateConfiguration(ctx context.Context, update ConfigurationUpdate) (*domain.Configuration, error)
	UpdateUserRole(ctx context.Context, userID int64, newRole string) error
	BlockUser(ctx context.Context, userID int64, block bool) error
	DeleteUser(ctx context.Context, userID int64) error
}

// Result is the outcome of a slot write: a user-facing message plus
// whether the operation went through.
type Result struct {
	OK      bool
	Message string
}

// SlotInput carries a slot create/edit request. Opening and closing times
// are local wall-clock "15:04" values; if closing is not after opening the
// slot runs into the following day.
type SlotInput struct {
	Title       string
	Description string
	Date        string // calendar date, "2006-01-02"
	OpeningTime string
	ClosingTime string
	MaxBookings int
}

// ConfigurationUpdate mirrors the configuration singleton's mutable fields.
type ConfigurationUpdate struct {
	Latitude            float64
	Longitude           float64
	Timezone            string
	WeatherThreshold    int
	MaxBookingsPerEvent int
	DefaultOpeningTime  string
	DefaultClosingTime  string
}

type SchedulerService struct {
	slots    repository.SlotRepository
	users    repository.UserRepository
	configs  repository.ConfigurationRepository
	provider forecast.ForecastUseCase
	now      func() time.Time

	// configMu serializes configuration writes and the weather refresh
	// they trigger.
	configMu sync.Mutex
}

type SchedulerServiceOption func(*SchedulerService)

// WithClock replaces the time source. Test hook.
func WithClock(now func() time.Time) SchedulerServiceOption {
	return func(s *SchedulerService) { s.now = now }
}

func NewSchedulerService(
	slots repository.SlotRepository,
	users repository.UserRepository,
	configs repository.ConfigurationRepository,
	provider forecast.ForecastUseCase,
	opts ...SchedulerServiceOption,
) *SchedulerService {
	service := &SchedulerService{
		slots:    slots,
		users:    users,
		configs:  configs,
		provider: provider,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func reject(message string) Result  { return Result{OK: false, Message: message} }
func confirm(message string) Result { return Result{OK: true, Message: message} }

const serverErrorMessage = "Operation failed due to a server error."

func (s *SchedulerService) ConfirmSlot(ctx context.Context, input SlotInput, slotID int64) Result {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		log.Printf("scheduler: load configuration: %v", err)
		return reject(serverErrorMessage)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Printf("scheduler: bad configured timezone %q: %v", cfg.Timezone, err)
		return reject(serverErrorMessage)
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" || len(input.Title) > 30 || len(input.Description) > 255 || input.MaxBookings < 1 {
		return reject("Invalid input parameters.")
	}

	startLocal, endLocal, err := slotWindow(input.Date, input.OpeningTime, input.ClosingTime, loc)
	if err != nil {
		return reject("Invalid input parameters.")
	}

	now := s.now().In(loc)
	if startLocal.Before(now) {
		return reject("Cannot schedule or edit an event with opening time in the past.")
	}
	if endLocal.Before(now) {
		return reject("Cannot schedule or edit an event with closing time in the past.")
	}

	if s.provider == nil {
		return reject("Weather service not available.")
	}
	assessment := s.provider.AssessWindow(ctx, startLocal, endLocal, cfg)

	var existing *domain.Slot
	if slotID != 0 {
		existing, err = s.slots.GetByID(ctx, slotID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return reject("Event not found.")
			}
			log.Printf("scheduler: load slot %d: %v", slotID, err)
			return reject(serverErrorMessage)
		}
		if existing.StartTime.In(loc).Before(now) || existing.EndTime.In(loc).Before(now) {
			return reject("Cannot modify an event that has already started or ended.")
		}
	}

	startUTC := startLocal.UTC()
	endUTC := endLocal.UTC()
	if msg, err := s.findConflict(ctx, startUTC, endUTC, slotID); err != nil {
		log.Printf("scheduler: overlap check: %v", err)
		return reject(serverErrorMessage)
	} else if msg != "" {
		return reject(msg)
	}

	if existing != nil {
		existing.Title = input.Title
		existing.Description = input.Description
		existing.StartTime = startUTC
		existing.EndTime = endUTC
		existing.MaxBookings = input.MaxBookings
		existing.Available = true
		existing.WeatherRating = assessment.Rating
		existing.WeatherWarning = assessment.Warning
		existing.WeatherForecast = assessment.ForecastPresent
		if err := s.slots.Update(ctx, existing); err != nil {
			log.Printf("scheduler: update slot %d: %v", existing.ID, err)
			return reject(serverErrorMessage)
		}
		log.Printf("scheduler: slot %d updated, start %s", existing.ID, startUTC)
		return confirm("Event updated successfully.")
	}

	slot := &domain.Slot{
		Title:           input.Title,
		Description:     input.Description,
		StartTime:       startUTC,
		EndTime:         endUTC,
		MaxBookings:     input.MaxBookings,
		Available:       true,
		WeatherRating:   assessment.Rating,
		WeatherWarning:  assessment.Warning,
		WeatherForecast: assessment.ForecastPresent,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		log.Printf("scheduler: create slot: %v", err)
		return reject(serverErrorMessage)
	}
	log.Printf("scheduler: slot %d created, start %s", slot.ID, startUTC)
	return confirm("Event created successfully.")
}

// slotWindow combines the calendar date with the local opening and closing
// wall-clock times. A closing time at or before the opening time rolls the
// end over to the next day.
func slotWindow(date, opening, closing string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse date: %w", err)
	}
	open, err := time.Parse("15:04", opening)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse opening time: %w", err)
	}
	clos, err := time.Parse("15:04", closing)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse closing time: %w", err)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), open.Hour(), open.Minute(), 0, 0, loc)
	endDay := day
	if clos.Hour()*60+clos.Minute() <= open.Hour()*60+open.Minute() {
		endDay = day.AddDate(0, 0, 1)
	}
	end := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), clos.Hour(), clos.Minute(), 0, 0, loc)
	return start, end, nil
}

// findConflict runs the four overlap checks in order; the first hit wins.
// Checks 1-3 key off UTC calendar days: one slot start per day, then
// spillover from the previous day into our start, then our end into the
// next day's slot. Check 4 is the general half-open interval test, so
// slots that merely touch at an endpoint do not conflict.
func (s *SchedulerService) findConflict(ctx context.Context, startUTC, endUTC time.Time, excludeID int64) (string, error) {
	dayStart := startUTC.Truncate(24 * time.Hour)
	nextDay := dayStart.Add(24 * time.Hour)

	other, err := s.slots.FirstStartingBetween(ctx, dayStart, nextDay, excludeID)
	if err != nil {
		return "", err
	}
	if other != nil {
		return "Only one event can start per day.", nil
	}

	other, err = s.slots.FirstPrevDayOverlap(ctx, dayStart.Add(-24*time.Hour), dayStart, startUTC, excludeID)
	if err != nil {
		return "", err
	}
	if other != nil {
		return "Start time overlaps with previous day's event.", nil
	}

	endDay := endUTC.Truncate(24 * time.Hour)
	other, err = s.slots.FirstNextDayOverlap(ctx, endDay.Add(24*time.Hour), endDay.Add(48*time.Hour), endUTC, excludeID)
	if err != nil {
		return "", err
	}
	if other != nil {
		return "End time overlaps with next day's event.", nil
	}

	other, err = s.slots.FirstOverlapping(ctx, startUTC, endUTC, excludeID)
	if err != nil {
		return "", err
	}
	if other != nil {
		return fmt.Sprintf("Time conflict with another event (ID: %d).", other.ID), nil
	}
	return "", nil
}

func (s *SchedulerService) DeleteSlot(ctx context.Context, slotID int64) Result {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return reject("Event not found.")
		}
		log.Printf("scheduler: load slot %d: %v", slotID, err)
		return reject(serverErrorMessage)
	}

	if slot.Started(s.now()) {
		return reject("Cannot delete an event that has already started.")
	}

	if err := s.slots.Delete(ctx, slotID); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotHasBookings):
			return reject("Cannot delete an event with existing bookings.")
		case errors.Is(err, repository.ErrNotFound):
			return reject("Event not found.")
		default:
			log.Printf("scheduler: delete slot %d: %v", slotID, err)
			return reject(serverErrorMessage)
		}
	}
	log.Printf("scheduler: slot %d deleted", slotID)
	return confirm("Event deleted successfully.")
}

func (s *SchedulerService) UpdateConfiguration(ctx context.Context, update ConfigurationUpdate) (*domain.Configuration, error) {
	s.configMu.Lock()
	defer s.configMu.Unlock()

	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	cfg.Latitude = update.Latitude
	cfg.Longitude = update.Longitude
	cfg.Timezone = update.Timezone
	cfg.WeatherThreshold = update.WeatherThreshold
	cfg.MaxBookingsPerEvent = update.MaxBookingsPerEvent
	cfg.DefaultOpeningTime = update.DefaultOpeningTime
	cfg.DefaultClosingTime = update.DefaultClosingTime

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.configs.Update(ctx, cfg); err != nil {
		return nil, fmt.Errorf("save configuration: %w", err)
	}

	// Ratings depend on location, timezone, and threshold, so recompute
	// upcoming slots right away.
	if s.provider != nil {
		if err := s.provider.RefreshUpcoming(ctx); err != nil {
			log.Printf("scheduler: weather refresh after config update: %v", err)
		}
	}
	return cfg, nil
}

func (s *SchedulerService) UpdateUserRole(ctx context.Context, userID int64, newRole string) error {
	if newRole != domain.RoleUser && newRole != domain.RoleAdmin {
		return fmt.Errorf("invalid role %q", newRole)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsSuperAdmin() {
		return errors.New("cannot change role for superadmin")
	}

	var adminRank *string
	if newRole == domain.RoleAdmin {
		rank := "admin"
		adminRank = &rank
	}
	return s.users.UpdateRole(ctx, userID, newRole, adminRank)
}

func (s *SchedulerService) BlockUser(ctx context.Context, userID int64, block bool) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return errors.New("cannot block admin")
	}
	return s.users.SetBlocked(ctx, userID, block)
}

func (s *SchedulerService) DeleteUser(ctx context.Context, userID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsSuperAdmin() {
		return errors.New("cannot delete superadmin account")
	}
	return s.users.Delete(ctx, userID)
}

var _ SchedulerUseCase = (*SchedulerService)(nil)
