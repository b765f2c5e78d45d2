// Package booking implements the user-facing booking ledger. Every book
// and cancel runs under one service-wide mutex so capacity accounting can
// never race between concurrent callers.
package booking

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ecarponi/obsbook/internal/domain"
	"github.com/ecarponi/obsbook/internal/kafka"
	"github.com/ecarponi/obsbook/internal/repository"
)

type BookingUseCase interface {
	Book(ctx context.Context, userID, slotID int64) Result
	Cancel(ctx context.Context, userID, slotID int64) Result
}

// Result is the outcome of a booking operation. Guard violations are
// results, not errors; infrastructure faults surface as a generic server
// error message.
type Result struct {
	OK      bool
	Message string
}

// RateLimiter gates how often a single user may hit the ledger.
type RateLimiter interface {
	Allow(userID int64) bool
}

// Producer publishes booking events. Optional; a nil producer disables
// publishing.
type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings repository.BookingRepository
	slots    repository.SlotRepository
	users    repository.UserRepository
	configs  repository.ConfigurationRepository
	limiter  RateLimiter
	producer Producer
	topic    string
	now      func() time.Time

	// mu is the coarse lock: one critical section for all book and cancel
	// calls system-wide.
	mu sync.Mutex
}

type BookingServiceOption func(*BookingService)

func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.topic = topic
	}
}

func WithRateLimiter(limiter RateLimiter) BookingServiceOption {
	return func(s *BookingService) { s.limiter = limiter }
}

// WithClock replaces the time source. Test hook.
func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) { s.now = now }
}

func NewBookingService(
	bookings repository.BookingRepository,
	slots repository.SlotRepository,
	users repository.UserRepository,
	configs repository.ConfigurationRepository,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings: bookings,
		slots:    slots,
		users:    users,
		configs:  configs,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func reject(message string) Result  { return Result{OK: false, Message: message} }
func confirm(message string) Result { return Result{OK: true, Message: message} }

// validate runs the shared user/slot eligibility checks. An empty message
// means the caller may proceed.
func (s *BookingService) validate(ctx context.Context, userID, slotID int64) (string, *domain.Slot) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "User not found.", nil
		}
		log.Printf("booking: load user %d: %v", userID, err)
		return "Booking failed due to a server error.", nil
	}
	if user.Blocked {
		return "Your account is blocked.", nil
	}

	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "Event not found.", nil
		}
		log.Printf("booking: load slot %d: %v", slotID, err)
		return "Booking failed due to a server error.", nil
	}

	if s.limiter != nil && !s.limiter.Allow(userID) {
		return "You are rate-limited. Please try again later.", nil
	}
	return "", slot
}

// currentTime returns now in the configured timezone.
func (s *BookingService) currentTime(ctx context.Context) (time.Time, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return time.Time{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return time.Time{}, err
	}
	return s.now().In(loc), nil
}

func (s *BookingService) Book(ctx context.Context, userID, slotID int64) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, slot := s.validate(ctx, userID, slotID)
	if msg != "" {
		return reject(msg)
	}

	now, err := s.currentTime(ctx)
	if err != nil {
		log.Printf("booking: resolve current time: %v", err)
		return reject("Booking failed due to a server error.")
	}
	if slot.Started(now) {
		return reject("Event is no longer available for booking.")
	}

	exists, err := s.bookings.ExistsConfirmed(ctx, userID, slotID)
	if err != nil {
		log.Printf("booking: duplicate check for user %d slot %d: %v", userID, slotID, err)
		return reject("Booking failed due to a server error.")
	}
	if exists {
		return reject("You have already booked this event.")
	}

	booking := &domain.Booking{UserID: userID, SlotID: slotID}
	if err := s.bookings.CreateConfirmed(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotFull):
			return reject("Event is fully booked.")
		case errors.Is(err, repository.ErrDuplicateBooking):
			return reject("You have already booked this event.")
		default:
			log.Printf("booking: create for user %d slot %d: %v", userID, slotID, err)
			return reject("Booking failed due to a server error.")
		}
	}

	log.Printf("booking: user %d booked slot %d", userID, slotID)
	s.publish(ctx, kafka.EventBookingConfirmed, booking, slot)
	return confirm("Booking confirmed.")
}

func (s *BookingService) Cancel(ctx context.Context, userID, slotID int64) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, slot := s.validate(ctx, userID, slotID)
	if msg != "" {
		return reject(msg)
	}

	exists, err := s.bookings.ExistsConfirmed(ctx, userID, slotID)
	if err != nil {
		log.Printf("booking: lookup for user %d slot %d: %v", userID, slotID, err)
		return reject("Booking cancellation failed due to a server error.")
	}
	if !exists {
		return reject("No active booking found for this event.")
	}

	now, err := s.currentTime(ctx)
	if err != nil {
		log.Printf("booking: resolve current time: %v", err)
		return reject("Booking cancellation failed due to a server error.")
	}
	if slot.Started(now) {
		return reject("Cannot cancel booking after event has started.")
	}

	booking, err := s.bookings.DeleteConfirmed(ctx, userID, slotID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoActiveBooking):
			return reject("No active booking found for this event.")
		default:
			log.Printf("booking: delete for user %d slot %d: %v", userID, slotID, err)
			return reject("Booking cancellation failed due to a server error.")
		}
	}

	log.Printf("booking: user %d cancelled booking for slot %d", userID, slotID)
	s.publish(ctx, kafka.EventBookingCancelled, booking, slot)
	return confirm("Booking cancelled successfully.")
}

// publish is best-effort: a broker failure never affects the result.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, slot *domain.Slot) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:      eventType,
		Reference: booking.Reference,
		UserID:    booking.UserID,
		SlotID:    booking.SlotID,
		SlotTitle: slot.Title,
		StartTime: slot.StartTime,
		Status:    string(booking.Status),
	}
	if err := s.producer.Publish(ctx, s.topic, booking.Reference, event); err != nil {
		log.Printf("booking: publish %s for booking %s: %v", eventType, booking.Reference, err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
