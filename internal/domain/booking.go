package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking binds one user to one slot. At most one confirmed booking may
// exist per (user, slot) pair; cancellation deletes the row outright.
type Booking struct {
	ID        int64
	UserID    int64
	SlotID    int64
	Reference string
	Status    BookingStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
