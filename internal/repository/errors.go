// Package repository implements postgres persistence for slots, bookings,
// users, and the configuration singleton using pgx.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrSlotFull is returned when a slot's confirmed bookings already reach
// its capacity.
var ErrSlotFull = errors.New("slot is fully booked")

// ErrDuplicateBooking is returned when the user already holds a confirmed
// booking for the slot.
var ErrDuplicateBooking = errors.New("booking already exists for this user and slot")

// ErrNoActiveBooking is returned when a cancellation finds no confirmed
// booking to remove.
var ErrNoActiveBooking = errors.New("no active booking")

// ErrSlotHasBookings is returned when deleting a slot that still has
// bookings attached.
var ErrSlotHasBookings = errors.New("slot has bookings")
