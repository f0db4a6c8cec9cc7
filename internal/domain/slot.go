package domain

import "github.com/m04kA/SMC-ServiceBooking/pkg/types"

// AvailableSlot represents one fixed slot of a service day
type AvailableSlot struct {
	StartMinutes    types.Minutes
	DurationMinutes int
	Label           string
	Booked          bool
	ConfirmedCount  int
	Capacity        int
}

// IsFull returns true if confirmed bookings reached capacity
func (s *AvailableSlot) IsFull() bool {
	return s.ConfirmedCount >= s.Capacity
}
