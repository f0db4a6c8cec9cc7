package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

// Service is a bookable offering with a daily schedule of fixed-length slots
type Service struct {
	ID          int64
	Slug        string
	Name        string
	Description string
	PriceMin    float64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookingPolicy is the set of rules a booking request must satisfy
// Supports two configuration levels:
// 1. Service-specific (ServiceID set)
// 2. Global for all services (ServiceID == nil)
type BookingPolicy struct {
	ID                    int64
	ServiceID             *int64
	SlotStarts            []types.Minutes
	SlotDurationMinutes   int
	CapacityPerSlot       int
	MaxAdvanceDays        int
	SameDayCutoffMinutes  *types.Minutes // nil = no same-day cutoff
	AllowedPostalPrefixes []string       // empty = every postal code is served
	BlackoutDates         []time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// DefaultBookingPolicy returns the policy used when nothing is configured
func DefaultBookingPolicy() *BookingPolicy {
	starts := make([]types.Minutes, len(DefaultSlotStarts))
	copy(starts, DefaultSlotStarts)

	return &BookingPolicy{
		SlotStarts:          starts,
		SlotDurationMinutes: DefaultSlotDurationMinutes,
		CapacityPerSlot:     DefaultCapacityPerSlot,
		MaxAdvanceDays:      DefaultMaxAdvanceDays,
	}
}

// IsGlobal returns true if this policy applies to every service
func (p *BookingPolicy) IsGlobal() bool {
	return p.ServiceID == nil
}

// HasSlot returns true if minutes is one of the configured slot starts
func (p *BookingPolicy) HasSlot(minutes types.Minutes) bool {
	for _, s := range p.SlotStarts {
		if s == minutes {
			return true
		}
	}
	return false
}

// IsBlackout returns true if no bookings are accepted on date
func (p *BookingPolicy) IsBlackout(date time.Time) bool {
	for _, d := range p.BlackoutDates {
		if types.SameDay(d, date) {
			return true
		}
	}
	return false
}

// ServesPostalCode returns true if the postal code prefix is inside the service area
func (p *BookingPolicy) ServesPostalCode(postalCode string) bool {
	if len(p.AllowedPostalPrefixes) == 0 {
		return true
	}
	for _, prefix := range p.AllowedPostalPrefixes {
		if prefix != "" && strings.HasPrefix(postalCode, prefix) {
			return true
		}
	}
	return false
}

// Capacity returns the per-slot capacity, never less than one
func (p *BookingPolicy) Capacity() int {
	if p.CapacityPerSlot < MinCapacityPerSlot {
		return MinCapacityPerSlot
	}
	return p.CapacityPerSlot
}
