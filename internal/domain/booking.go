package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Address is the postal address where the service is performed
type Address struct {
	Line1      string
	Line2      *string
	City       string
	State      *string
	PostalCode string
}

// Booking represents a reservation attempt for one service slot
type Booking struct {
	ID              uuid.UUID
	ServiceID       int64
	Date            time.Time // calendar day, see types.DateOnly
	StartMinutes    types.Minutes
	DurationMinutes int
	Status          BookingStatus

	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	Notes         *string
	Address       Address

	// GatewayOrderID is set when a payment order is opened, PaymentID when the payment is verified
	GatewayOrderID *string
	PaymentID      *string
	AmountDueMinor *int64
	AmountPaid     *float64

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Service is populated only by reads that join the services table
	Service *Service
}

// SlotKey identifies the slot a booking competes for
type SlotKey struct {
	ServiceID    int64
	Date         time.Time
	StartMinutes types.Minutes
}

// Slot returns the key of the slot this booking occupies
func (b *Booking) Slot() SlotKey {
	return SlotKey{ServiceID: b.ServiceID, Date: b.Date, StartMinutes: b.StartMinutes}
}

// IsTerminal returns true if the booking can no longer change status
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusConfirmed || b.Status == StatusCancelled
}

// IsPending returns true while the booking waits for payment
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// CanBeCancelled returns true if the booking can be cancelled by a customer or operator
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeRescheduled returns true if date, time or customer fields may still change
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// HasRecordedPayment returns true once a verified gateway payment id is stored
func (b *Booking) HasRecordedPayment() bool {
	return b.PaymentID != nil && *b.PaymentID != ""
}

// GatewayReference returns the payment id after verification and the order id before it
func (b *Booking) GatewayReference() *string {
	if b.HasRecordedPayment() {
		return b.PaymentID
	}
	return b.GatewayOrderID
}

// BookingPatch lists customer-editable fields; nil means "leave as is"
type BookingPatch struct {
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string
	Notes         *string
}

// IsEmpty returns true if the patch changes nothing
func (p BookingPatch) IsEmpty() bool {
	return p.CustomerName == nil && p.CustomerPhone == nil && p.CustomerEmail == nil && p.Notes == nil
}

// Apply copies non-nil patch fields into the booking
func (p BookingPatch) Apply(b *Booking) {
	if p.CustomerName != nil {
		b.CustomerName = *p.CustomerName
	}
	if p.CustomerPhone != nil {
		b.CustomerPhone = *p.CustomerPhone
	}
	if p.CustomerEmail != nil {
		b.CustomerEmail = p.CustomerEmail
	}
	if p.Notes != nil {
		b.Notes = p.Notes
	}
}
