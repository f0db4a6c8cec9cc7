package domain

import "github.com/m04kA/SMC-ServiceBooking/pkg/types"

// Default configuration values
var DefaultSlotStarts = []types.Minutes{540, 660, 780, 900, 1020, 1140}

const (
	DefaultSlotDurationMinutes = 120
	DefaultCapacityPerSlot     = 1
	DefaultMaxAdvanceDays      = 30
	DefaultStaleAfterMinutes   = 10
	DefaultTimezone            = "Asia/Kolkata"
	DefaultCurrency            = "INR"
)

// Business validation constants
const (
	// RescheduleGuardMinutes customers cannot change or cancel a booking this close to its start
	RescheduleGuardMinutes = 60

	MinCapacityPerSlot          = 1
	MaxCapacityPerSlot          = 100
	MinSlotDurationMinutes      = 15
	MaxSlotDurationMinutes      = 480
	MaxAdvanceDays              = 365
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	PostalCodeLength            = 6
)

// Cancellation reasons recorded by the system
const (
	ReasonCustomerCancelled = "cancelled by customer"
	ReasonSlotTaken         = "slot already taken by another paid booking"
	ReasonInvalidSignature  = "payment signature verification failed"
	ReasonStalePending      = "payment not completed in time"
	ReasonPaidAfterCancel   = "payment received after the booking was cancelled"
)

// ActiveStatuses statuses that may still occupy a slot
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
