package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefundStatus is the state of a manual refund request
type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundCompleted RefundStatus = "completed"
	RefundRejected  RefundStatus = "rejected"
)

// RefundRequest is queued for an operator when money was captured for a booking
// that did not get the slot. No gateway refund is issued automatically.
type RefundRequest struct {
	ID               uuid.UUID
	BookingID        uuid.UUID
	GatewayOrderID   string
	GatewayPaymentID string
	AmountMinor      int64
	Reason           string
	Status           RefundStatus
	CreatedAt        time.Time
}
