package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownOrderKind  = errors.New("unknown order payload kind")
	ErrEmptyOrderPayload = errors.New("order payload has no data for its kind")
)

// OrderKind is the discriminant of OrderPayload
type OrderKind string

const (
	OrderKindServiceBooking  OrderKind = "service_booking"
	OrderKindProductPurchase OrderKind = "product_purchase"
)

// OrderRecord is a display-only projection of a confirmed purchase.
// It never decides slot ownership; the booking row is the source of truth.
type OrderRecord struct {
	ID            uuid.UUID
	BookingID     *uuid.UUID
	UserID        *string // logged-in identity, preferred over CustomerEmail
	CustomerEmail *string
	CustomerName  string
	CustomerPhone string
	Address       Address
	Amount        float64
	Currency      string
	Payload       OrderPayload
	CreatedAt     time.Time
}

// OrderPayload is a tagged variant: exactly one field matching Kind is set
type OrderPayload struct {
	Kind            OrderKind
	ServiceBooking  *ServiceBookingPayload
	ProductPurchase *ProductPurchasePayload
}

// ServiceBookingPayload describes the booked slot
type ServiceBookingPayload struct {
	BookingID    uuid.UUID `json:"bookingId"`
	ServiceID    int64     `json:"serviceId"`
	ServiceName  string    `json:"serviceName"`
	Date         string    `json:"date"`
	StartMinutes int       `json:"startMinutes"`
	SlotLabel    string    `json:"slotLabel"`
}

// ProductPurchasePayload describes a regular cart checkout
type ProductPurchasePayload struct {
	Items []ProductLine `json:"items"`
}

// ProductLine is one cart position
type ProductLine struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// NewServiceBookingPayload wraps a booking payload into OrderPayload
func NewServiceBookingPayload(p ServiceBookingPayload) OrderPayload {
	return OrderPayload{Kind: OrderKindServiceBooking, ServiceBooking: &p}
}

// NewProductPurchasePayload wraps a product payload into OrderPayload
func NewProductPurchasePayload(p ProductPurchasePayload) OrderPayload {
	return OrderPayload{Kind: OrderKindProductPurchase, ProductPurchase: &p}
}

// Validate checks that the variant matches its discriminant
func (p OrderPayload) Validate() error {
	switch p.Kind {
	case OrderKindServiceBooking:
		if p.ServiceBooking == nil {
			return fmt.Errorf("%w: %s", ErrEmptyOrderPayload, p.Kind)
		}
	case OrderKindProductPurchase:
		if p.ProductPurchase == nil {
			return fmt.Errorf("%w: %s", ErrEmptyOrderPayload, p.Kind)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOrderKind, p.Kind)
	}
	return nil
}

type orderPayloadEnvelope struct {
	Kind OrderKind       `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON encodes the payload as {"kind": ..., "data": {...}}
func (p OrderPayload) MarshalJSON() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	switch p.Kind {
	case OrderKindServiceBooking:
		data, err = json.Marshal(p.ServiceBooking)
	case OrderKindProductPurchase:
		data, err = json.Marshal(p.ProductPurchase)
	}
	if err != nil {
		return nil, err
	}

	return json.Marshal(orderPayloadEnvelope{Kind: p.Kind, Data: data})
}

// UnmarshalJSON decodes the envelope and fills the field selected by kind
func (p *OrderPayload) UnmarshalJSON(raw []byte) error {
	var env orderPayloadEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}

	result := OrderPayload{Kind: env.Kind}
	switch env.Kind {
	case OrderKindServiceBooking:
		var v ServiceBookingPayload
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return fmt.Errorf("decode %s payload: %w", env.Kind, err)
		}
		result.ServiceBooking = &v
	case OrderKindProductPurchase:
		var v ProductPurchasePayload
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return fmt.Errorf("decode %s payload: %w", env.Kind, err)
		}
		result.ProductPurchase = &v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOrderKind, env.Kind)
	}

	*p = result
	return nil
}
