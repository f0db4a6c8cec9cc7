package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

// Request модели

// RescheduleRequest перенос и/или изменение данных клиента
// nil поле означает "оставить как есть"
type RescheduleRequest struct {
	Date         *time.Time
	StartMinutes *types.Minutes
	Patch        domain.BookingPatch
}

// ChangesSlot true, если меняется дата или время
func (r *RescheduleRequest) ChangesSlot() bool {
	return r.Date != nil || r.StartMinutes != nil
}

// IsEmpty true, если запрос ничего не меняет
func (r *RescheduleRequest) IsEmpty() bool {
	return !r.ChangesSlot() && r.Patch.IsEmpty()
}

// Response модели

// ServiceResponse краткие данные услуги
type ServiceResponse struct {
	ID       int64   `json:"id"`
	Slug     string  `json:"slug"`
	Name     string  `json:"name"`
	PriceMin float64 `json:"priceMin"`
}

// AddressResponse адрес выполнения услуги
type AddressResponse struct {
	Line1      string  `json:"addressLine1"`
	Line2      *string `json:"addressLine2,omitempty"`
	City       string  `json:"city"`
	State      *string `json:"state,omitempty"`
	PostalCode string  `json:"postalCode"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              uuid.UUID `json:"id"`
	ServiceID       int64     `json:"serviceId"`
	Date            string    `json:"date"` // "2025-10-15"
	StartMinutes    int       `json:"startMinutes"`
	StartTime       string    `json:"startTime"` // "09:00"
	SlotLabel       string    `json:"slotLabel"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`

	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	CustomerEmail *string         `json:"customerEmail,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Address       AddressResponse `json:"address"`

	// PaymentID идентификатор платежа после проверки, ID заказа шлюза до нее
	PaymentID  *string  `json:"paymentId,omitempty"`
	AmountPaid *float64 `json:"amountPaid,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	Service *ServiceResponse `json:"service,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		ServiceID:       b.ServiceID,
		Date:            types.FormatDate(b.Date),
		StartMinutes:    int(b.StartMinutes),
		StartTime:       b.StartMinutes.String(),
		SlotLabel:       b.StartMinutes.Label(b.DurationMinutes),
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		CustomerEmail:   b.CustomerEmail,
		Notes:           b.Notes,
		Address: AddressResponse{
			Line1:      b.Address.Line1,
			Line2:      b.Address.Line2,
			City:       b.Address.City,
			State:      b.Address.State,
			PostalCode: b.Address.PostalCode,
		},
		PaymentID:          b.GatewayReference(),
		AmountPaid:         b.AmountPaid,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	if b.Service != nil {
		resp.Service = &ServiceResponse{
			ID:       b.Service.ID,
			Slug:     b.Service.Slug,
			Name:     b.Service.Name,
			PriceMin: b.Service.PriceMin,
		}
	}

	return resp
}
