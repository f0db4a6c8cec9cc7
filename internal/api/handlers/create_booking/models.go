package create_booking

import (
	"github.com/m04kA/SMC-ServiceBooking/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-ServiceBooking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Date          string  `json:"date"` // "2025-10-15"
	StartMinutes  *int    `json:"startMinutes"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	AddressLine1  string  `json:"addressLine1"`
	AddressLine2  *string `json:"addressLine2,omitempty"`
	City          string  `json:"city"`
	State         *string `json:"state,omitempty"`
	PostalCode    string  `json:"postalCode"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Booking    *models.BookingResponse `json:"booking"`
	PaymentURL string                  `json:"paymentUrl"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(slug string) *createBooking.Request {
	return &createBooking.Request{
		Slug:          slug,
		Date:          r.Date,
		StartMinutes:  r.StartMinutes,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		Notes:         r.Notes,
		AddressLine1:  r.AddressLine1,
		AddressLine2:  r.AddressLine2,
		City:          r.City,
		State:         r.State,
		PostalCode:    r.PostalCode,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking:    models.FromDomainBooking(resp.Booking),
		PaymentURL: resp.PaymentURL,
	}
}
