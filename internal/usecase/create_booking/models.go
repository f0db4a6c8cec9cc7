package create_booking

import "github.com/m04kA/SMC-ServiceBooking/internal/domain"

// Request модель запроса на создание бронирования
type Request struct {
	Slug          string
	Date          string // YYYY-MM-DD или DD-MM-YYYY
	StartMinutes  *int
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	Notes         *string
	AddressLine1  string
	AddressLine2  *string
	City          string
	State         *string
	PostalCode    string
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking    *domain.Booking
	PaymentURL string
}
