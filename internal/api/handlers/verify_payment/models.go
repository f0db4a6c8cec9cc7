package verify_payment

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/internal/service/bookings/models"
	verifyPayment "github.com/m04kA/SMC-ServiceBooking/internal/usecase/verify_payment"
)

// VerifyPaymentRequest HTTP request model
type VerifyPaymentRequest struct {
	OrderID   string     `json:"orderId"`
	PaymentID string     `json:"paymentId"`
	Signature string     `json:"signature"`
	BookingID *uuid.UUID `json:"bookingId,omitempty"`
}

// VerifyPaymentResponse HTTP response model
type VerifyPaymentResponse struct {
	Success bool                    `json:"success"`
	Outcome string                  `json:"outcome"`
	Booking *models.BookingResponse `json:"booking"`
	Error   string                  `json:"error,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *verifyPayment.Response) *VerifyPaymentResponse {
	return &VerifyPaymentResponse{
		Success: resp.Success(),
		Outcome: string(resp.Outcome),
		Booking: models.FromDomainBooking(resp.Booking),
	}
}
