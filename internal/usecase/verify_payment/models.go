package verify_payment

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
)

// Outcome итог проверки платежа
type Outcome string

const (
	OutcomeConfirmed        Outcome = "confirmed"
	OutcomeSlotTaken        Outcome = "slot_taken"
	OutcomeAlreadyConfirmed Outcome = "already_confirmed"
	OutcomeAlreadyCancelled Outcome = "already_cancelled"

	// outcomeInvalidSignature используется только для метрик
	outcomeInvalidSignature = "invalid_signature"
)

// Request модель запроса на проверку платежа
type Request struct {
	OrderID   string
	PaymentID string
	Signature string
	BookingID *uuid.UUID       // если передан, должен совпадать с бронированием заказа
	Identity  *domain.Identity // вошедший пользователь, если есть
}

// Response модель ответа
type Response struct {
	Outcome Outcome
	Booking *domain.Booking
}

// Success true, если бронирование подтверждено (сейчас или ранее)
func (r *Response) Success() bool {
	return r.Outcome == OutcomeConfirmed || r.Outcome == OutcomeAlreadyConfirmed
}
