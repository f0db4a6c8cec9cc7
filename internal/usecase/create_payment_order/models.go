package create_payment_order

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/internal/integrations/paymentgateway"
)

// Request модель запроса на открытие платежного заказа
type Request struct {
	BookingID uuid.UUID
}

// Response заказ шлюза для оплаты на стороне клиента
type Response struct {
	Order     *paymentgateway.Order
	BookingID uuid.UUID
}
