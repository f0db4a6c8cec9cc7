package create_payment_order

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ServiceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceBooking/internal/integrations/paymentgateway"
	createPaymentOrder "github.com/m04kA/SMC-ServiceBooking/internal/usecase/create_payment_order"
)

const (
	msgInvalidBookingID     = "некорректный ID бронирования"
	msgNotFound             = "бронирование не найдено"
	msgInvalidState         = "бронирование не ожидает оплаты"
	msgInvalidAmount        = "у услуги не указана цена"
	msgGatewayMisconfigured = "платежный шлюз не настроен"
	msgGatewayUnavailable   = "платежный шлюз недоступен, повторите попытку позже"
)

// PaymentOrderResponse HTTP response model
type PaymentOrderResponse struct {
	Order     *paymentgateway.Order `json:"order"`
	BookingID uuid.UUID             `json:"bookingId"`
}

type Handler struct {
	useCase CreatePaymentOrderUseCase
	logger  Logger
}

func NewHandler(useCase CreatePaymentOrderUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /payments/booking/{id}/order
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.logger.Warn("POST /payments/booking/{id}/order - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &createPaymentOrder.Request{BookingID: bookingID})
	if err != nil {
		switch {
		case errors.Is(err, createPaymentOrder.ErrBookingNotFound):
			h.logger.Warn("POST /payments/booking/{id}/order - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, createPaymentOrder.ErrInvalidState):
			h.logger.Warn("POST /payments/booking/{id}/order - Invalid state: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, createPaymentOrder.ErrInvalidAmount):
			h.logger.Error("POST /payments/booking/{id}/order - Invalid amount: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidAmount)

		case errors.Is(err, createPaymentOrder.ErrGatewayMisconfigured):
			h.logger.Error("POST /payments/booking/{id}/order - Gateway misconfigured: %v", err)
			handlers.RespondError(w, http.StatusInternalServerError, msgGatewayMisconfigured)

		case errors.Is(err, createPaymentOrder.ErrGatewayUnavailable):
			h.logger.Warn("POST /payments/booking/{id}/order - Gateway unavailable: %v", err)
			handlers.RespondError(w, http.StatusBadGateway, msgGatewayUnavailable)

		default:
			h.logger.Error("POST /payments/booking/{id}/order - Failed to open order: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/booking/{id}/order - Order opened: booking_id=%s, order_id=%s", bookingID, result.Order.ID)
	handlers.RespondJSON(w, http.StatusOK, PaymentOrderResponse{Order: result.Order, BookingID: result.BookingID})
}
