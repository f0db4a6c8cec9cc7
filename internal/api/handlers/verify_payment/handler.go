package verify_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ServiceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceBooking/internal/api/middleware"
	verifyPayment "github.com/m04kA/SMC-ServiceBooking/internal/usecase/verify_payment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "orderId, paymentId и signature обязательны"
	msgInvalidSignature   = "подпись платежа не прошла проверку"
	msgNotFound           = "бронирование для заказа не найдено"
	msgSlotTaken          = "слот уже занят другим оплаченным бронированием, возврат поставлен в очередь"
	msgAlreadyCancelled   = "бронирование уже отменено"
)

type Handler struct {
	useCase VerifyPaymentUseCase
	logger  Logger
}

func NewHandler(useCase VerifyPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /payments/booking/verify
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/booking/verify - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &verifyPayment.Request{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		BookingID: req.BookingID,
		Identity:  middleware.IdentityFromContext(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, verifyPayment.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, verifyPayment.ErrInvalidSignature):
			h.logger.Warn("POST /payments/booking/verify - Invalid signature: order_id=%s", req.OrderID)
			handlers.RespondBadRequest(w, msgInvalidSignature)

		case errors.Is(err, verifyPayment.ErrBookingNotFound):
			h.logger.Warn("POST /payments/booking/verify - Booking not found: order_id=%s", req.OrderID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("POST /payments/booking/verify - Failed to verify payment: order_id=%s, error=%v", req.OrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	switch result.Outcome {
	case verifyPayment.OutcomeSlotTaken:
		response.Error = msgSlotTaken
		handlers.RespondJSON(w, http.StatusConflict, response)

	case verifyPayment.OutcomeAlreadyCancelled:
		response.Error = msgAlreadyCancelled
		handlers.RespondJSON(w, http.StatusConflict, response)

	default:
		h.logger.Info("POST /payments/booking/verify - Payment verified: order_id=%s, outcome=%s", req.OrderID, result.Outcome)
		handlers.RespondJSON(w, http.StatusOK, response)
	}
}
