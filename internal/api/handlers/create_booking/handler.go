package create_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ServiceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceBooking/internal/policy"
	createBooking "github.com/m04kA/SMC-ServiceBooking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBookingDisabled    = "прием бронирований временно отключен"
	msgServiceNotFound    = "услуга не найдена"
	msgInvalidInput       = "некорректные данные бронирования"
	msgMissingField       = "не заполнено обязательное поле"
	msgInvalidSlot        = "некорректный временной слот"
	msgOutOfServiceArea   = "адрес вне зоны обслуживания"
	msgPastSlot           = "выбранный слот уже прошел"
	msgBlackout           = "бронирование на эту дату закрыто"
	msgTooFarAhead        = "дата бронирования слишком далеко в будущем"
	msgCutoffPassed       = "прием заявок на сегодня для этого слота закрыт"
	msgSlotFull           = "выбранный временной слот уже занят"
)

var rejectionMessages = map[policy.Reason]string{
	policy.ReasonMissingField:     msgMissingField,
	policy.ReasonInvalidSlot:      msgInvalidSlot,
	policy.ReasonOutOfServiceArea: msgOutOfServiceArea,
	policy.ReasonPastSlot:         msgPastSlot,
	policy.ReasonBlackout:         msgBlackout,
	policy.ReasonTooFarAhead:      msgTooFarAhead,
	policy.ReasonCutoffPassed:     msgCutoffPassed,
	policy.ReasonSlotFull:         msgSlotFull,
}

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /services/{slug}/book
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /services/{slug}/book - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(slug))
	if err != nil {
		h.respondError(w, slug, err)
		return
	}

	h.logger.Info("POST /services/{slug}/book - Booking created successfully: booking_id=%s, slug=%s",
		result.Booking.ID, slug)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, slug string, err error) {
	// Отказ по правилам политики
	if rejection, ok := policy.AsRejection(err); ok {
		h.logger.Warn("POST /services/{slug}/book - Rejected: slug=%s, reason=%s", slug, rejection.Reason)

		status := http.StatusBadRequest
		if rejection.Reason == policy.ReasonSlotFull {
			status = http.StatusConflict
		}
		message, ok := rejectionMessages[rejection.Reason]
		if !ok {
			message = msgInvalidInput
		}
		handlers.RespondRejection(w, status, message, string(rejection.Reason), rejection.Field)
		return
	}

	switch {
	case errors.Is(err, createBooking.ErrBookingDisabled):
		h.logger.Warn("POST /services/{slug}/book - Booking disabled: slug=%s", slug)
		handlers.RespondServiceUnavailable(w, msgBookingDisabled)

	case errors.Is(err, createBooking.ErrServiceNotFound):
		h.logger.Warn("POST /services/{slug}/book - Service not found: slug=%s", slug)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, createBooking.ErrInvalidInput):
		h.logger.Warn("POST /services/{slug}/book - Invalid input: slug=%s, error=%v", slug, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("POST /services/{slug}/book - Failed to create booking: slug=%s, error=%v", slug, err)
		handlers.RespondInternalError(w)
	}
}
