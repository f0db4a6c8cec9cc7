package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ServiceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceBooking/internal/service/bookings"
	"github.com/m04kA/SMC-ServiceBooking/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgCannotCancel     = "бронирование не может быть отменено"
)

// BookingResponse HTTP response model
type BookingResponse struct {
	Booking *models.BookingResponse `json:"booking"`
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /bookings/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.logger.Warn("DELETE /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.Cancel(r.Context(), bookingID)
	if err != nil {
		RespondCancelError(w, h.logger, "DELETE /bookings/{id}", bookingID, err)
		return
	}

	h.logger.Info("DELETE /bookings/{id} - Booking cancelled successfully: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, BookingResponse{Booking: models.FromDomainBooking(booking)})
}

// RespondCancelError общая обработка ошибок отмены (DELETE и PATCH status=cancelled)
func RespondCancelError(w http.ResponseWriter, logger Logger, route string, bookingID uuid.UUID, err error) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		logger.Warn("%s - Booking not found: booking_id=%s", route, bookingID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, bookings.ErrStateConflict):
		logger.Warn("%s - Cannot cancel: booking_id=%s, error=%v", route, bookingID, err)
		handlers.RespondConflict(w, msgCannotCancel)

	default:
		logger.Error("%s - Failed to cancel booking: booking_id=%s, error=%v", route, bookingID, err)
		handlers.RespondInternalError(w)
	}
}
