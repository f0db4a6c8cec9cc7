package update_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ServiceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceBooking/internal/api/handlers/cancel_booking"
	"github.com/m04kA/SMC-ServiceBooking/internal/service/bookings"
	"github.com/m04kA/SMC-ServiceBooking/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные данные бронирования"
	msgNotFound           = "бронирование не найдено"
	msgCannotChange       = "бронирование нельзя изменить"
	msgSlotTaken          = "выбранный временной слот уже занят"
	msgPastSlot           = "выбранный слот уже прошел"
)

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

// Handle PATCH /bookings/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// status=cancelled обрабатывается как отмена
	isCancel, err := req.IsCancel()
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid status update: booking_id=%s, error=%v", bookingID, err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	if isCancel {
		booking, err := h.service.Cancel(r.Context(), bookingID)
		if err != nil {
			cancel_booking.RespondCancelError(w, h.logger, "PATCH /bookings/{id}", bookingID, err)
			return
		}
		h.logger.Info("PATCH /bookings/{id} - Booking cancelled successfully: booking_id=%s", bookingID)
		handlers.RespondJSON(w, http.StatusOK, BookingResponse{Booking: models.FromDomainBooking(booking)})
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid date: booking_id=%s, error=%v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	booking, err := h.service.Reschedule(r.Context(), bookingID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrSlotConflict):
			h.logger.Warn("PATCH /bookings/{id} - Slot taken: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, bookings.ErrStateConflict):
			h.logger.Warn("PATCH /bookings/{id} - Cannot change: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondConflict(w, msgCannotChange)

		case errors.Is(err, bookings.ErrPastSlot):
			handlers.RespondBadRequest(w, msgPastSlot)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id} - Invalid input: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to update booking: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id} - Booking updated successfully: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, BookingResponse{Booking: models.FromDomainBooking(booking)})
}
