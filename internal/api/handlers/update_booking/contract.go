package update_booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/internal/service/bookings/models"
)

type BookingService interface {
	Reschedule(ctx context.Context, id uuid.UUID, req *models.RescheduleRequest) (*domain.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
