package get_booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
)

type BookingService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
