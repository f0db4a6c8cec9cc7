package cleanup_stale_bookings

import (
	"context"

	cleanupStaleBookings "github.com/m04kA/SMC-ServiceBooking/internal/usecase/cleanup_stale_bookings"
)

type CleanupUseCase interface {
	Execute(ctx context.Context, req *cleanupStaleBookings.Request) (*cleanupStaleBookings.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
