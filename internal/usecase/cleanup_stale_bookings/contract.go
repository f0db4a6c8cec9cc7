package cleanup_stale_bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CancelStalePending(ctx context.Context, olderThan time.Time, reason string) ([]uuid.UUID, error)
}

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

// MetricsRecorder учет отмененных бронирований
type MetricsRecorder interface {
	ObserveReaped(count int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
