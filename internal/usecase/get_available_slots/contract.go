package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Service, error)
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	// GetPolicyWithHierarchy получает политику с учетом иерархии приоритетов
	GetPolicyWithHierarchy(ctx context.Context, serviceID int64) (*domain.BookingPolicy, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// CountConfirmedByDate количество подтвержденных бронирований по каждому слоту дня
	CountConfirmedByDate(ctx context.Context, serviceID int64, date time.Time) (map[types.Minutes]int, error)
}

// Clock часы сервиса (реализуется *clock.Clock)
type Clock interface {
	Today() time.Time
	IsPast(date time.Time, minutes types.Minutes) bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
