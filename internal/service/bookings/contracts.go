package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetWithService(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	CountConfirmed(ctx context.Context, slot domain.SlotKey, excludeID *uuid.UUID) (int, error)
	Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string, paymentID *string) error
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	GetPolicyWithHierarchy(ctx context.Context, serviceID int64) (*domain.BookingPolicy, error)
}

// Clock часы сервиса
type Clock interface {
	IsPast(date time.Time, minutes types.Minutes) bool
	MinutesUntil(date time.Time, minutes types.Minutes) float64
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
