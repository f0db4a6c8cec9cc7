package create_booking

import (
	"context"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/internal/policy"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Service, error)
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	GetPolicyWithHierarchy(ctx context.Context, serviceID int64) (*domain.BookingPolicy, error)
}

// PolicyValidator проверка запроса по правилам политики
type PolicyValidator interface {
	Check(ctx context.Context, p *domain.BookingPolicy, req policy.Request) error
}

// PaymentURLBuilder строит ссылку на страницу оплаты (реализуется config.BookingConfig)
type PaymentURLBuilder interface {
	PaymentURL(bookingID string) string
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
