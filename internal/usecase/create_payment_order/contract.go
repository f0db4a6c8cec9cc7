package create_payment_order

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/internal/integrations/paymentgateway"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetWithService(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	SetGatewayOrder(ctx context.Context, id uuid.UUID, orderID string, amountMinor int64) error
}

// Gateway платежный шлюз (реальный клиент или режим разработки)
type Gateway interface {
	CreateOrder(ctx context.Context, in paymentgateway.CreateOrderRequest) (*paymentgateway.Order, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
