package verify_payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByGatewayOrderID(ctx context.Context, orderID string) (*domain.Booking, error)
	GetWithService(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	CountConfirmed(ctx context.Context, slot domain.SlotKey, excludeID *uuid.UUID) (int, error)
	Confirm(ctx context.Context, id uuid.UUID, paymentID string, amountPaid float64) error
	Cancel(ctx context.Context, id uuid.UUID, reason string, paymentID *string) error
	RecordPayment(ctx context.Context, id uuid.UUID, paymentID string) error
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	GetPolicyWithHierarchy(ctx context.Context, serviceID int64) (*domain.BookingPolicy, error)
}

// RefundRepository очередь ручных возвратов
type RefundRepository interface {
	Enqueue(ctx context.Context, request *domain.RefundRequest) (bool, error)
}

// OrderRepository проекции заказов
type OrderRepository interface {
	Create(ctx context.Context, order *domain.OrderRecord) (bool, error)
}

// SignatureVerifier проверка подписи платежа
type SignatureVerifier interface {
	Verify(orderID, paymentID, signature string) bool
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder учет исходов проверки платежа
type MetricsRecorder interface {
	ObserveVerification(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
