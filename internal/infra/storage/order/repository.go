package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ServiceBooking/pkg/psqlbuilder"
)

// Repository репозиторий проекций заказов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория заказов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет проекцию заказа
// Для одного бронирования создается не более одной записи: повторная вставка
// ничего не делает и возвращает created=false
func (r *Repository) Create(ctx context.Context, order *domain.OrderRecord) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	payload, err := json.Marshal(order.Payload)
	if err != nil {
		return false, fmt.Errorf("%w: Create - marshal payload: %v", ErrEncodePayload, err)
	}

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	var bookingID interface{}
	if order.BookingID != nil {
		bookingID = order.BookingID.String()
	}

	query, args, err := psqlbuilder.Insert("orders").
		Columns(
			"id",
			"booking_id",
			"user_id",
			"customer_email",
			"customer_name",
			"customer_phone",
			"address_line1",
			"address_line2",
			"city",
			"state",
			"postal_code",
			"amount",
			"currency",
			"payload",
		).
		Values(
			order.ID,
			bookingID,
			order.UserID,
			order.CustomerEmail,
			order.CustomerName,
			order.CustomerPhone,
			order.Address.Line1,
			order.Address.Line2,
			order.Address.City,
			order.Address.State,
			order.Address.PostalCode,
			order.Amount,
			order.Currency,
			payload,
		).
		Suffix("ON CONFLICT (booking_id) DO NOTHING").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Create - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}
