package refund

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ServiceBooking/pkg/psqlbuilder"
)

// Repository очередь заявок на ручной возврат средств
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория возвратов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Enqueue ставит заявку на возврат в очередь оператора
// Один платеж шлюза попадает в очередь не более одного раза (created=false для повтора)
func (r *Repository) Enqueue(ctx context.Context, request *domain.RefundRequest) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	if request.Status == "" {
		request.Status = domain.RefundPending
	}

	query, args, err := psqlbuilder.Insert("refund_requests").
		Columns(
			"id",
			"booking_id",
			"gateway_order_id",
			"gateway_payment_id",
			"amount_minor",
			"reason",
			"status",
		).
		Values(
			request.ID,
			request.BookingID,
			request.GatewayOrderID,
			request.GatewayPaymentID,
			request.AmountMinor,
			request.Reason,
			request.Status,
		).
		Suffix("ON CONFLICT (gateway_payment_id) DO NOTHING").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Enqueue - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Enqueue - execute insert: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Enqueue - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}
