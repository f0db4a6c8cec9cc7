package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ServiceBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

const table = "bookings"

// columns порядок колонок совпадает с порядком полей в scanBooking
var columns = []string{
	"b.id",
	"b.service_id",
	"b.booking_date",
	"b.start_minutes",
	"b.duration_minutes",
	"b.status",
	"b.customer_name",
	"b.customer_phone",
	"b.customer_email",
	"b.notes",
	"b.address_line1",
	"b.address_line2",
	"b.city",
	"b.state",
	"b.postal_code",
	"b.gateway_order_id",
	"b.payment_id",
	"b.amount_due_minor",
	"b.amount_paid",
	"b.cancellation_reason",
	"b.cancelled_at",
	"b.created_at",
	"b.updated_at",
}

var serviceColumns = []string{
	"s.slug",
	"s.name",
	"s.description",
	"s.price_min",
	"s.is_active",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если ID не задан, генерируется новый UUID.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"service_id",
			"booking_date",
			"start_minutes",
			"duration_minutes",
			"status",
			"customer_name",
			"customer_phone",
			"customer_email",
			"notes",
			"address_line1",
			"address_line2",
			"city",
			"state",
			"postal_code",
		).
		Values(
			booking.ID,
			booking.ServiceID,
			types.FormatDate(booking.Date),
			booking.StartMinutes,
			booking.DurationMinutes,
			booking.Status,
			booking.CustomerName,
			booking.CustomerPhone,
			booking.CustomerEmail,
			booking.Notes,
			booking.Address.Line1,
			booking.Address.Line2,
			booking.Address.City,
			booking.Address.State,
			booking.Address.PostalCode,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"b.id": id.String()}, "GetByID")
}

// GetByGatewayOrderID получает бронирование по идентификатору заказа в платежном шлюзе
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByGatewayOrderID(ctx context.Context, orderID string) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"b.gateway_order_id": orderID}, "GetByGatewayOrderID")
}

// GetWithService получает бронирование вместе с данными услуги
func (r *Repository) GetWithService(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(append(append([]string{}, columns...), serviceColumns...)...).
		From(table + " b").
		Join("services s ON s.id = b.service_id").
		Where(squirrel.Eq{"b.id": id.String()}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWithService - build select query: %v", ErrBuildQuery, err)
	}

	var booking domain.Booking
	service := domain.Service{}

	dest := append(bookingDest(&booking),
		&service.Slug,
		&service.Name,
		&service.Description,
		&service.PriceMin,
		&service.IsActive,
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithService - scan booking: %w", ErrScanRow, err)
	}

	normalize(&booking)
	service.ID = booking.ServiceID
	booking.Service = &service

	return &booking, nil
}

// CountConfirmed считает подтвержденные бронирования слота
// excludeID исключает из подсчета само проверяемое бронирование
func (r *Repository) CountConfirmed(ctx context.Context, slot domain.SlotKey, excludeID *uuid.UUID) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{
			"service_id":    slot.ServiceID,
			"booking_date":  types.FormatDate(slot.Date),
			"start_minutes": slot.StartMinutes,
			"status":        domain.StatusConfirmed,
		})

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": excludeID.String()})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountConfirmed - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountConfirmed - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// CountConfirmedByDate возвращает количество подтвержденных бронирований по каждому слоту дня
func (r *Repository) CountConfirmedByDate(ctx context.Context, serviceID int64, date time.Time) (map[types.Minutes]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("start_minutes", "COUNT(*)").
		From(table).
		Where(squirrel.Eq{
			"service_id":   serviceID,
			"booking_date": types.FormatDate(date),
			"status":       domain.StatusConfirmed,
		}).
		GroupBy("start_minutes").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountConfirmedByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountConfirmedByDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[types.Minutes]int)
	for rows.Next() {
		var (
			start types.Minutes
			count int
		)
		if err := rows.Scan(&start, &count); err != nil {
			return nil, fmt.Errorf("%w: CountConfirmedByDate - scan row: %w", ErrScanRow, err)
		}
		counts[start] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountConfirmedByDate - rows error: %w", ErrScanRow, err)
	}

	return counts, nil
}

// Update сохраняет изменяемые поля бронирования (дата, время, данные клиента)
// Изменение разрешено только для активных бронирований
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("booking_date", types.FormatDate(booking.Date)).
		Set("start_minutes", booking.StartMinutes).
		Set("customer_name", booking.CustomerName).
		Set("customer_phone", booking.CustomerPhone).
		Set("customer_email", booking.CustomerEmail).
		Set("notes", booking.Notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID.String(), "status": domain.ActiveStatuses}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// SetGatewayOrder сохраняет ID заказа шлюза и сумму к оплате
// Разрешено только для бронирований в статусе pending
func (r *Repository) SetGatewayOrder(ctx context.Context, id uuid.UUID, orderID string, amountMinor int64) error {
	query, args, err := psqlbuilder.Update(table).
		Set("gateway_order_id", orderID).
		Set("amount_due_minor", amountMinor).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String(), "status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetGatewayOrder - build update query: %v", ErrBuildQuery, err)
	}

	return r.execSingle(ctx, "SetGatewayOrder", query, args)
}

// Confirm переводит pending бронирование в confirmed и сохраняет данные оплаты
func (r *Repository) Confirm(ctx context.Context, id uuid.UUID, paymentID string, amountPaid float64) error {
	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.StatusConfirmed).
		Set("payment_id", paymentID).
		Set("amount_paid", amountPaid).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String(), "status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %v", ErrBuildQuery, err)
	}

	return r.execSingle(ctx, "Confirm", query, args)
}

// Cancel отменяет активное бронирование с указанием причины
// paymentID (если задан) сохраняется, чтобы повторная проверка платежа распознала его как обработанный
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID, reason string, paymentID *string) error {
	updateBuilder := psqlbuilder.Update(table).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String(), "status": domain.ActiveStatuses})

	if paymentID != nil {
		updateBuilder = updateBuilder.Set("payment_id", *paymentID)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execSingle(ctx, "Cancel", query, args)
}

// RecordPayment сохраняет ID платежа у уже отмененного бронирования
func (r *Repository) RecordPayment(ctx context.Context, id uuid.UUID, paymentID string) error {
	query, args, err := psqlbuilder.Update(table).
		Set("payment_id", paymentID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String(), "payment_id": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RecordPayment - build update query: %v", ErrBuildQuery, err)
	}

	return r.execSingle(ctx, "RecordPayment", query, args)
}

// CancelStalePending отменяет pending бронирования, созданные раньше olderThan
// Возвращает ID отмененных бронирований
func (r *Repository) CancelStalePending(ctx context.Context, olderThan time.Time, reason string) ([]uuid.UUID, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.Lt{"created_at": olderThan}).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CancelStalePending - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CancelStalePending - execute update: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: CancelStalePending - scan id: %w", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CancelStalePending - rows error: %w", ErrScanRow, err)
	}

	return ids, nil
}

// getOne выбирает одно бронирование по условию
func (r *Repository) getOne(ctx context.Context, where squirrel.Sqlizer, op string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table + " b").
		Where(where)

	// В транзакции блокируем строку, чтобы параллельные проверки платежа шли последовательно
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var booking domain.Booking
	err = executor.QueryRowContext(ctx, query, args...).Scan(bookingDest(&booking)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %w", ErrScanRow, op, err)
	}

	normalize(&booking)
	return &booking, nil
}

// execSingle выполняет UPDATE, который должен затронуть ровно одну строку
// Если строк не затронуто, различает "не найдено" и "статус не позволяет"
func (r *Repository) execSingle(ctx context.Context, op string, query string, args []interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// bookingDest указатели на поля в порядке columns
func bookingDest(b *domain.Booking) []interface{} {
	return []interface{}{
		&b.ID,
		&b.ServiceID,
		&b.Date,
		&b.StartMinutes,
		&b.DurationMinutes,
		&b.Status,
		&b.CustomerName,
		&b.CustomerPhone,
		&b.CustomerEmail,
		&b.Notes,
		&b.Address.Line1,
		&b.Address.Line2,
		&b.Address.City,
		&b.Address.State,
		&b.Address.PostalCode,
		&b.GatewayOrderID,
		&b.PaymentID,
		&b.AmountDueMinor,
		&b.AmountPaid,
		&b.CancellationReason,
		&b.CancelledAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

// normalize приводит дату из БД к календарному дню
func normalize(b *domain.Booking) {
	b.Date = types.DateOnly(b.Date)
}
