package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ServiceBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

const table = "service_booking_policies"

// Repository репозиторий политик бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByServiceID получает политику конкретного уровня
// serviceID == nil - глобальная политика для всех услуг
func (r *Repository) GetByServiceID(ctx context.Context, serviceID *int64) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"service_id",
		"slot_starts",
		"slot_duration_minutes",
		"capacity_per_slot",
		"max_advance_days",
		"same_day_cutoff_minutes",
		"allowed_postal_prefixes",
		"blackout_dates::TEXT[]",
		"created_at",
		"updated_at",
	).
		From(table)

	// Фильтрация по service_id (NULL или конкретное значение)
	if serviceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByServiceID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		policy     domain.BookingPolicy
		slotStarts pq.Int64Array
		prefixes   pq.StringArray
		blackouts  pq.StringArray
		cutoff     sql.NullInt64
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&policy.ID,
		&policy.ServiceID,
		&slotStarts,
		&policy.SlotDurationMinutes,
		&policy.CapacityPerSlot,
		&policy.MaxAdvanceDays,
		&cutoff,
		&prefixes,
		&blackouts,
		&policy.CreatedAt,
		&policy.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByServiceID - scan policy: %w", ErrScanRow, err)
	}

	policy.SlotStarts = make([]types.Minutes, 0, len(slotStarts))
	for _, start := range slotStarts {
		policy.SlotStarts = append(policy.SlotStarts, types.Minutes(start))
	}

	if cutoff.Valid {
		v := types.Minutes(cutoff.Int64)
		policy.SameDayCutoffMinutes = &v
	}

	policy.AllowedPostalPrefixes = []string(prefixes)

	for _, raw := range blackouts {
		date, err := types.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByServiceID - parse blackout date %q: %v", ErrScanRow, raw, err)
		}
		policy.BlackoutDates = append(policy.BlackoutDates, date)
	}

	return &policy, nil
}

// GetPolicyWithHierarchy получает политику с учетом иерархии приоритетов
// Приоритет применения политики:
// 1. Политика конкретной услуги (serviceID)
// 2. Глобальная политика (NULL)
// 3. Политика по умолчанию (domain.DefaultBookingPolicy)
func (r *Repository) GetPolicyWithHierarchy(ctx context.Context, serviceID int64) (*domain.BookingPolicy, error) {
	// 1. Пробуем получить политику конкретной услуги
	policy, err := r.GetByServiceID(ctx, &serviceID)
	if err == nil {
		return policy, nil
	}
	if !errors.Is(err, ErrPolicyNotFound) {
		return nil, fmt.Errorf("%w: GetPolicyWithHierarchy - level 1 (service): %w", ErrExecQuery, err)
	}

	// 2. Пробуем получить глобальную политику
	policy, err = r.GetByServiceID(ctx, nil)
	if err == nil {
		return policy, nil
	}
	if !errors.Is(err, ErrPolicyNotFound) {
		return nil, fmt.Errorf("%w: GetPolicyWithHierarchy - level 2 (global): %w", ErrExecQuery, err)
	}

	// 3. Ничего не настроено - используем значения по умолчанию
	return domain.DefaultBookingPolicy(), nil
}
