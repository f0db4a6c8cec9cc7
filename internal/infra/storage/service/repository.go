package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/gosimple/slug"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ServiceBooking/pkg/psqlbuilder"
)

// Repository репозиторий услуг (только чтение)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBySlug получает активную услугу по slug
// Slug приводится к каноническому виду, поэтому "Lawn Mowing" и "lawn-mowing" эквивалентны
func (r *Repository) GetBySlug(ctx context.Context, rawSlug string) (*domain.Service, error) {
	normalized := slug.Make(rawSlug)
	if normalized == "" {
		return nil, ErrServiceNotFound
	}

	return r.getOne(ctx, squirrel.Eq{"slug": normalized, "is_active": true}, "GetBySlug")
}

// GetByID получает услугу по ID независимо от её активности
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Sqlizer, op string) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"slug",
		"name",
		"description",
		"price_min",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var service domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.Slug,
		&service.Name,
		&service.Description,
		&service.PriceMin,
		&service.IsActive,
		&service.CreatedAt,
		&service.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan service: %w", ErrScanRow, op, err)
	}

	return &service, nil
}
