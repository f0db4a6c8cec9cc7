package cleanup_stale_bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
)

// MaxStaleMinutes верхняя граница окна, переданного клиентом (сутки)
const MaxStaleMinutes = 24 * 60

// UseCase отмена брошенных pending бронирований
type UseCase struct {
	bookingRepo       BookingRepository
	clock             Clock
	metrics           MetricsRecorder
	staleAfterMinutes int
	logger            Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	clock Clock,
	metrics MetricsRecorder,
	staleAfterMinutes int,
	logger Logger,
) *UseCase {
	if staleAfterMinutes <= 0 {
		staleAfterMinutes = domain.DefaultStaleAfterMinutes
	}
	return &UseCase{
		bookingRepo:       bookingRepo,
		clock:             clock,
		metrics:           metrics,
		staleAfterMinutes: staleAfterMinutes,
		logger:            logger,
	}
}

// Execute отменяет pending бронирования старше окна устаревания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Определяем окно
	minutes := uc.staleAfterMinutes
	if req != nil && req.OlderThanMinutes != 0 {
		minutes = req.OlderThanMinutes
	}
	if minutes < 1 || minutes > MaxStaleMinutes {
		return nil, fmt.Errorf("%w: minutes must be between 1 and %d", ErrInvalidInput, MaxStaleMinutes)
	}

	olderThan := uc.clock.Now().Add(-time.Duration(minutes) * time.Minute)

	// 2. Отменяем одним запросом
	ids, err := uc.bookingRepo.CancelStalePending(ctx, olderThan, domain.ReasonStalePending)
	if err != nil {
		uc.logger.Error("CleanupStaleBookings: failed to cancel pending bookings older than %d min: %v", minutes, err)
		return nil, fmt.Errorf("%w: failed to cancel stale bookings: %v", ErrInternal, err)
	}

	uc.metrics.ObserveReaped(len(ids))
	if len(ids) > 0 {
		uc.logger.Info("CleanupStaleBookings: cancelled %d pending bookings older than %d min", len(ids), minutes)
	}

	return &Response{Cancelled: ids, Count: len(ids)}, nil
}
