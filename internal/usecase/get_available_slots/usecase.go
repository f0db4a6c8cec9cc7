package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	serviceRepo "github.com/m04kA/SMC-ServiceBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

// UseCase use case для получения слотов услуги на день
type UseCase struct {
	serviceRepo ServiceRepository
	policyRepo  PolicyRepository
	bookingRepo BookingRepository
	clock       Clock
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	serviceRepo ServiceRepository,
	policyRepo PolicyRepository,
	bookingRepo BookingRepository,
	clock Clock,
	logger Logger,
) *UseCase {
	return &UseCase{
		serviceRepo: serviceRepo,
		policyRepo:  policyRepo,
		bookingRepo: bookingRepo,
		clock:       clock,
		logger:      logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Определяем дату
	date, malformed := resolveDate(req.Date, uc.clock)
	if malformed {
		uc.logger.Warn("GetAvailableSlots: malformed date %q, using today", req.Date)
	}

	// 2. Получаем услугу
	service, err := uc.serviceRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service slug=%s not found", req.Slug)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service slug=%s: %v", req.Slug, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 3. Получаем политику с учетом иерархии
	policy, err := uc.policyRepo.GetPolicyWithHierarchy(ctx, service.ID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get policy for service=%d: %v", service.ID, err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}

	// 4. Считаем подтвержденные бронирования
	confirmed, err := uc.bookingRepo.CountConfirmedByDate(ctx, service.ID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to count bookings for service=%d: %v", service.ID, err)
		return nil, fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
	}

	// 5. Размечаем слоты
	slots := buildSlots(policy, date, confirmed, uc.clock)

	uc.logger.Info("GetAvailableSlots: %d slots for service=%s, date=%s", len(slots), service.Slug, types.FormatDate(date))

	return &Response{
		Date:    date,
		Service: service,
		Slots:   slots,
	}, nil
}
