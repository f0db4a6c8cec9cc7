package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	serviceRepo "github.com/m04kA/SMC-ServiceBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-ServiceBooking/internal/policy"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo BookingRepository
	serviceRepo ServiceRepository
	policyRepo  PolicyRepository
	validator   PolicyValidator
	paymentURLs PaymentURLBuilder
	enabled     bool
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	policyRepo PolicyRepository,
	validator PolicyValidator,
	paymentURLs PaymentURLBuilder,
	enabled bool,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		policyRepo:  policyRepo,
		validator:   validator,
		paymentURLs: paymentURLs,
		enabled:     enabled,
		logger:      logger,
	}
}

// Execute выполняет use case создания бронирования
// Бронирование создается в статусе pending; место за ним не закрепляется
// до подтверждения оплаты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: slug=%s, date=%s, start=%v", req.Slug, req.Date, req.StartMinutes)

	if !uc.enabled {
		uc.logger.Warn("CreateBooking: booking is disabled")
		return nil, ErrBookingDisabled
	}

	// 1. Валидация формата входных данных
	date, err := parseDate(req.Date)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}
	if err := validateOptional(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	var start *types.Minutes
	if req.StartMinutes != nil {
		v := types.Minutes(*req.StartMinutes)
		start = &v
	}

	// 2. Получаем услугу
	service, err := uc.serviceRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service slug=%s not found", req.Slug)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service slug=%s: %v", req.Slug, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 3. Получаем политику с учетом иерархии
	bookingPolicy, err := uc.policyRepo.GetPolicyWithHierarchy(ctx, service.ID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get policy for service=%d: %v", service.ID, err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}

	// 4. Проверяем правила политики
	err = uc.validator.Check(ctx, bookingPolicy, policy.Request{
		ServiceID:     service.ID,
		Date:          date,
		StartMinutes:  start,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		AddressLine1:  req.AddressLine1,
		City:          req.City,
		PostalCode:    req.PostalCode,
	})
	if err != nil {
		if rejection, ok := policy.AsRejection(err); ok {
			uc.logger.Warn("CreateBooking: rejected for service=%d: %v", service.ID, rejection)
			return nil, rejection
		}
		uc.logger.Error("CreateBooking: policy check failed for service=%d: %v", service.ID, err)
		return nil, fmt.Errorf("%w: policy check: %v", ErrInternal, err)
	}

	// 5. Создаем бронирование в статусе pending
	booking := &domain.Booking{
		ID:              uuid.New(),
		ServiceID:       service.ID,
		Date:            *date,
		StartMinutes:    *start,
		DurationMinutes: bookingPolicy.SlotDurationMinutes,
		Status:          domain.StatusPending,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		CustomerEmail:   trimOptional(req.CustomerEmail),
		Notes:           trimOptional(req.Notes),
		Address: domain.Address{
			Line1:      strings.TrimSpace(req.AddressLine1),
			Line2:      trimOptional(req.AddressLine2),
			City:       strings.TrimSpace(req.City),
			State:      trimOptional(req.State),
			PostalCode: strings.TrimSpace(req.PostalCode),
		},
	}

	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}
	created.Service = service

	uc.logger.Info("CreateBooking: created pending booking id=%s for service=%d date=%s start=%s",
		created.ID, service.ID, types.FormatDate(created.Date), created.StartMinutes)

	return &Response{
		Booking:    created,
		PaymentURL: uc.paymentURLs.PaymentURL(created.ID.String()),
	}, nil
}
