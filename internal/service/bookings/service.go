package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ServiceBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ServiceBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	policyRepo  PolicyRepository
	txManager   TransactionManager
	clock       Clock
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	policyRepo PolicyRepository,
	txManager TransactionManager,
	clock Clock,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		policyRepo:  policyRepo,
		txManager:   txManager,
		clock:       clock,
		logger:      logger,
	}
}

// Get получает бронирование по ID вместе с услугой
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetWithService(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Get: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Get: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return booking, nil
}

// Reschedule переносит бронирование и/или меняет данные клиента
// Менять можно только активное бронирование, до начала которого больше 60 минут
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, req *models.RescheduleRequest) (*domain.Booking, error) {
	if req == nil || req.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if err := validatePatch(req); err != nil {
		return nil, err
	}

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Блокируем бронирование
		booking, err := s.lock(txCtx, id)
		if err != nil {
			return err
		}

		// 2. Проверяем статус и интервал до текущего начала
		if err := s.checkMutable(booking, booking.CanBeRescheduled(), "Reschedule"); err != nil {
			return err
		}

		// 3. Проверяем новый слот
		if req.ChangesSlot() {
			if err := s.applySlot(txCtx, booking, req); err != nil {
				return err
			}
		}

		// 4. Сохраняем
		req.Patch.Apply(booking)
		if _, err := s.bookingRepo.Update(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				return ErrStateConflict
			}
			return fmt.Errorf("update booking: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, s.mapError("Reschedule", id, err)
	}

	s.logger.Info("Reschedule: booking id=%s updated", id)
	return s.Get(ctx, id)
}

// Cancel отменяет бронирование по запросу клиента
// Повторная отмена уже отмененного бронирования возвращает ErrStateConflict
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.lock(txCtx, id)
		if err != nil {
			return err
		}

		if err := s.checkMutable(booking, booking.CanBeCancelled(), "Cancel"); err != nil {
			return err
		}

		if err := s.bookingRepo.Cancel(txCtx, booking.ID, domain.ReasonCustomerCancelled, nil); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				return ErrStateConflict
			}
			return fmt.Errorf("cancel booking: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, s.mapError("Cancel", id, err)
	}

	s.logger.Info("Cancel: booking id=%s cancelled by customer", id)
	return s.Get(ctx, id)
}

func (s *Service) lock(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return booking, nil
}

// checkMutable отмененные бронирования и бронирования за 60 минут до начала не меняются
func (s *Service) checkMutable(booking *domain.Booking, allowed bool, op string) error {
	if !allowed {
		s.logger.Warn("%s: booking id=%s is %s", op, booking.ID, booking.Status)
		return fmt.Errorf("%w: booking is %s", ErrStateConflict, booking.Status)
	}

	if s.clock.MinutesUntil(booking.Date, booking.StartMinutes) <= domain.RescheduleGuardMinutes {
		s.logger.Warn("%s: booking id=%s starts within %d minutes", op, booking.ID, domain.RescheduleGuardMinutes)
		return fmt.Errorf("%w: booking starts within %d minutes", ErrStateConflict, domain.RescheduleGuardMinutes)
	}

	return nil
}

// applySlot проверяет новый слот и переносит на него бронирование
func (s *Service) applySlot(ctx context.Context, booking *domain.Booking, req *models.RescheduleRequest) error {
	date := booking.Date
	if req.Date != nil {
		date = types.DateOnly(*req.Date)
	}
	start := booking.StartMinutes
	if req.StartMinutes != nil {
		start = *req.StartMinutes
	}

	policy, err := s.policyRepo.GetPolicyWithHierarchy(ctx, booking.ServiceID)
	if err != nil {
		return fmt.Errorf("get policy: %w", err)
	}

	if !policy.HasSlot(start) {
		return fmt.Errorf("%w: startMinutes=%d is not a slot of this service", ErrInvalidInput, int(start))
	}

	if s.clock.IsPast(date, start) {
		return ErrPastSlot
	}

	slot := domain.SlotKey{ServiceID: booking.ServiceID, Date: date, StartMinutes: start}
	confirmed, err := s.bookingRepo.CountConfirmed(ctx, slot, &booking.ID)
	if err != nil {
		return fmt.Errorf("count confirmed: %w", err)
	}
	if confirmed >= policy.Capacity() {
		return fmt.Errorf("%w: %s %s", ErrSlotConflict, types.FormatDate(date), start)
	}

	booking.Date = date
	booking.StartMinutes = start
	return nil
}

func (s *Service) mapError(op string, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		s.logger.Warn("%s: booking id=%s not found", op, id)
		return ErrBookingNotFound
	case errors.Is(err, ErrStateConflict),
		errors.Is(err, ErrSlotConflict),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrPastSlot):
		s.logger.Warn("%s: booking id=%s rejected: %v", op, id, err)
		return err
	default:
		s.logger.Error("%s: failed to update booking id=%s: %v", op, id, err)
		return fmt.Errorf("%w: %s - transaction: %v", ErrInternal, op, err)
	}
}
