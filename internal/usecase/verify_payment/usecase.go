package verify_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ServiceBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

// UseCase проверка платежа и арбитраж слота
type UseCase struct {
	bookingRepo BookingRepository
	policyRepo  PolicyRepository
	refundRepo  RefundRepository
	orderRepo   OrderRepository
	verifier    SignatureVerifier
	txManager   TransactionManager
	metrics     MetricsRecorder
	currency    string
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	policyRepo PolicyRepository,
	refundRepo RefundRepository,
	orderRepo OrderRepository,
	verifier SignatureVerifier,
	txManager TransactionManager,
	metrics MetricsRecorder,
	currency string,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		policyRepo:  policyRepo,
		refundRepo:  refundRepo,
		orderRepo:   orderRepo,
		verifier:    verifier,
		txManager:   txManager,
		metrics:     metrics,
		currency:    currency,
		logger:      logger,
	}
}

// Execute проверяет подпись и атомарно решает, получает ли бронирование слот
// Повторный вызов с теми же данными не запускает арбитраж заново
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	req.OrderID = strings.TrimSpace(req.OrderID)
	req.PaymentID = strings.TrimSpace(req.PaymentID)
	if req.OrderID == "" || req.PaymentID == "" || strings.TrimSpace(req.Signature) == "" {
		return nil, fmt.Errorf("%w: orderId, paymentId and signature are required", ErrInvalidInput)
	}

	// 2. Проверка подписи
	if !uc.verifier.Verify(req.OrderID, req.PaymentID, req.Signature) {
		uc.logger.Warn("VerifyPayment: invalid signature for order=%s", req.OrderID)
		uc.metrics.ObserveVerification(outcomeInvalidSignature)
		uc.cancelOnInvalidSignature(ctx, req.OrderID)
		return nil, ErrInvalidSignature
	}

	// 3. Ищем бронирование по заказу
	booking, err := uc.findBooking(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Повторная доставка - состояние уже терминальное
	if booking.IsTerminal() {
		return uc.replay(ctx, booking, req)
	}

	// 5. Арбитраж слота в одной сериализуемой транзакции
	var outcome Outcome
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var txErr error
		outcome, txErr = uc.arbitrate(txCtx, req)
		return txErr
	})
	if err != nil {
		uc.logger.Error("VerifyPayment: arbitration failed for order=%s: %v", req.OrderID, err)
		return nil, fmt.Errorf("%w: arbitration: %v", ErrInternal, err)
	}

	// 6. Перечитываем результат
	result, err := uc.bookingRepo.GetWithService(ctx, booking.ID)
	if err != nil {
		uc.logger.Error("VerifyPayment: failed to reload booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: reload booking: %v", ErrInternal, err)
	}

	uc.metrics.ObserveVerification(string(outcome))

	switch outcome {
	case OutcomeConfirmed:
		uc.logger.Info("VerifyPayment: booking id=%s confirmed with payment=%s", result.ID, req.PaymentID)
		// 7. Проекция заказа (best effort, подтверждение не откатывается)
		uc.project(ctx, result, req.Identity)
	case OutcomeSlotTaken:
		uc.logger.Warn("VerifyPayment: booking id=%s lost slot %s %s, refund queued for payment=%s",
			result.ID, types.FormatDate(result.Date), result.StartMinutes, req.PaymentID)
	default:
		uc.logger.Info("VerifyPayment: booking id=%s already handled (%s)", result.ID, outcome)
	}

	return &Response{Outcome: outcome, Booking: result}, nil
}

// arbitrate выполняется внутри транзакции; ошибки БД должны оборачиваться через %w,
// чтобы менеджер транзакций распознал конфликт сериализации
func (uc *UseCase) arbitrate(ctx context.Context, req *Request) (Outcome, error) {
	// 5.1. Блокируем строку бронирования
	booking, err := uc.bookingRepo.GetByGatewayOrderID(ctx, req.OrderID)
	if err != nil {
		return "", fmt.Errorf("lock booking: %w", err)
	}

	// Пока ждали блокировку, бронирование могли обработать
	if booking.IsTerminal() {
		return uc.settleTerminal(ctx, booking, req)
	}

	// 5.2. Вместимость слота
	policy, err := uc.policyRepo.GetPolicyWithHierarchy(ctx, booking.ServiceID)
	if err != nil {
		return "", fmt.Errorf("get policy: %w", err)
	}

	// 5.3. Сколько других бронирований уже подтверждено на этот слот
	others, err := uc.bookingRepo.CountConfirmed(ctx, booking.Slot(), &booking.ID)
	if err != nil {
		return "", fmt.Errorf("count confirmed: %w", err)
	}

	// 5.4. Слот занят - бронирование проигрывает, деньги уходят в очередь возвратов
	if others >= policy.Capacity() {
		paymentID := req.PaymentID
		if err := uc.bookingRepo.Cancel(ctx, booking.ID, domain.ReasonSlotTaken, &paymentID); err != nil {
			return "", fmt.Errorf("cancel losing booking: %w", err)
		}
		if err := uc.enqueueRefund(ctx, booking, req, domain.ReasonSlotTaken); err != nil {
			return "", err
		}
		return OutcomeSlotTaken, nil
	}

	// 5.5. Слот свободен - подтверждаем
	if err := uc.bookingRepo.Confirm(ctx, booking.ID, req.PaymentID, amountPaid(booking)); err != nil {
		return "", fmt.Errorf("confirm booking: %w", err)
	}

	return OutcomeConfirmed, nil
}

// replay обрабатывает повторную доставку для терминального бронирования
func (uc *UseCase) replay(ctx context.Context, booking *domain.Booking, req *Request) (*Response, error) {
	// Оплата пришла на отмененное бронирование без платежа - нужна транзакция
	if booking.Status == domain.StatusCancelled && !booking.HasRecordedPayment() {
		var outcome Outcome
		err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			locked, err := uc.bookingRepo.GetByGatewayOrderID(txCtx, req.OrderID)
			if err != nil {
				return fmt.Errorf("lock booking: %w", err)
			}
			if !locked.IsTerminal() {
				// Повторную доставку обгоняет только отмена, сюда попадать не должны
				return fmt.Errorf("booking %s returned to %s", locked.ID, locked.Status)
			}
			outcome, err = uc.settleTerminal(txCtx, locked, req)
			return err
		})
		if err != nil {
			uc.logger.Error("VerifyPayment: failed to settle payment for cancelled booking id=%s: %v", booking.ID, err)
			return nil, fmt.Errorf("%w: settle cancelled booking: %v", ErrInternal, err)
		}

		uc.metrics.ObserveVerification(string(outcome))
		result, err := uc.bookingRepo.GetWithService(ctx, booking.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: reload booking: %v", ErrInternal, err)
		}
		return &Response{Outcome: outcome, Booking: result}, nil
	}

	outcome := OutcomeAlreadyCancelled
	if booking.Status == domain.StatusConfirmed {
		outcome = OutcomeAlreadyConfirmed
		if booking.PaymentID != nil && *booking.PaymentID != req.PaymentID {
			uc.logger.Warn("VerifyPayment: booking id=%s confirmed with payment=%s, got payment=%s",
				booking.ID, *booking.PaymentID, req.PaymentID)
		}
	}

	uc.metrics.ObserveVerification(string(outcome))
	uc.logger.Info("VerifyPayment: replay for order=%s, booking id=%s is %s", req.OrderID, booking.ID, booking.Status)

	result, err := uc.bookingRepo.GetWithService(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: reload booking: %v", ErrInternal, err)
	}
	return &Response{Outcome: outcome, Booking: result}, nil
}

// settleTerminal итог для бронирования, ставшего терминальным до арбитража
// Валидный платеж на отмененное бронирование без платежа ставится в очередь возвратов
func (uc *UseCase) settleTerminal(ctx context.Context, booking *domain.Booking, req *Request) (Outcome, error) {
	if booking.Status == domain.StatusConfirmed {
		return OutcomeAlreadyConfirmed, nil
	}

	if !booking.HasRecordedPayment() {
		if err := uc.bookingRepo.RecordPayment(ctx, booking.ID, req.PaymentID); err != nil {
			return "", fmt.Errorf("record payment: %w", err)
		}
		if err := uc.enqueueRefund(ctx, booking, req, domain.ReasonPaidAfterCancel); err != nil {
			return "", err
		}
		uc.logger.Warn("VerifyPayment: payment=%s arrived for cancelled booking id=%s, refund queued",
			req.PaymentID, booking.ID)
	}

	return OutcomeAlreadyCancelled, nil
}

func (uc *UseCase) enqueueRefund(ctx context.Context, booking *domain.Booking, req *Request, reason string) error {
	var amount int64
	if booking.AmountDueMinor != nil {
		amount = *booking.AmountDueMinor
	}

	_, err := uc.refundRepo.Enqueue(ctx, &domain.RefundRequest{
		BookingID:        booking.ID,
		GatewayOrderID:   req.OrderID,
		GatewayPaymentID: req.PaymentID,
		AmountMinor:      amount,
		Reason:           reason,
		Status:           domain.RefundPending,
	})
	if err != nil {
		return fmt.Errorf("enqueue refund: %w", err)
	}
	return nil
}

// findBooking ищет бронирование по заказу без блокировки
func (uc *UseCase) findBooking(ctx context.Context, req *Request) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByGatewayOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("VerifyPayment: no booking for order=%s", req.OrderID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("VerifyPayment: failed to get booking for order=%s: %v", req.OrderID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if req.BookingID != nil && *req.BookingID != booking.ID {
		uc.logger.Warn("VerifyPayment: order=%s belongs to booking id=%s, not %s", req.OrderID, booking.ID, *req.BookingID)
		return nil, ErrBookingNotFound
	}

	return booking, nil
}

// cancelOnInvalidSignature отменяет бронирование заказа, только если оно еще pending
func (uc *UseCase) cancelOnInvalidSignature(ctx context.Context, orderID string) {
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByGatewayOrderID(txCtx, orderID)
		if err != nil {
			return fmt.Errorf("lock booking: %w", err)
		}
		if !booking.IsPending() {
			return nil
		}
		if err := uc.bookingRepo.Cancel(txCtx, booking.ID, domain.ReasonInvalidSignature, nil); err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}
		uc.logger.Warn("VerifyPayment: booking id=%s cancelled after invalid signature", booking.ID)
		return nil
	})

	if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
		uc.logger.Error("VerifyPayment: failed to cancel booking for order=%s after invalid signature: %v", orderID, err)
	}
}

// project создает проекцию заказа для истории покупок
func (uc *UseCase) project(ctx context.Context, booking *domain.Booking, identity *domain.Identity) {
	order := &domain.OrderRecord{
		BookingID:     &booking.ID,
		CustomerEmail: booking.CustomerEmail,
		CustomerName:  booking.CustomerName,
		CustomerPhone: booking.CustomerPhone,
		Address:       booking.Address,
		Currency:      uc.currency,
	}

	if booking.AmountPaid != nil {
		order.Amount = *booking.AmountPaid
	}

	// Вошедший пользователь важнее контактного email бронирования
	if !identity.IsEmpty() {
		order.UserID = identity.UserID
		if identity.Email != nil {
			order.CustomerEmail = identity.Email
		}
	}

	serviceName := ""
	if booking.Service != nil {
		serviceName = booking.Service.Name
	}

	order.Payload = domain.NewServiceBookingPayload(domain.ServiceBookingPayload{
		BookingID:    booking.ID,
		ServiceID:    booking.ServiceID,
		ServiceName:  serviceName,
		Date:         types.FormatDate(booking.Date),
		StartMinutes: int(booking.StartMinutes),
		SlotLabel:    booking.StartMinutes.Label(booking.DurationMinutes),
	})

	created, err := uc.orderRepo.Create(ctx, order)
	if err != nil {
		uc.logger.Error("VerifyPayment: failed to create order projection for booking id=%s: %v", booking.ID, err)
		return
	}
	if created {
		uc.logger.Info("VerifyPayment: order projection %s created for booking id=%s", order.ID, booking.ID)
	}
}

// amountPaid сумма оплаты в основных единицах валюты
func amountPaid(booking *domain.Booking) float64 {
	if booking.AmountDueMinor == nil {
		return 0
	}
	return float64(*booking.AmountDueMinor) / 100
}
