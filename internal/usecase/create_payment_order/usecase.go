package create_payment_order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ServiceBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ServiceBooking/internal/integrations/paymentgateway"
)

// UseCase use case для открытия платежного заказа по бронированию
type UseCase struct {
	bookingRepo BookingRepository
	gateway     Gateway
	currency    string
	keyID       string
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
// keyID публичный ключ шлюза, отдается клиенту для checkout-виджета
func NewUseCase(bookingRepo BookingRepository, gateway Gateway, currency, keyID string, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		gateway:     gateway,
		currency:    currency,
		keyID:       keyID,
		logger:      logger,
	}
}

// Execute выполняет use case открытия заказа
// Повторный вызов для того же pending бронирования возвращает уже открытый заказ
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Получаем бронирование вместе с услугой
	booking, err := uc.bookingRepo.GetWithService(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CreatePaymentOrder: booking id=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CreatePaymentOrder: failed to get booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 2. Оплатить можно только pending бронирование
	if !booking.IsPending() {
		uc.logger.Warn("CreatePaymentOrder: booking id=%s is %s", booking.ID, booking.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrInvalidState, booking.Status)
	}

	// 3. Заказ уже открыт - возвращаем его
	if booking.GatewayOrderID != nil && booking.AmountDueMinor != nil {
		uc.logger.Info("CreatePaymentOrder: reusing order %s for booking id=%s", *booking.GatewayOrderID, booking.ID)
		return &Response{Order: uc.existingOrder(booking), BookingID: booking.ID}, nil
	}

	// 4. Сумма в минимальных единицах валюты
	amount := toMinorUnits(booking.Service.PriceMin)
	if amount <= 0 {
		uc.logger.Error("CreatePaymentOrder: service id=%d has no price", booking.ServiceID)
		return nil, ErrInvalidAmount
	}

	// 5. Открываем заказ в шлюзе
	order, err := uc.gateway.CreateOrder(ctx, paymentgateway.CreateOrderRequest{
		AmountMinor: amount,
		Currency:    uc.currency,
		Receipt:     booking.ID.String(),
		Notes: map[string]string{
			"bookingId": booking.ID.String(),
			"service":   booking.Service.Name,
		},
	})
	if err != nil {
		if errors.Is(err, paymentgateway.ErrMisconfigured) {
			uc.logger.Error("CreatePaymentOrder: gateway misconfigured: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrGatewayMisconfigured, err)
		}
		uc.logger.Error("CreatePaymentOrder: gateway failed for booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	// 6. Сохраняем ID заказа на бронировании
	if err := uc.bookingRepo.SetGatewayOrder(ctx, booking.ID, order.ID, amount); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			uc.logger.Warn("CreatePaymentOrder: booking id=%s left pending while opening order %s", booking.ID, order.ID)
			return nil, fmt.Errorf("%w: booking was cancelled", ErrInvalidState)
		}
		uc.logger.Error("CreatePaymentOrder: failed to store order %s for booking id=%s: %v", order.ID, booking.ID, err)
		return nil, fmt.Errorf("%w: failed to store order: %v", ErrInternal, err)
	}

	if order.KeyID == "" {
		order.KeyID = uc.keyID
	}

	uc.logger.Info("CreatePaymentOrder: order %s opened for booking id=%s amount=%d", order.ID, booking.ID, amount)

	return &Response{Order: order, BookingID: booking.ID}, nil
}

func (uc *UseCase) existingOrder(booking *domain.Booking) *paymentgateway.Order {
	return &paymentgateway.Order{
		ID:       *booking.GatewayOrderID,
		Amount:   *booking.AmountDueMinor,
		Currency: uc.currency,
		Receipt:  booking.ID.String(),
		Status:   "created",
		KeyID:    uc.keyID,
		Bypass:   strings.HasPrefix(*booking.GatewayOrderID, paymentgateway.BypassOrderPrefix),
	}
}

// toMinorUnits переводит цену в минимальные единицы (рупии -> пайсы)
func toMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
