package create_payment_order

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("create_payment_order: booking not found")

	// ErrInvalidState возвращается, если бронирование уже не ожидает оплаты
	ErrInvalidState = errors.New("create_payment_order: booking is not awaiting payment")

	// ErrInvalidAmount возвращается, если у услуги нет положительной цены
	ErrInvalidAmount = errors.New("create_payment_order: service has no payable amount")

	// ErrGatewayMisconfigured шлюз не настроен; повтор не поможет
	ErrGatewayMisconfigured = errors.New("create_payment_order: payment gateway misconfigured")

	// ErrGatewayUnavailable шлюз недоступен; запрос можно повторить
	ErrGatewayUnavailable = errors.New("create_payment_order: payment gateway unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_payment_order: internal error")
)
