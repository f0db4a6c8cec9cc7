package verify_payment

import "errors"

var (
	// ErrInvalidInput возвращается, если не переданы orderId, paymentId или signature
	ErrInvalidInput = errors.New("verify_payment: invalid input data")

	// ErrInvalidSignature подпись платежа не совпала
	ErrInvalidSignature = errors.New("verify_payment: invalid payment signature")

	// ErrBookingNotFound бронирование для заказа не найдено
	ErrBookingNotFound = errors.New("verify_payment: booking not found for order")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("verify_payment: internal error")
)
