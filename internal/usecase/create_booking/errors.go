package create_booking

import "errors"

var (
	// ErrBookingDisabled возвращается, когда прием бронирований выключен
	ErrBookingDisabled = errors.New("create_booking: booking is disabled")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
