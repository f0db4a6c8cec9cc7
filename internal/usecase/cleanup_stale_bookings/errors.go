package cleanup_stale_bookings

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном окне устаревания
	ErrInvalidInput = errors.New("cleanup_stale_bookings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cleanup_stale_bookings: internal error")
)
