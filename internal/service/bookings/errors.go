package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrStateConflict бронирование терминальное или до начала слота меньше 60 минут
	ErrStateConflict = errors.New("bookings: booking cannot be changed")

	// ErrSlotConflict новый слот уже занят подтвержденным бронированием
	ErrSlotConflict = errors.New("bookings: slot already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrPastSlot новый слот уже начался
	ErrPastSlot = errors.New("bookings: slot is in the past")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
