package types

import (
	"errors"
	"strings"
	"time"
)

// DateFormat формат даты в API и в БД
const DateFormat = "2006-01-02"

// altDateFormat формат DD-MM-YYYY, который принимается при разборе
const altDateFormat = "02-01-2006"

var ErrInvalidDate = errors.New("invalid date format")

// DateOnly приводит момент времени к календарному дню (00:00 UTC того же числа)
// Все даты бронирований хранятся и сравниваются в таком виде
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate разбирает дату в формате YYYY-MM-DD или DD-MM-YYYY
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}

	for _, layout := range []string{DateFormat, altDateFormat} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOnly(t), nil
		}
	}

	return time.Time{}, ErrInvalidDate
}

// FormatDate форматирует календарный день как YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// SameDay проверяет, что две даты относятся к одному календарному дню
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
