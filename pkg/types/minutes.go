package types

import (
	"errors"
	"fmt"
)

// MinutesPerDay количество минут в сутках
const MinutesPerDay = 24 * 60

var ErrInvalidMinutes = errors.New("invalid minutes of day")

// Minutes время начала слота как смещение в минутах от полуночи (540 = 09:00)
type Minutes int

// Validate проверяет, что значение лежит в пределах суток
func (m Minutes) Validate() error {
	if m < 0 || m >= MinutesPerDay {
		return fmt.Errorf("%w: %d", ErrInvalidMinutes, int(m))
	}
	return nil
}

// String возвращает время в формате HH:MM (24 часа)
func (m Minutes) String() string {
	v := normalize(int(m))
	return fmt.Sprintf("%02d:%02d", v/60, v%60)
}

// Clock12 возвращает время в 12-часовом формате, например "9:00 AM"
func (m Minutes) Clock12() string {
	v := normalize(int(m))
	hour, minute := v/60, v%60

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}

	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}

	return fmt.Sprintf("%d:%02d %s", hour12, minute, suffix)
}

// Label возвращает человекочитаемый диапазон слота "9:00 AM - 11:00 AM"
func (m Minutes) Label(durationMinutes int) string {
	end := m + Minutes(durationMinutes)
	return m.Clock12() + " - " + end.Clock12()
}

func normalize(v int) int {
	v %= MinutesPerDay
	if v < 0 {
		v += MinutesPerDay
	}
	return v
}
