package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

// buildSlots размечает фиксированное расписание дня
// Слот занят, если достигнута вместимость подтвержденными бронированиями
// или его начало не строго позже текущего момента
// Результат зависит только от аргументов, порядок слотов совпадает с расписанием
func buildSlots(
	policy *domain.BookingPolicy,
	date time.Time,
	confirmed map[types.Minutes]int,
	clock Clock,
) []domain.AvailableSlot {
	capacity := policy.Capacity()
	slots := make([]domain.AvailableSlot, 0, len(policy.SlotStarts))

	for _, start := range policy.SlotStarts {
		slot := domain.AvailableSlot{
			StartMinutes:    start,
			DurationMinutes: policy.SlotDurationMinutes,
			Label:           start.Label(policy.SlotDurationMinutes),
			ConfirmedCount:  confirmed[start],
			Capacity:        capacity,
		}
		slot.Booked = slot.IsFull() || clock.IsPast(date, start)

		slots = append(slots, slot)
	}

	return slots
}

// resolveDate разбирает дату запроса, при ошибке возвращает сегодняшний день
func resolveDate(raw string, clock Clock) (time.Time, bool) {
	if raw == "" {
		return clock.Today(), false
	}

	date, err := types.ParseDate(raw)
	if err != nil {
		return clock.Today(), true
	}

	return date, false
}
