// Package clock is the single source of "now" for booking rules.
// Every date handled by the booking flow is a calendar day in the service's
// fixed local timezone, represented as types.DateOnly.
package clock

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

// Clock service-local clock
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New создает часы в указанной таймзоне, опирающиеся на системное время
func New(loc *time.Location) *Clock {
	return &Clock{loc: loc, now: time.Now}
}

// NewFromName загружает таймзону по имени (например, "Asia/Kolkata")
func NewFromName(name string) (*Clock, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("clock: load location %q: %w", name, err)
	}
	return New(loc), nil
}

// Fixed создает часы, всегда возвращающие один и тот же момент (для тестов)
func Fixed(at time.Time, loc *time.Location) *Clock {
	return &Clock{loc: loc, now: func() time.Time { return at }}
}

// Location таймзона сервиса
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now текущий момент в таймзоне сервиса
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today текущий календарный день в таймзоне сервиса
func (c *Clock) Today() time.Time {
	return types.DateOnly(c.Now())
}

// NowMinutes текущая минута суток в таймзоне сервиса
func (c *Clock) NowMinutes() types.Minutes {
	now := c.Now()
	return types.Minutes(now.Hour()*60 + now.Minute())
}

// StartOf абсолютный момент начала слота (date, minutes) в таймзоне сервиса
func (c *Clock) StartOf(date time.Time, minutes types.Minutes) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc).Add(time.Duration(minutes) * time.Minute)
}

// IsPast true, если начало слота не строго позже текущего момента
func (c *Clock) IsPast(date time.Time, minutes types.Minutes) bool {
	return !c.StartOf(date, minutes).After(c.Now())
}

// IsToday проверяет, что дата совпадает с сегодняшним днем сервиса
func (c *Clock) IsToday(date time.Time) bool {
	return types.SameDay(date, c.Today())
}

// IsBeforeToday проверяет, что дата строго раньше сегодняшнего дня
func (c *Clock) IsBeforeToday(date time.Time) bool {
	return types.DateOnly(date).Before(c.Today())
}

// DaysUntil разница в календарных днях между сегодня и date (может быть отрицательной)
func (c *Clock) DaysUntil(date time.Time) int {
	diff := types.DateOnly(date).Sub(c.Today())
	return int(diff.Hours() / 24)
}

// MinutesUntil сколько минут осталось до начала слота
func (c *Clock) MinutesUntil(date time.Time, minutes types.Minutes) float64 {
	return c.StartOf(date, minutes).Sub(c.Now()).Minutes()
}
