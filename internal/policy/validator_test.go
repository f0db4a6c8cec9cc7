package policy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/pkg/clock"
	"github.com/m04kA/SMC-ServiceBooking/pkg/ptr"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type fakeCounter struct {
	confirmed int
	err       error
	calls     int
}

func (f *fakeCounter) CountConfirmed(context.Context, domain.SlotKey, *uuid.UUID) (int, error) {
	f.calls++
	return f.confirmed, f.err
}

// at локальное время сервиса 2026-10-14 hh:mm
func at(hour, minute int) *clock.Clock {
	return clock.Fixed(time.Date(2026, 10, 14, hour, minute, 0, 0, ist), ist)
}

func day(offset int) *time.Time {
	d := time.Date(2026, 10, 14+offset, 0, 0, 0, 0, time.UTC)
	return &d
}

func validRequest(date *time.Time, start types.Minutes) Request {
	return Request{
		ServiceID:     7,
		Date:          date,
		StartMinutes:  ptr.Ptr(start),
		CustomerName:  "Asha",
		CustomerPhone: "9876543210",
		AddressLine1:  "12 MG Road",
		City:          "Pune",
		PostalCode:    "411045",
	}
}

func requireReason(t *testing.T, err error, reason Reason) {
	t.Helper()

	rejection, ok := AsRejection(err)
	require.True(t, ok, "expected rejection, got %v", err)
	assert.Equal(t, reason, rejection.Reason)
}

func TestValidator_Accepts(t *testing.T) {
	counter := &fakeCounter{}
	v := NewValidator(at(8, 0), counter)

	err := v.Check(context.Background(), domain.DefaultBookingPolicy(), validRequest(day(1), 540))

	assert.NoError(t, err)
	assert.Equal(t, 1, counter.calls)
}

func TestValidator_MissingFields(t *testing.T) {
	v := NewValidator(at(8, 0), &fakeCounter{})

	tests := []struct {
		name  string
		edit  func(r *Request)
		field string
	}{
		{name: "date", edit: func(r *Request) { r.Date = nil }, field: "date"},
		{name: "start", edit: func(r *Request) { r.StartMinutes = nil }, field: "startMinutes"},
		{name: "name is blank", edit: func(r *Request) { r.CustomerName = "   " }, field: "customerName"},
		{name: "phone", edit: func(r *Request) { r.CustomerPhone = "" }, field: "customerPhone"},
		{name: "address", edit: func(r *Request) { r.AddressLine1 = "" }, field: "addressLine1"},
		{name: "city", edit: func(r *Request) { r.City = "" }, field: "city"},
		{name: "postal code", edit: func(r *Request) { r.PostalCode = "" }, field: "postalCode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(day(1), 540)
			tt.edit(&req)

			err := v.Check(context.Background(), domain.DefaultBookingPolicy(), req)

			assert.ErrorIs(t, err, ErrMissingField)
			rejection, ok := AsRejection(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, rejection.Field)
		})
	}
}

func TestValidator_MidnightStartIsNotMissing(t *testing.T) {
	p := domain.DefaultBookingPolicy()
	p.SlotStarts = []types.Minutes{0}

	err := NewValidator(at(8, 0), &fakeCounter{}).Check(context.Background(), p, validRequest(day(1), 0))

	assert.NoError(t, err)
}

func TestValidator_UnknownSlot(t *testing.T) {
	err := NewValidator(at(8, 0), &fakeCounter{}).
		Check(context.Background(), domain.DefaultBookingPolicy(), validRequest(day(1), 600))

	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestValidator_ServiceArea(t *testing.T) {
	p := domain.DefaultBookingPolicy()
	p.AllowedPostalPrefixes = []string{"411", "412"}
	v := NewValidator(at(8, 0), &fakeCounter{})

	req := validRequest(day(1), 540)
	req.PostalCode = "560001"
	err := v.Check(context.Background(), p, req)
	requireReason(t, err, ReasonOutOfServiceArea)
	assert.ErrorIs(t, err, ErrOutOfServiceArea)

	req.PostalCode = "411045"
	assert.NoError(t, v.Check(context.Background(), p, req))

	req.PostalCode = "41104"
	requireReason(t, v.Check(context.Background(), p, req), ReasonOutOfServiceArea)
}

func TestValidator_PastSlot(t *testing.T) {
	counter := &fakeCounter{}
	v := NewValidator(at(11, 0), counter)

	// Ровно текущее время и раньше - прошлое
	for _, start := range []types.Minutes{540, 660} {
		err := v.Check(context.Background(), domain.DefaultBookingPolicy(), validRequest(day(0), start))
		requireReason(t, err, ReasonPastSlot)
	}

	requireReason(t, v.Check(context.Background(), domain.DefaultBookingPolicy(), validRequest(day(-1), 1140)), ReasonPastSlot)
	assert.Zero(t, counter.calls, "capacity must not be consulted for past slots")

	assert.NoError(t, v.Check(context.Background(), domain.DefaultBookingPolicy(), validRequest(day(0), 780)))
}

func TestValidator_Blackout(t *testing.T) {
	p := domain.DefaultBookingPolicy()
	p.BlackoutDates = []time.Time{*day(2)}

	err := NewValidator(at(8, 0), &fakeCounter{}).Check(context.Background(), p, validRequest(day(2), 540))

	requireReason(t, err, ReasonBlackout)
}

func TestValidator_TooFarAhead(t *testing.T) {
	p := domain.DefaultBookingPolicy()
	p.MaxAdvanceDays = 7
	v := NewValidator(at(8, 0), &fakeCounter{})

	assert.NoError(t, v.Check(context.Background(), p, validRequest(day(7), 540)))
	requireReason(t, v.Check(context.Background(), p, validRequest(day(8), 540)), ReasonTooFarAhead)
}

func TestValidator_SameDayCutoff(t *testing.T) {
	p := domain.DefaultBookingPolicy()
	p.SameDayCutoffMinutes = ptr.Ptr(types.Minutes(720))

	// Запрос на 13:00 в 13:30 при границе 12:00
	err := NewValidator(at(13, 30), &fakeCounter{}).Check(context.Background(), p, validRequest(day(0), 780))
	requireReason(t, err, ReasonCutoffPassed)
	assert.ErrorIs(t, err, ErrCutoffPassed)

	// Граница не действует на другие дни
	assert.NoError(t, NewValidator(at(13, 30), &fakeCounter{}).Check(context.Background(), p, validRequest(day(1), 780)))

	// Слот до границы принимается, пока не наступил
	assert.NoError(t, NewValidator(at(8, 0), &fakeCounter{}).Check(context.Background(), p, validRequest(day(0), 660)))
}

func TestValidator_PastSlotWithCutoff(t *testing.T) {
	p := domain.DefaultBookingPolicy()
	p.SameDayCutoffMinutes = ptr.Ptr(types.Minutes(720))
	v := NewValidator(at(13, 30), &fakeCounter{})

	// Прошедший слот до границы остается past_slot
	requireReason(t, v.Check(context.Background(), p, validRequest(day(0), 660)), ReasonPastSlot)

	// Прошедший слот после границы отклоняется как cutoff
	requireReason(t, v.Check(context.Background(), p, validRequest(day(0), 780)), ReasonCutoffPassed)

	// Вчерашний день всегда past_slot
	requireReason(t, v.Check(context.Background(), p, validRequest(day(-1), 1140)), ReasonPastSlot)
}

func TestValidator_SlotFull(t *testing.T) {
	p := domain.DefaultBookingPolicy()
	p.CapacityPerSlot = 2

	err := NewValidator(at(8, 0), &fakeCounter{confirmed: 2}).Check(context.Background(), p, validRequest(day(1), 540))
	requireReason(t, err, ReasonSlotFull)

	assert.NoError(t, NewValidator(at(8, 0), &fakeCounter{confirmed: 1}).Check(context.Background(), p, validRequest(day(1), 540)))
}

func TestValidator_CounterFailureIsNotRejection(t *testing.T) {
	err := NewValidator(at(8, 0), &fakeCounter{err: errors.New("db down")}).
		Check(context.Background(), domain.DefaultBookingPolicy(), validRequest(day(1), 540))

	assert.ErrorIs(t, err, ErrInternal)
	_, ok := AsRejection(err)
	assert.False(t, ok)
}
