package policy

import (
	"errors"
	"fmt"
)

// Reason машиночитаемая причина отказа в бронировании
type Reason string

const (
	ReasonMissingField     Reason = "missing_field"
	ReasonInvalidSlot      Reason = "invalid_slot"
	ReasonOutOfServiceArea Reason = "out_of_service_area"
	ReasonPastSlot         Reason = "past_slot"
	ReasonBlackout         Reason = "blackout_date"
	ReasonTooFarAhead      Reason = "too_far_ahead"
	ReasonCutoffPassed     Reason = "same_day_cutoff_passed"
	ReasonSlotFull         Reason = "slot_full"
)

var (
	ErrMissingField     = errors.New("policy: required field is missing")
	ErrInvalidSlot      = errors.New("policy: start time is not one of the service slots")
	ErrOutOfServiceArea = errors.New("policy: postal code is outside the service area")
	ErrPastSlot         = errors.New("policy: slot is in the past")
	ErrBlackout         = errors.New("policy: bookings are closed on this date")
	ErrTooFarAhead      = errors.New("policy: date is too far ahead")
	ErrCutoffPassed     = errors.New("policy: same-day bookings are closed for this slot")
	ErrSlotFull         = errors.New("policy: slot is fully booked")

	// ErrInternal ошибка инфраструктуры при проверке (не отказ по правилам)
	ErrInternal = errors.New("policy: internal error")
)

var sentinels = map[Reason]error{
	ReasonMissingField:     ErrMissingField,
	ReasonInvalidSlot:      ErrInvalidSlot,
	ReasonOutOfServiceArea: ErrOutOfServiceArea,
	ReasonPastSlot:         ErrPastSlot,
	ReasonBlackout:         ErrBlackout,
	ReasonTooFarAhead:      ErrTooFarAhead,
	ReasonCutoffPassed:     ErrCutoffPassed,
	ReasonSlotFull:         ErrSlotFull,
}

// Rejection отказ по бизнес-правилу
// errors.Is(rejection, ErrPastSlot) и т.п. работает через Unwrap
type Rejection struct {
	Reason Reason
	Field  string // заполняется для missing_field
	Detail string
}

func (r *Rejection) Error() string {
	msg := r.Unwrap().Error()
	if r.Field != "" {
		msg = fmt.Sprintf("%s: %s", msg, r.Field)
	}
	if r.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, r.Detail)
	}
	return msg
}

func (r *Rejection) Unwrap() error {
	if err, ok := sentinels[r.Reason]; ok {
		return err
	}
	return ErrInternal
}

func reject(reason Reason, detail string) *Rejection {
	return &Rejection{Reason: reason, Detail: detail}
}

// AsRejection достает Rejection из цепочки ошибок
func AsRejection(err error) (*Rejection, bool) {
	var rejection *Rejection
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}
