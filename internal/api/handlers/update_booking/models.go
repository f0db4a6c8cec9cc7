package update_booking

import (
	"errors"
	"strings"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

var (
	errUnsupportedStatus = errors.New("only status \"cancelled\" can be set")
	errMixedUpdate       = errors.New("status cannot be combined with other fields")
)

// UpdateBookingRequest HTTP request model; отсутствующее поле не меняется
type UpdateBookingRequest struct {
	Date          *string `json:"date,omitempty"`
	StartMinutes  *int    `json:"startMinutes,omitempty"`
	CustomerName  *string `json:"customerName,omitempty"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	Status        *string `json:"status,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	Booking *models.BookingResponse `json:"booking"`
}

// IsCancel true, если запрос - отмена через status
func (r *UpdateBookingRequest) IsCancel() (bool, error) {
	if r.Status == nil {
		return false, nil
	}
	if !strings.EqualFold(strings.TrimSpace(*r.Status), string(domain.StatusCancelled)) {
		return false, errUnsupportedStatus
	}
	if r.Date != nil || r.StartMinutes != nil || r.CustomerName != nil ||
		r.CustomerPhone != nil || r.CustomerEmail != nil || r.Notes != nil {
		return false, errMixedUpdate
	}
	return true, nil
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateBookingRequest) ToServiceRequest() (*models.RescheduleRequest, error) {
	req := &models.RescheduleRequest{
		Patch: domain.BookingPatch{
			CustomerName:  r.CustomerName,
			CustomerPhone: r.CustomerPhone,
			CustomerEmail: r.CustomerEmail,
			Notes:         r.Notes,
		},
	}

	if r.Date != nil {
		date, err := types.ParseDate(*r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if r.StartMinutes != nil {
		start := types.Minutes(*r.StartMinutes)
		req.StartMinutes = &start
	}

	return req, nil
}
