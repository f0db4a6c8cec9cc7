package create_booking

import (
	"fmt"
	"strings"
	"unicode/utf8"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

var validate = validator.New()

// parseDate пустая дата остается nil, чтобы политика отклонила её как обязательное поле
func parseDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	date, err := types.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD or DD-MM-YYYY", ErrInvalidInput)
	}
	return &date, nil
}

// validateOptional проверяет необязательные поля
func validateOptional(req *Request) error {
	if req.CustomerEmail != nil && *req.CustomerEmail != "" {
		if err := validate.Var(*req.CustomerEmail, "email"); err != nil {
			return fmt.Errorf("%w: customerEmail is not a valid email", ErrInvalidInput)
		}
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// trimOptional пустые строки в необязательных полях считаются отсутствующими
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
