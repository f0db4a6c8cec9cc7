package bookings

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/internal/service/bookings/models"
)

var validate = validator.New()

// validatePatch проверяет и нормализует поля клиента
func validatePatch(req *models.RescheduleRequest) error {
	p := &req.Patch

	if p.CustomerName != nil {
		name := strings.TrimSpace(*p.CustomerName)
		if name == "" {
			return fmt.Errorf("%w: customerName must not be empty", ErrInvalidInput)
		}
		p.CustomerName = &name
	}

	if p.CustomerPhone != nil {
		phone := strings.TrimSpace(*p.CustomerPhone)
		if phone == "" {
			return fmt.Errorf("%w: customerPhone must not be empty", ErrInvalidInput)
		}
		p.CustomerPhone = &phone
	}

	if p.CustomerEmail != nil {
		email := strings.TrimSpace(*p.CustomerEmail)
		if err := validate.Var(email, "required,email"); err != nil {
			return fmt.Errorf("%w: customerEmail is not a valid email", ErrInvalidInput)
		}
		p.CustomerEmail = &email
	}

	if p.Notes != nil && utf8.RuneCountInString(*p.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.StartMinutes != nil {
		if err := req.StartMinutes.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	return nil
}
