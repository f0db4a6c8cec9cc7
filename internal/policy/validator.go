package policy

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

var postalCodePattern = regexp.MustCompile(`^\d{6}$`)

// Validator проверяет запрос на бронирование по правилам политики
// Проверки выполняются по порядку, первая неудачная прерывает проверку
type Validator struct {
	clock    Clock
	counter  ConfirmedCounter
	validate *validator.Validate
}

// NewValidator создает валидатор политики бронирования
func NewValidator(clock Clock, counter ConfirmedCounter) *Validator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("name"); name != "" {
			return name
		}
		return field.Name
	})

	return &Validator{
		clock:    clock,
		counter:  counter,
		validate: validate,
	}
}

// Check возвращает nil, *Rejection или ошибку инфраструктуры (ErrInternal)
// Проверка не имеет побочных эффектов
func (v *Validator) Check(ctx context.Context, p *domain.BookingPolicy, req Request) error {
	// 1. Обязательные поля
	if rejection := v.checkRequired(req); rejection != nil {
		return rejection
	}

	date := types.DateOnly(*req.Date)
	start := *req.StartMinutes

	if err := start.Validate(); err != nil || !p.HasSlot(start) {
		return reject(ReasonInvalidSlot, fmt.Sprintf("startMinutes=%d", int(start)))
	}

	// 2. Зона обслуживания
	postal := strings.TrimSpace(req.PostalCode)
	if !postalCodePattern.MatchString(postal) {
		return reject(ReasonOutOfServiceArea, "postal code must be 6 digits")
	}
	if !p.ServesPostalCode(postal) {
		return reject(ReasonOutOfServiceArea, "postal code "+postal)
	}

	// 3. Слот в прошлом
	// Для сегодняшней даты граница приема заявок проверяется раньше: слот после
	// границы отклоняется как cutoff, даже если его время уже наступило
	isToday := v.clock.IsToday(date)
	if v.clock.IsBeforeToday(date) {
		return reject(ReasonPastSlot, "")
	}
	if isToday {
		if rejection := checkCutoff(p, start); rejection != nil {
			return rejection
		}
		if start <= v.clock.NowMinutes() {
			return reject(ReasonPastSlot, "")
		}
	}

	// 4. Выходные даты
	if p.IsBlackout(date) {
		return reject(ReasonBlackout, types.FormatDate(date))
	}

	// 5. Горизонт бронирования
	if days := v.clock.DaysUntil(date); days > p.MaxAdvanceDays {
		return reject(ReasonTooFarAhead, fmt.Sprintf("max %d days ahead", p.MaxAdvanceDays))
	}

	// 6. Предварительная проверка вместимости
	confirmed, err := v.counter.CountConfirmed(ctx, domain.SlotKey{
		ServiceID:    req.ServiceID,
		Date:         date,
		StartMinutes: start,
	}, nil)
	if err != nil {
		return fmt.Errorf("%w: Check - count confirmed: %v", ErrInternal, err)
	}
	if confirmed >= p.Capacity() {
		return reject(ReasonSlotFull, "")
	}

	return nil
}

// checkCutoff граница приема заявок на сегодняшний день
func checkCutoff(p *domain.BookingPolicy, start types.Minutes) *Rejection {
	if p.SameDayCutoffMinutes != nil && start > *p.SameDayCutoffMinutes {
		return reject(ReasonCutoffPassed, "same-day bookings accepted until "+p.SameDayCutoffMinutes.String())
	}
	return nil
}

func (v *Validator) checkRequired(req Request) *Rejection {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.AddressLine1 = strings.TrimSpace(req.AddressLine1)
	req.City = strings.TrimSpace(req.City)
	req.PostalCode = strings.TrimSpace(req.PostalCode)

	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		return &Rejection{Reason: ReasonMissingField, Field: fieldErrors[0].Field()}
	}

	return &Rejection{Reason: ReasonMissingField, Detail: err.Error()}
}
