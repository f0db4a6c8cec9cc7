package policy

import (
	"time"

	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

// Request кандидат в бронирование
// Теги validate описывают обязательные поля; имена полей в ошибках берутся из тега name
type Request struct {
	ServiceID     int64          `name:"serviceId" validate:"required"`
	Date          *time.Time     `name:"date" validate:"required"`
	StartMinutes  *types.Minutes `name:"startMinutes" validate:"required"`
	CustomerName  string         `name:"customerName" validate:"required"`
	CustomerPhone string         `name:"customerPhone" validate:"required"`
	AddressLine1  string         `name:"addressLine1" validate:"required"`
	City          string         `name:"city" validate:"required"`
	PostalCode    string         `name:"postalCode" validate:"required"`
}
