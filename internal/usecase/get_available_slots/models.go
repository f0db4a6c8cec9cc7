package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	Slug string // slug услуги
	Date string // YYYY-MM-DD или DD-MM-YYYY; пустая или некорректная дата - сегодня
}

// Response модель ответа со списком слотов дня
type Response struct {
	Date    time.Time
	Service *domain.Service
	Slots   []domain.AvailableSlot
}
