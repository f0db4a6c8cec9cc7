package cleanup_stale_bookings

import "github.com/google/uuid"

// Request модель запроса на очистку
type Request struct {
	// OlderThanMinutes окно устаревания; 0 означает значение из конфигурации
	OlderThanMinutes int `json:"minutes"`
}

// Response модель ответа
type Response struct {
	Cancelled []uuid.UUID `json:"cancelled"`
	Count     int         `json:"count"`
}
