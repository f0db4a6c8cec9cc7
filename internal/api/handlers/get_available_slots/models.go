package get_available_slots

import (
	getAvailableSlots "github.com/m04kA/SMC-ServiceBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date    string          `json:"date"`
	Service ServiceSummary  `json:"service"`
	Slots   []AvailableSlot `json:"slots"`
}

// ServiceSummary краткие данные услуги
type ServiceSummary struct {
	ID       int64   `json:"id"`
	Slug     string  `json:"slug"`
	Name     string  `json:"name"`
	PriceMin float64 `json:"priceMin"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartMinutes    int    `json:"startMinutes"`
	Label           string `json:"label"`
	DurationMinutes int    `json:"durationMinutes"`
	Booked          bool   `json:"booked"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartMinutes:    int(slot.StartMinutes),
			Label:           slot.Label,
			DurationMinutes: slot.DurationMinutes,
			Booked:          slot.Booked,
		}
	}

	response := &AvailableSlotsResponse{
		Date:  types.FormatDate(resp.Date),
		Slots: slots,
	}
	if resp.Service != nil {
		response.Service = ServiceSummary{
			ID:       resp.Service.ID,
			Slug:     resp.Service.Slug,
			Name:     resp.Service.Name,
			PriceMin: resp.Service.PriceMin,
		}
	}

	return response
}
