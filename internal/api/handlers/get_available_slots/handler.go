package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ServiceBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-ServiceBooking/internal/usecase/get_available_slots"
)

const (
	msgServiceNotFound = "услуга не найдена"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /services/{slug}/slots
// Query params: date (optional, YYYY-MM-DD; по умолчанию сегодня)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		Slug: slug,
		Date: r.URL.Query().Get("date"),
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /services/{slug}/slots - Service not found: slug=%s", slug)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("GET /services/{slug}/slots - Failed to get slots: slug=%s, error=%v", slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{slug}/slots - Slots retrieved successfully: slug=%s, slots_count=%d",
		slug, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
