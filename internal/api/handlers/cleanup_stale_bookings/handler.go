package cleanup_stale_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ServiceBooking/internal/api/handlers"
	cleanupStaleBookings "github.com/m04kA/SMC-ServiceBooking/internal/usecase/cleanup_stale_bookings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidMinutes     = "minutes должно быть от 1 до 1440"
)

type Handler struct {
	useCase CleanupUseCase
	logger  Logger
}

func NewHandler(useCase CleanupUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /payments/cleanup
// Body: {"minutes": N} (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req cleanupStaleBookings.Request
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/cleanup - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, cleanupStaleBookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidMinutes)

		default:
			h.logger.Error("POST /payments/cleanup - Failed to cleanup: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
