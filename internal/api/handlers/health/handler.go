package health

import (
	"net/http"

	"github.com/m04kA/SMC-ServiceBooking/internal/api/handlers"
)

// Handle GET /health
func Handle(w http.ResponseWriter, _ *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
