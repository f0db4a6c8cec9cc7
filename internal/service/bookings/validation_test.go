package bookings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/internal/service/bookings/models"
)

func TestValidatePatch_NotesLengthCountsCharacters(t *testing.T) {
	notes := strings.Repeat("ж", domain.MaxNotesLength)
	assert.NoError(t, validatePatch(&models.RescheduleRequest{Patch: domain.BookingPatch{Notes: &notes}}))

	tooLong := notes + "ж"
	assert.ErrorIs(t, validatePatch(&models.RescheduleRequest{Patch: domain.BookingPatch{Notes: &tooLong}}), ErrInvalidInput)
}
