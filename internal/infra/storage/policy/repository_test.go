package policy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

var policyColumns = []string{
	"id", "service_id", "slot_starts", "slot_duration_minutes", "capacity_per_slot",
	"max_advance_days", "same_day_cutoff_minutes", "allowed_postal_prefixes",
	"blackout_dates", "created_at", "updated_at",
}

func TestRepository_GetPolicyWithHierarchy(t *testing.T) {
	now := time.Now()

	t.Run("service policy wins", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM service_booking_policies WHERE service_id = \$1`).
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows(policyColumns).AddRow(
				1, 3, "{540,660}", 120, 2, 14, 720, "{411,412}", "{2026-10-20}", now, now,
			))

		p, err := NewRepository(db).GetPolicyWithHierarchy(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, []types.Minutes{540, 660}, p.SlotStarts)
		assert.Equal(t, 2, p.CapacityPerSlot)
		require.NotNil(t, p.SameDayCutoffMinutes)
		assert.Equal(t, types.Minutes(720), *p.SameDayCutoffMinutes)
		assert.Equal(t, []string{"411", "412"}, p.AllowedPostalPrefixes)
		assert.True(t, p.IsBlackout(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("falls back to global", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE service_id = \$1`).
			WillReturnRows(sqlmock.NewRows(policyColumns))
		mock.ExpectQuery(`WHERE service_id IS NULL`).
			WillReturnRows(sqlmock.NewRows(policyColumns).AddRow(
				2, nil, "{600}", 60, 1, 30, nil, "{}", "{}", now, now,
			))

		p, err := NewRepository(db).GetPolicyWithHierarchy(context.Background(), 3)

		require.NoError(t, err)
		assert.True(t, p.IsGlobal())
		assert.Nil(t, p.SameDayCutoffMinutes)
		assert.Equal(t, []types.Minutes{600}, p.SlotStarts)
		assert.True(t, p.ServesPostalCode("560001"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("defaults when nothing configured", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE service_id = \$1`).WillReturnRows(sqlmock.NewRows(policyColumns))
		mock.ExpectQuery(`WHERE service_id IS NULL`).WillReturnRows(sqlmock.NewRows(policyColumns))

		p, err := NewRepository(db).GetPolicyWithHierarchy(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultBookingPolicy(), p)
	})

	t.Run("database error is not masked", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE service_id = \$1`).WillReturnError(errors.New("connection reset"))

		_, err = NewRepository(db).GetPolicyWithHierarchy(context.Background(), 3)

		assert.ErrorIs(t, err, ErrExecQuery)
		assert.ErrorIs(t, err, ErrScanRow)
	})
}
