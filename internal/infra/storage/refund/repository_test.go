package refund

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
)

func TestRepository_Enqueue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	bookingID := uuid.New()
	request := &domain.RefundRequest{
		BookingID:        bookingID,
		GatewayOrderID:   "order_1",
		GatewayPaymentID: "pay_1",
		AmountMinor:      49900,
		Reason:           domain.ReasonSlotTaken,
	}

	mock.ExpectExec(`INSERT INTO refund_requests .* ON CONFLICT \(gateway_payment_id\) DO NOTHING`).
		WithArgs(sqlmock.AnyArg(), bookingID.String(), "order_1", "pay_1", 49900, domain.ReasonSlotTaken, "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO refund_requests`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRepository(db)

	created, err := repo.Enqueue(context.Background(), request)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.RefundPending, request.Status)

	created, err = repo.Enqueue(context.Background(), request)
	require.NoError(t, err)
	assert.False(t, created)

	assert.NoError(t, mock.ExpectationsWereMet())
}
