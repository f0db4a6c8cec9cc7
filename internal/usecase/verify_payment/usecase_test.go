package verify_payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/pkg/ptr"
)

var slotDate = time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

func pendingBooking(orderID string) *domain.Booking {
	return &domain.Booking{
		ID:              uuid.New(),
		ServiceID:       7,
		Date:            slotDate,
		StartMinutes:    540,
		DurationMinutes: 120,
		Status:          domain.StatusPending,
		CustomerName:    "Asha",
		CustomerPhone:   "9876543210",
		CustomerEmail:   ptr.Ptr("asha@example.com"),
		GatewayOrderID:  ptr.Ptr(orderID),
		AmountDueMinor:  ptr.Ptr(int64(49999)),
	}
}

func newUseCase(store *fakeStore, signatureOK bool, metrics *fakeMetrics) *UseCase {
	return NewUseCase(store, store, store, store, fakeVerifier{ok: signatureOK}, store, metrics, "INR", nopLogger{})
}

func request(orderID, paymentID string) *Request {
	return &Request{OrderID: orderID, PaymentID: paymentID, Signature: "sig"}
}

func TestUseCase_Execute_ConfirmsPendingBooking(t *testing.T) {
	booking := pendingBooking("order_1")
	store := newFakeStore(1, booking)
	metrics := &fakeMetrics{}

	resp, err := newUseCase(store, true, metrics).Execute(context.Background(), request("order_1", "pay_1"))

	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, resp.Outcome)
	assert.True(t, resp.Success())
	assert.Equal(t, domain.StatusConfirmed, resp.Booking.Status)
	assert.Equal(t, "pay_1", *resp.Booking.PaymentID)
	assert.InDelta(t, 499.99, *resp.Booking.AmountPaid, 0.001)
	assert.Equal(t, []string{"confirmed"}, metrics.outcomes)

	require.Len(t, store.orders, 1)
	order := store.orders[0]
	assert.Equal(t, booking.ID, *order.BookingID)
	assert.Equal(t, "asha@example.com", *order.CustomerEmail)
	require.NotNil(t, order.Payload.ServiceBooking)
	assert.Equal(t, "2025-06-20", order.Payload.ServiceBooking.Date)
	assert.Equal(t, "Lawn Mowing", order.Payload.ServiceBooking.ServiceName)
}

func TestUseCase_Execute_SecondPaidBookingLosesSlot(t *testing.T) {
	winner := pendingBooking("order_a")
	loser := pendingBooking("order_b")
	store := newFakeStore(1, winner, loser)
	uc := newUseCase(store, true, &fakeMetrics{})

	first, err := uc.Execute(context.Background(), request("order_a", "pay_a"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, first.Outcome)

	second, err := uc.Execute(context.Background(), request("order_b", "pay_b"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeSlotTaken, second.Outcome)
	assert.False(t, second.Success())
	assert.Equal(t, domain.StatusCancelled, second.Booking.Status)
	assert.Equal(t, domain.ReasonSlotTaken, *second.Booking.CancellationReason)
	assert.Equal(t, "pay_b", *second.Booking.PaymentID)

	require.Len(t, store.refunds, 1)
	assert.Equal(t, loser.ID, store.refunds[0].BookingID)
	assert.Equal(t, "pay_b", store.refunds[0].GatewayPaymentID)
	assert.Equal(t, int64(49999), store.refunds[0].AmountMinor)
	assert.Equal(t, domain.ReasonSlotTaken, store.refunds[0].Reason)
}

func TestUseCase_Execute_ConcurrentVerificationsConfirmExactlyOne(t *testing.T) {
	const n = 8

	bookings := make([]*domain.Booking, n)
	for i := range bookings {
		bookings[i] = pendingBooking(fmt.Sprintf("order_%d", i))
	}
	store := newFakeStore(1, bookings...)
	uc := newUseCase(store, true, &fakeMetrics{})

	outcomes := make([]Outcome, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := uc.Execute(context.Background(), request(fmt.Sprintf("order_%d", i), fmt.Sprintf("pay_%d", i)))
			if assert.NoError(t, err) {
				outcomes[i] = resp.Outcome
			}
		}(i)
	}
	wg.Wait()

	confirmed := 0
	for _, o := range outcomes {
		if o == OutcomeConfirmed {
			confirmed++
		} else {
			assert.Equal(t, OutcomeSlotTaken, o)
		}
	}
	assert.Equal(t, 1, confirmed)
	assert.Len(t, store.refunds, n-1)
}

func TestUseCase_Execute_CapacityTwo(t *testing.T) {
	a, b, c := pendingBooking("order_a"), pendingBooking("order_b"), pendingBooking("order_c")
	store := newFakeStore(2, a, b, c)
	uc := newUseCase(store, true, &fakeMetrics{})

	for _, id := range []string{"a", "b"} {
		resp, err := uc.Execute(context.Background(), request("order_"+id, "pay_"+id))
		require.NoError(t, err)
		assert.Equal(t, OutcomeConfirmed, resp.Outcome)
	}

	resp, err := uc.Execute(context.Background(), request("order_c", "pay_c"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeSlotTaken, resp.Outcome)
}

func TestUseCase_Execute_ReplayIsIdempotent(t *testing.T) {
	booking := pendingBooking("order_1")
	store := newFakeStore(1, booking)
	metrics := &fakeMetrics{}
	uc := newUseCase(store, true, metrics)

	_, err := uc.Execute(context.Background(), request("order_1", "pay_1"))
	require.NoError(t, err)

	resp, err := uc.Execute(context.Background(), request("order_1", "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyConfirmed, resp.Outcome)
	assert.True(t, resp.Success())
	assert.Len(t, store.orders, 1)
	assert.Equal(t, []string{"confirmed", "already_confirmed"}, metrics.outcomes)
}

func TestUseCase_Execute_ReplayForLosingBooking(t *testing.T) {
	winner := pendingBooking("order_a")
	loser := pendingBooking("order_b")
	store := newFakeStore(1, winner, loser)
	uc := newUseCase(store, true, &fakeMetrics{})

	_, err := uc.Execute(context.Background(), request("order_a", "pay_a"))
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), request("order_b", "pay_b"))
	require.NoError(t, err)

	resp, err := uc.Execute(context.Background(), request("order_b", "pay_b"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyCancelled, resp.Outcome)
	assert.Len(t, store.refunds, 1)
}

func TestUseCase_Execute_PaymentForCancelledBookingQueuesRefund(t *testing.T) {
	booking := pendingBooking("order_1")
	booking.Status = domain.StatusCancelled
	booking.CancellationReason = ptr.Ptr(domain.ReasonStalePending)
	store := newFakeStore(1, booking)

	resp, err := newUseCase(store, true, &fakeMetrics{}).Execute(context.Background(), request("order_1", "pay_late"))

	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyCancelled, resp.Outcome)
	assert.Equal(t, "pay_late", *resp.Booking.PaymentID)
	require.Len(t, store.refunds, 1)
	assert.Equal(t, domain.ReasonPaidAfterCancel, store.refunds[0].Reason)
	assert.Empty(t, store.orders)
}

func TestUseCase_Execute_InvalidSignature(t *testing.T) {
	t.Run("pending booking is cancelled", func(t *testing.T) {
		booking := pendingBooking("order_1")
		store := newFakeStore(1, booking)
		metrics := &fakeMetrics{}

		resp, err := newUseCase(store, false, metrics).Execute(context.Background(), request("order_1", "pay_1"))

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrInvalidSignature)
		stored := store.booking(booking.ID)
		assert.Equal(t, domain.StatusCancelled, stored.Status)
		assert.Equal(t, domain.ReasonInvalidSignature, *stored.CancellationReason)
		assert.Nil(t, stored.PaymentID)
		assert.Equal(t, []string{"invalid_signature"}, metrics.outcomes)
	})

	t.Run("confirmed booking is untouched", func(t *testing.T) {
		booking := pendingBooking("order_1")
		booking.Status = domain.StatusConfirmed
		booking.PaymentID = ptr.Ptr("pay_1")
		store := newFakeStore(1, booking)

		_, err := newUseCase(store, false, &fakeMetrics{}).Execute(context.Background(), request("order_1", "pay_forged"))

		assert.ErrorIs(t, err, ErrInvalidSignature)
		stored := store.booking(booking.ID)
		assert.Equal(t, domain.StatusConfirmed, stored.Status)
		assert.Equal(t, "pay_1", *stored.PaymentID)
	})

	t.Run("unknown order", func(t *testing.T) {
		store := newFakeStore(1)

		_, err := newUseCase(store, false, &fakeMetrics{}).Execute(context.Background(), request("order_x", "pay_1"))

		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}

func TestUseCase_Execute_ProjectionFailureKeepsConfirmation(t *testing.T) {
	booking := pendingBooking("order_1")
	store := newFakeStore(1, booking)
	store.orderErr = errors.New("orders table is down")

	resp, err := newUseCase(store, true, &fakeMetrics{}).Execute(context.Background(), request("order_1", "pay_1"))

	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, resp.Outcome)
	assert.Equal(t, domain.StatusConfirmed, store.booking(booking.ID).Status)
}

func TestUseCase_Execute_IdentityPreferredInProjection(t *testing.T) {
	booking := pendingBooking("order_1")
	store := newFakeStore(1, booking)
	req := request("order_1", "pay_1")
	req.Identity = &domain.Identity{UserID: ptr.Ptr("user-42"), Email: ptr.Ptr("account@example.com")}

	_, err := newUseCase(store, true, &fakeMetrics{}).Execute(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, store.orders, 1)
	assert.Equal(t, "user-42", *store.orders[0].UserID)
	assert.Equal(t, "account@example.com", *store.orders[0].CustomerEmail)
}

func TestUseCase_Execute_NotFound(t *testing.T) {
	booking := pendingBooking("order_1")
	store := newFakeStore(1, booking)
	uc := newUseCase(store, true, &fakeMetrics{})

	_, err := uc.Execute(context.Background(), request("order_unknown", "pay_1"))
	assert.ErrorIs(t, err, ErrBookingNotFound)

	other := uuid.New()
	req := request("order_1", "pay_1")
	req.BookingID = &other
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Equal(t, domain.StatusPending, store.booking(booking.ID).Status)
}

func TestUseCase_Execute_InvalidInput(t *testing.T) {
	uc := newUseCase(newFakeStore(1), true, &fakeMetrics{})

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "no order", req: request("", "pay_1")},
		{name: "no payment", req: request("order_1", " ")},
		{name: "no signature", req: &Request{OrderID: "order_1", PaymentID: "pay_1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
