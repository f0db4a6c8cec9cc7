package get_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/internal/service/bookings"
	"github.com/m04kA/SMC-ServiceBooking/pkg/ptr"
)

type mockService struct{ mock.Mock }

func (m *mockService) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(svc *mockService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/bookings/{id}", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandler_Handle(t *testing.T) {
	svc := &mockService{}
	booking := &domain.Booking{
		ID:             uuid.New(),
		ServiceID:      7,
		StartMinutes:   540,
		Status:         domain.StatusConfirmed,
		GatewayOrderID: ptr.Ptr("order_1"),
		PaymentID:      ptr.Ptr("pay_1"),
		Service:        &domain.Service{ID: 7, Slug: "lawn-mowing", Name: "Lawn Mowing"},
	}
	svc.On("Get", mock.Anything, booking.ID).Return(booking, nil)

	w := serve(svc, "/bookings/"+booking.ID.String())

	require.Equal(t, http.StatusOK, w.Code)
	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "confirmed", resp.Booking.Status)
	assert.Equal(t, "pay_1", *resp.Booking.PaymentID)
	assert.Equal(t, "Lawn Mowing", resp.Booking.Service.Name)
}

func TestHandler_Handle_Errors(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		w := serve(&mockService{}, "/bookings/42")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockService{}
		id := uuid.New()
		svc.On("Get", mock.Anything, id).Return(nil, bookings.ErrBookingNotFound)

		w := serve(svc, "/bookings/"+id.String())
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
