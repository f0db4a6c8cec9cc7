package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/internal/policy"
	createBooking "github.com/m04kA/SMC-ServiceBooking/internal/usecase/create_booking"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createBooking.Response)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const body = `{
	"date": "2025-06-20",
	"startMinutes": 540,
	"customerName": "Asha",
	"customerPhone": "9876543210",
	"addressLine1": "12 MG Road",
	"city": "Pune",
	"postalCode": "411045"
}`

func serve(uc *mockUseCase, payload string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/services/{slug}/book", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodPost)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/services/lawn-mowing/book", strings.NewReader(payload)))
	return w
}

func TestHandler_Handle_Created(t *testing.T) {
	uc := &mockUseCase{}
	booking := &domain.Booking{
		ID:              uuid.New(),
		ServiceID:       7,
		Date:            time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		StartMinutes:    540,
		DurationMinutes: 120,
		Status:          domain.StatusPending,
		CustomerName:    "Asha",
	}

	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.Slug == "lawn-mowing" && *req.StartMinutes == 540 && req.PostalCode == "411045"
	})).Return(&createBooking.Response{Booking: booking, PaymentURL: "/checkout/booking/" + booking.ID.String()}, nil)

	w := serve(uc, body)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp CreateBookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, booking.ID, resp.Booking.ID)
	assert.Equal(t, "pending", resp.Booking.Status)
	assert.Equal(t, "2025-06-20", resp.Booking.Date)
	assert.Equal(t, "/checkout/booking/"+booking.ID.String(), resp.PaymentURL)
}

func TestHandler_Handle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{name: "slot full", err: &policy.Rejection{Reason: policy.ReasonSlotFull}, status: http.StatusConflict, reason: "slot_full"},
		{name: "out of area", err: &policy.Rejection{Reason: policy.ReasonOutOfServiceArea}, status: http.StatusBadRequest, reason: "out_of_service_area"},
		{name: "cutoff", err: &policy.Rejection{Reason: policy.ReasonCutoffPassed}, status: http.StatusBadRequest, reason: "same_day_cutoff_passed"},
		{name: "disabled", err: createBooking.ErrBookingDisabled, status: http.StatusServiceUnavailable},
		{name: "unknown service", err: createBooking.ErrServiceNotFound, status: http.StatusNotFound},
		{name: "invalid input", err: createBooking.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "internal", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := serve(uc, body)

			assert.Equal(t, tt.status, w.Code)
			var resp struct {
				Error  string `json:"error"`
				Reason string `json:"reason"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tt.reason, resp.Reason)
		})
	}
}

func TestHandler_Handle_MissingFieldReportsField(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &policy.Rejection{Reason: policy.ReasonMissingField, Field: "city"})

	w := serve(uc, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"city"`)
}

func TestHandler_Handle_InvalidBody(t *testing.T) {
	w := serve(&mockUseCase{}, "{not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
