package cleanup_stale_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	cleanupStaleBookings "github.com/m04kA/SMC-ServiceBooking/internal/usecase/cleanup_stale_bookings"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *cleanupStaleBookings.Request) (*cleanupStaleBookings.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*cleanupStaleBookings.Response)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandler_Handle(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		body    string
		minutes int
	}{
		{name: "explicit window", body: `{"minutes": 15}`, minutes: 15},
		{name: "empty body uses default", body: "", minutes: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, &cleanupStaleBookings.Request{OlderThanMinutes: tt.minutes}).
				Return(&cleanupStaleBookings.Response{Cancelled: []uuid.UUID{id}, Count: 1}, nil)

			w := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(w, httptest.NewRequest(http.MethodPost, "/payments/cleanup", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"cancelled":["`+id.String()+`"],"count":1}`, w.Body.String())
			uc.AssertExpectations(t)
		})
	}
}

func TestHandler_Handle_InvalidMinutes(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, cleanupStaleBookings.ErrInvalidInput)

	w := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(w, httptest.NewRequest(http.MethodPost, "/payments/cleanup", strings.NewReader(`{"minutes": -1}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
