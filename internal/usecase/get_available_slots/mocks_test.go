package get_available_slots

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

type mockServiceRepo struct{ mock.Mock }

func (m *mockServiceRepo) GetBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	args := m.Called(ctx, slug)
	service, _ := args.Get(0).(*domain.Service)
	return service, args.Error(1)
}

type mockPolicyRepo struct{ mock.Mock }

func (m *mockPolicyRepo) GetPolicyWithHierarchy(ctx context.Context, serviceID int64) (*domain.BookingPolicy, error) {
	args := m.Called(ctx, serviceID)
	policy, _ := args.Get(0).(*domain.BookingPolicy)
	return policy, args.Error(1)
}

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) CountConfirmedByDate(ctx context.Context, serviceID int64, date time.Time) (map[types.Minutes]int, error) {
	args := m.Called(ctx, serviceID, date)
	counts, _ := args.Get(0).(map[types.Minutes]int)
	return counts, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
