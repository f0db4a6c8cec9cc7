package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	serviceRepo "github.com/m04kA/SMC-ServiceBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-ServiceBooking/internal/policy"
	"github.com/m04kA/SMC-ServiceBooking/pkg/clock"
	"github.com/m04kA/SMC-ServiceBooking/pkg/ptr"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, b)
	if fn, ok := args.Get(0).(func(context.Context, *domain.Booking) *domain.Booking); ok {
		return fn(ctx, b), args.Error(1)
	}
	created, _ := args.Get(0).(*domain.Booking)
	return created, args.Error(1)
}

func (m *mockBookingRepo) CountConfirmed(ctx context.Context, slot domain.SlotKey, excludeID *uuid.UUID) (int, error) {
	args := m.Called(ctx, slot, excludeID)
	return args.Int(0), args.Error(1)
}

type mockServiceRepo struct{ mock.Mock }

func (m *mockServiceRepo) GetBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	args := m.Called(ctx, slug)
	service, _ := args.Get(0).(*domain.Service)
	return service, args.Error(1)
}

type staticPolicy struct{ policy *domain.BookingPolicy }

func (s staticPolicy) GetPolicyWithHierarchy(context.Context, int64) (*domain.BookingPolicy, error) {
	return s.policy, nil
}

type urls struct{}

func (urls) PaymentURL(id string) string { return "https://shop.example/checkout/" + id }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newUseCase(bookings *mockBookingRepo, services *mockServiceRepo, p *domain.BookingPolicy, enabled bool) *UseCase {
	clk := clock.Fixed(time.Date(2026, 10, 14, 10, 0, 0, 0, ist), ist)
	return NewUseCase(bookings, services, staticPolicy{policy: p}, policy.NewValidator(clk, bookings), urls{}, enabled, nopLogger{})
}

func validRequest() *Request {
	return &Request{
		Slug:          "lawn-mowing",
		Date:          "2026-10-15",
		StartMinutes:  ptr.Ptr(540),
		CustomerName:  " Asha ",
		CustomerPhone: "9876543210",
		CustomerEmail: ptr.Ptr("asha@example.com"),
		Notes:         ptr.Ptr("   "),
		AddressLine1:  "12 MG Road",
		City:          "Pune",
		PostalCode:    "411045",
	}
}

func TestUseCase_Execute_CreatesPendingBooking(t *testing.T) {
	bookings := &mockBookingRepo{}
	services := &mockServiceRepo{}
	service := &domain.Service{ID: 7, Slug: "lawn-mowing", Name: "Lawn Mowing", PriceMin: 499}

	services.On("GetBySlug", mock.Anything, "lawn-mowing").Return(service, nil)
	bookings.On("CountConfirmed", mock.Anything, mock.Anything, (*uuid.UUID)(nil)).Return(0, nil)
	bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.StatusPending &&
			b.ServiceID == 7 &&
			b.StartMinutes == types.Minutes(540) &&
			b.DurationMinutes == domain.DefaultSlotDurationMinutes &&
			b.CustomerName == "Asha" &&
			b.Notes == nil &&
			b.Date.Equal(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))
	})).Return(func(_ context.Context, b *domain.Booking) *domain.Booking { return b }, nil)

	resp, err := newUseCase(bookings, services, domain.DefaultBookingPolicy(), true).Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.Booking.ID)
	assert.Same(t, service, resp.Booking.Service)
	assert.Equal(t, "https://shop.example/checkout/"+resp.Booking.ID.String(), resp.PaymentURL)
	bookings.AssertExpectations(t)
}

func TestUseCase_Execute_Disabled(t *testing.T) {
	_, err := newUseCase(&mockBookingRepo{}, &mockServiceRepo{}, domain.DefaultBookingPolicy(), false).
		Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrBookingDisabled)
}

func TestUseCase_Execute_InvalidInput(t *testing.T) {
	uc := newUseCase(&mockBookingRepo{}, &mockServiceRepo{}, domain.DefaultBookingPolicy(), true)

	req := validRequest()
	req.Date = "15/10/2026"
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.CustomerEmail = ptr.Ptr("not-an-email")
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUseCase_Execute_PolicyRejectionIsReturned(t *testing.T) {
	bookings := &mockBookingRepo{}
	services := &mockServiceRepo{}
	services.On("GetBySlug", mock.Anything, "lawn-mowing").Return(&domain.Service{ID: 7}, nil)
	bookings.On("CountConfirmed", mock.Anything, mock.Anything, (*uuid.UUID)(nil)).Return(1, nil)

	_, err := newUseCase(bookings, services, domain.DefaultBookingPolicy(), true).Execute(context.Background(), validRequest())

	rejection, ok := policy.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, policy.ReasonSlotFull, rejection.Reason)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUseCase_Execute_MissingDateIsPolicyRejection(t *testing.T) {
	services := &mockServiceRepo{}
	services.On("GetBySlug", mock.Anything, "lawn-mowing").Return(&domain.Service{ID: 7}, nil)

	req := validRequest()
	req.Date = ""
	_, err := newUseCase(&mockBookingRepo{}, services, domain.DefaultBookingPolicy(), true).Execute(context.Background(), req)

	assert.ErrorIs(t, err, policy.ErrMissingField)
}

func TestUseCase_Execute_ServiceErrors(t *testing.T) {
	services := &mockServiceRepo{}
	services.On("GetBySlug", mock.Anything, "lawn-mowing").Return(nil, serviceRepo.ErrServiceNotFound).Once()
	services.On("GetBySlug", mock.Anything, "lawn-mowing").Return(nil, errors.New("db down")).Once()

	uc := newUseCase(&mockBookingRepo{}, services, domain.DefaultBookingPolicy(), true)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
}
