package verify_payment

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ServiceBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

// fakeStore хранилище бронирований в памяти; транзакции сериализуются мьютексом
type fakeStore struct {
	txMu     sync.Mutex
	mu       sync.Mutex
	bookings map[uuid.UUID]*domain.Booking
	refunds  []*domain.RefundRequest
	orders   []*domain.OrderRecord
	orderErr error
	capacity int
}

func newFakeStore(capacity int, bookings ...*domain.Booking) *fakeStore {
	s := &fakeStore{bookings: make(map[uuid.UUID]*domain.Booking), capacity: capacity}
	for _, b := range bookings {
		s.bookings[b.ID] = b
	}
	return s
}

func (s *fakeStore) copyOf(b *domain.Booking) *domain.Booking {
	c := *b
	return &c
}

func (s *fakeStore) GetByGatewayOrderID(_ context.Context, orderID string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookings {
		if b.GatewayOrderID != nil && *b.GatewayOrderID == orderID {
			return s.copyOf(b), nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (s *fakeStore) GetWithService(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	c := s.copyOf(b)
	c.Service = &domain.Service{ID: b.ServiceID, Name: "Lawn Mowing"}
	return c, nil
}

func (s *fakeStore) CountConfirmed(_ context.Context, slot domain.SlotKey, excludeID *uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, b := range s.bookings {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.Status == domain.StatusConfirmed && b.ServiceID == slot.ServiceID &&
			types.SameDay(b.Date, slot.Date) && b.StartMinutes == slot.StartMinutes {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) Confirm(_ context.Context, id uuid.UUID, paymentID string, amountPaid float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bookings[id]
	if b == nil || b.Status != domain.StatusPending {
		return bookingRepo.ErrStatusConflict
	}
	b.Status = domain.StatusConfirmed
	b.PaymentID = &paymentID
	b.AmountPaid = &amountPaid
	return nil
}

func (s *fakeStore) Cancel(_ context.Context, id uuid.UUID, reason string, paymentID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bookings[id]
	if b == nil || b.IsTerminal() {
		return bookingRepo.ErrStatusConflict
	}
	b.Status = domain.StatusCancelled
	b.CancellationReason = &reason
	if paymentID != nil {
		b.PaymentID = paymentID
	}
	return nil
}

func (s *fakeStore) RecordPayment(_ context.Context, id uuid.UUID, paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bookings[id]
	if b == nil || b.HasRecordedPayment() {
		return bookingRepo.ErrStatusConflict
	}
	b.PaymentID = &paymentID
	return nil
}

func (s *fakeStore) GetPolicyWithHierarchy(_ context.Context, _ int64) (*domain.BookingPolicy, error) {
	p := domain.DefaultBookingPolicy()
	p.CapacityPerSlot = s.capacity
	return p, nil
}

func (s *fakeStore) Enqueue(_ context.Context, r *domain.RefundRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.refunds {
		if existing.GatewayPaymentID == r.GatewayPaymentID {
			return false, nil
		}
	}
	s.refunds = append(s.refunds, r)
	return true, nil
}

func (s *fakeStore) Create(_ context.Context, o *domain.OrderRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.orderErr != nil {
		return false, s.orderErr
	}
	s.orders = append(s.orders, o)
	return true, nil
}

// DoSerializable выполняет fn под глобальной блокировкой; ошибка откатывает изменения
func (s *fakeStore) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := make(map[uuid.UUID]domain.Booking, len(s.bookings))
	for id, b := range s.bookings {
		snapshot[id] = *b
	}
	refunds := len(s.refunds)
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		for id, b := range snapshot {
			restored := b
			s.bookings[id] = &restored
		}
		s.refunds = s.refunds[:refunds]
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *fakeStore) booking(id uuid.UUID) domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.bookings[id]
}

type fakeVerifier struct{ ok bool }

func (v fakeVerifier) Verify(_, _, _ string) bool { return v.ok }

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *fakeMetrics) ObserveVerification(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
