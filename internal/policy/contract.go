package policy

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
	"github.com/m04kA/SMC-ServiceBooking/pkg/types"
)

// Clock часы сервиса (реализуется *clock.Clock)
type Clock interface {
	Today() time.Time
	NowMinutes() types.Minutes
	IsToday(date time.Time) bool
	IsBeforeToday(date time.Time) bool
	DaysUntil(date time.Time) int
}

// ConfirmedCounter считает подтвержденные бронирования слота
type ConfirmedCounter interface {
	CountConfirmed(ctx context.Context, slot domain.SlotKey, excludeID *uuid.UUID) (int, error)
}
