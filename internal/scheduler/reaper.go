package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	cleanupStaleBookings "github.com/m04kA/SMC-ServiceBooking/internal/usecase/cleanup_stale_bookings"
)

const jobName = "stale-booking-reaper"

// CleanupUseCase отмена устаревших pending бронирований
type CleanupUseCase interface {
	Execute(ctx context.Context, req *cleanupStaleBookings.Request) (*cleanupStaleBookings.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Reaper периодически отменяет брошенные pending бронирования
type Reaper struct {
	scheduler gocron.Scheduler
	useCase   CleanupUseCase
	timeout   time.Duration
	logger    Logger
}

// NewReaper регистрирует задачу с интервалом interval; запуск - Start
func NewReaper(useCase CleanupUseCase, interval time.Duration, logger Logger) (*Reaper, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler: reaper interval must be positive, got %s", interval)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("scheduler: create scheduler: %w", err)
	}

	r := &Reaper{
		scheduler: s,
		useCase:   useCase,
		timeout:   interval,
		logger:    logger,
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.RunOnce),
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("scheduler: register reaper job: %w", err)
	}

	return r, nil
}

// Start запускает планировщик в фоне
func (r *Reaper) Start() {
	r.logger.Info("Reaper: started")
	r.scheduler.Start()
}

// Shutdown останавливает планировщик и ждет завершения текущего запуска
func (r *Reaper) Shutdown() error {
	if err := r.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("scheduler: shutdown: %w", err)
	}
	r.logger.Info("Reaper: stopped")
	return nil
}

// RunOnce один проход очистки с окном из конфигурации
func (r *Reaper) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	resp, err := r.useCase.Execute(ctx, &cleanupStaleBookings.Request{})
	if err != nil {
		r.logger.Error("Reaper: cleanup failed: %v", err)
		return
	}
	if resp.Count > 0 {
		r.logger.Info("Reaper: cancelled %d stale bookings", resp.Count)
	}
}
