package get_staff_schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

type ScheduleService interface {
	ResolveDaySchedule(ctx context.Context, staffID int64, date time.Time) ([]domain.Interval, error)
	FreeWindows(ctx context.Context, staffID int64, date time.Time) ([]domain.Interval, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
