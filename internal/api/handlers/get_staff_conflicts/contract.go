package get_staff_conflicts

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

type ConflictDetector interface {
	FindConflicts(ctx context.Context, staffID int64, interval domain.Interval, excludeAppointmentID *int64) ([]domain.Conflict, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
