package get_default_shifts

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduling/internal/service/shifts/models"
)

type ShiftService interface {
	GetDefaultShifts(ctx context.Context, staffID int64) (*models.DefaultShiftsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
