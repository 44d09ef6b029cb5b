package update_default_shifts

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduling/internal/service/shifts/models"
)

type ShiftService interface {
	UpdateDefaultShifts(ctx context.Context, req *models.UpdateDefaultShiftsRequest) (*models.DefaultShiftsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
