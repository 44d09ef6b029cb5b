package flexible_shifts

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduling/internal/service/shifts/models"
)

type ShiftService interface {
	SubmitFlexibleShift(ctx context.Context, req *models.SubmitFlexibleShiftRequest) (*models.FlexibleShiftResponse, error)
	ListFlexibleShifts(ctx context.Context, req *models.ListFlexibleShiftsRequest) ([]*models.FlexibleShiftResponse, error)
	DecideFlexibleShift(ctx context.Context, req *models.DecideFlexibleShiftRequest) (*models.FlexibleShiftResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
