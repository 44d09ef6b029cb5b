package schedule_overrides

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/service/shifts/models"
)

type ShiftService interface {
	CreateOverride(ctx context.Context, req *models.CreateOverrideRequest) (*models.CreateOverrideResponse, error)
	ListOverrides(ctx context.Context, staffID int64, from, to time.Time) ([]models.OverrideResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
