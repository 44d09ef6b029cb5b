package time_entries

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/service/timetracking/models"
)

type TimeTrackingService interface {
	CheckIn(ctx context.Context, req *models.CheckRequest) (*models.TimeEntryResponse, error)
	CheckOut(ctx context.Context, req *models.CheckRequest) (*models.TimeEntryResponse, error)
	List(ctx context.Context, staffID int64, from, to time.Time) ([]*models.TimeEntryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
