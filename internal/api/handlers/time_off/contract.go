package time_off

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduling/internal/service/timeoff/models"
)

type TimeOffService interface {
	Submit(ctx context.Context, req *models.SubmitRequest) (*models.TimeOffResponse, error)
	List(ctx context.Context, req *models.ListRequest) ([]*models.TimeOffResponse, error)
	Approve(ctx context.Context, req *models.DecideRequest) (*models.TimeOffResponse, error)
	Reject(ctx context.Context, req *models.DecideRequest) (*models.TimeOffResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
