package appointment_lifecycle

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments/models"
	appointmentLifecycle "github.com/m04kA/SMC-SalonScheduling/internal/usecase/appointment_lifecycle"
)

type LifecycleUseCase interface {
	CheckIn(ctx context.Context, id int64) (*models.AppointmentResponse, error)
	Start(ctx context.Context, id int64) (*models.AppointmentResponse, error)
	Pause(ctx context.Context, id int64) (*models.AppointmentResponse, error)
	Resume(ctx context.Context, id int64) (*models.AppointmentResponse, error)
	Complete(ctx context.Context, id int64) (*models.AppointmentResponse, error)
	Cancel(ctx context.Context, req *appointmentLifecycle.CancelRequest) (*models.AppointmentResponse, error)
	NoShow(ctx context.Context, id int64) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
