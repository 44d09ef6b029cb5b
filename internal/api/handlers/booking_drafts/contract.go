package booking_drafts

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments/models"
	bookingFlow "github.com/m04kA/SMC-SalonScheduling/internal/usecase/booking_flow"
)

type BookingFlowUseCase interface {
	Start(ctx context.Context, req *bookingFlow.StartRequest) (*bookingFlow.DraftResponse, error)
	Get(ctx context.Context, draftID string) (*bookingFlow.DraftResponse, error)
	SetService(ctx context.Context, draftID string, serviceID int64) (*bookingFlow.DraftResponse, error)
	SetTechnician(ctx context.Context, req *bookingFlow.TechnicianRequest) (*bookingFlow.DraftResponse, error)
	SetTime(ctx context.Context, req *bookingFlow.TimeRequest) (*bookingFlow.DraftResponse, error)
	SetCustomer(ctx context.Context, req *bookingFlow.CustomerRequest) (*bookingFlow.DraftResponse, error)
	Back(ctx context.Context, req *bookingFlow.BackRequest) (*bookingFlow.DraftResponse, error)
	Confirm(ctx context.Context, draftID string) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
