package booking_flow

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonScheduling/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SalonScheduling/internal/usecase/reschedule_appointment"
)

// DraftRepository интерфейс хранилища черновиков
type DraftRepository interface {
	Save(ctx context.Context, d domain.BookingDraft) error
	Get(ctx context.Context, id string) (domain.BookingDraft, error)
	Delete(ctx context.Context, id string) error
}

// AppointmentReader интерфейс чтения записи для переноса
type AppointmentReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
}

// AvailabilityChecker интерфейс проверки выбранного времени
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, staffIDs []int64, interval domain.Interval, excludeAppointmentID *int64) error
	PickStaff(ctx context.Context, candidates []int64, interval domain.Interval, excludeAppointmentID *int64) (int64, error)
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
	ListQualifiedStaff(ctx context.Context, serviceID int64) ([]int64, error)
}

// AppointmentCreator создание записи при подтверждении
type AppointmentCreator interface {
	Execute(ctx context.Context, req *create_appointment.Request) (*models.AppointmentResponse, error)
}

// AppointmentRescheduler перенос записи при подтверждении
type AppointmentRescheduler interface {
	Execute(ctx context.Context, req *reschedule_appointment.Request) (*models.AppointmentResponse, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
