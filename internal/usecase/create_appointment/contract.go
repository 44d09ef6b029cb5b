package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SalonScheduling/internal/integrations/customerservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// StaffAssigner интерфейс проверки занятости и подбора мастера
type StaffAssigner interface {
	CheckAvailability(ctx context.Context, staffIDs []int64, interval domain.Interval, excludeAppointmentID *int64) error
	PickStaff(ctx context.Context, candidates []int64, interval domain.Interval, excludeAppointmentID *int64) (int64, error)
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
	ListQualifiedStaff(ctx context.Context, serviceID int64) ([]int64, error)
	GetPackage(ctx context.Context, packageID int64) (*catalogservice.Package, error)
}

// CustomerServiceClient интерфейс клиента для CustomerService
type CustomerServiceClient interface {
	GetCustomerWithGracefulDegradation(ctx context.Context, customerID int64) (*customerservice.Customer, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс бизнес-метрик записи
type Metrics interface {
	ObserveAppointmentCreated(mode string)
	ObserveBookingConflict(source string)
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
