package appointment_lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus, at time.Time) error
	Cancel(ctx context.Context, id int64, from domain.AppointmentStatus, reason string, at time.Time) error
}

// EventRepository интерфейс outbox событий для смежных сервисов
type EventRepository interface {
	Insert(ctx context.Context, appointmentID int64, eventType string, payload interface{}) (uuid.UUID, error)
}

// TimeTracker интерфейс учета рабочего времени сотрудников
type TimeTracker interface {
	OpenForAppointment(ctx context.Context, staffID int64, at time.Time) (*domain.TimeEntry, error)
	CloseForAppointment(ctx context.Context, staffID int64, at time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	ObserveTransition(from, to string)
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
