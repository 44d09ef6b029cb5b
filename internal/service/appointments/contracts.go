package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	CountActiveByStaff(ctx context.Context, staffIDs []int64, from, to time.Time) (map[int64]int, error)
}

// WorkingHours интерфейс проверки рабочего времени и свободных окон сотрудника
type WorkingHours interface {
	IsWithinWorkingHours(ctx context.Context, staffID int64, interval domain.Interval) (bool, error)
	IsFree(ctx context.Context, staffID int64, interval domain.Interval, excludeAppointmentID *int64) (bool, error)
}

// ConflictDetector интерфейс детектора конфликтов
type ConflictDetector interface {
	FindConflicts(ctx context.Context, staffID int64, interval domain.Interval, excludeAppointmentID *int64) ([]domain.Conflict, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
