package timeoff

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	timeoffRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/timeoff"
)

// TimeOffRepository интерфейс репозитория заявок на отсутствие
type TimeOffRepository interface {
	Create(ctx context.Context, req *domain.TimeOffRequest) (*domain.TimeOffRequest, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeOffRequest, error)
	List(ctx context.Context, filter timeoffRepo.Filter) ([]domain.TimeOffRequest, error)
	Decide(ctx context.Context, id int64, status domain.TimeOffStatus, decidedBy int64, conflicts []int64, at time.Time) error
}

// ConflictDetector интерфейс детектора конфликтов
type ConflictDetector interface {
	FindConflicts(ctx context.Context, staffID int64, interval domain.Interval, excludeAppointmentID *int64) ([]domain.Conflict, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
