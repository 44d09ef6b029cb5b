package appointment_lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments/models"
)

// UseCase переходы жизненного цикла записи.
// Каждый переход - условная запись в сериализуемой транзакции: при отказе запись не меняется.
type UseCase struct {
	appointmentRepo AppointmentRepository
	eventRepo       EventRepository
	timeTracker     TimeTracker
	txManager       TransactionManager
	checkInGrace    time.Duration
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	eventRepo EventRepository,
	timeTracker TimeTracker,
	txManager TransactionManager,
	checkInGrace time.Duration,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		eventRepo:       eventRepo,
		timeTracker:     timeTracker,
		txManager:       txManager,
		checkInGrace:    checkInGrace,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// transition описание одного перехода
type transition struct {
	op       string
	to       domain.AppointmentStatus
	validate func(appt *domain.Appointment, now time.Time) error
	write    func(ctx context.Context, appt *domain.Appointment, now time.Time) error
	after    func(ctx context.Context, appt *domain.Appointment, now time.Time) error
}

// CheckIn регистрирует клиента: upcoming -> checked-in в окне [start - grace, end].
// Для каждого мастера открывается отметка рабочего времени.
func (uc *UseCase) CheckIn(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	return uc.apply(ctx, id, transition{
		op: "CheckInAppointment",
		to: domain.StatusCheckedIn,
		validate: func(appt *domain.Appointment, now time.Time) error {
			return appt.ValidateCheckIn(now, uc.checkInGrace)
		},
		after: func(ctx context.Context, appt *domain.Appointment, now time.Time) error {
			for _, staffID := range appt.StaffIDs {
				if _, err := uc.timeTracker.OpenForAppointment(ctx, staffID, now); err != nil {
					uc.logger.Warn("CheckInAppointment: failed to open time entry for staff=%d: %v", staffID, err)
					return err
				}
			}
			appt.CheckedInAt = &now
			return nil
		},
	})
}

// Start начинает процедуру: checked-in -> in-progress
func (uc *UseCase) Start(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	return uc.apply(ctx, id, transition{
		op:       "StartAppointment",
		to:       domain.StatusInProgress,
		validate: requireStatus(domain.StatusCheckedIn, domain.StatusInProgress),
	})
}

// Pause приостанавливает процедуру: in-progress -> paused
func (uc *UseCase) Pause(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	return uc.apply(ctx, id, transition{
		op:       "PauseAppointment",
		to:       domain.StatusPaused,
		validate: requireStatus(domain.StatusInProgress, domain.StatusPaused),
	})
}

// Resume продолжает процедуру: paused -> in-progress
func (uc *UseCase) Resume(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	return uc.apply(ctx, id, transition{
		op:       "ResumeAppointment",
		to:       domain.StatusInProgress,
		validate: requireStatus(domain.StatusPaused, domain.StatusInProgress),
	})
}

// Complete завершает запись и в той же транзакции пишет событие appointment.completed
// для смежных сервисов (пакеты, счета). Отметки, открытые регистрацией, закрываются.
func (uc *UseCase) Complete(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	return uc.apply(ctx, id, transition{
		op: "CompleteAppointment",
		to: domain.StatusCompleted,
		validate: func(appt *domain.Appointment, _ time.Time) error {
			return domain.ValidateTransition(appt.Status, domain.StatusCompleted)
		},
		after: func(ctx context.Context, appt *domain.Appointment, now time.Time) error {
			appt.CompletedAt = &now
			payload := domain.NewAppointmentCompletedPayload(appt, now)
			if _, err := uc.eventRepo.Insert(ctx, appt.ID, domain.EventAppointmentCompleted, payload); err != nil {
				uc.logger.Error("CompleteAppointment: failed to record event for id=%d: %v", appt.ID, err)
				return fmt.Errorf("%w: failed to record completion event: %v", ErrInternal, err)
			}
			return uc.closeEntries(ctx, appt, now)
		},
	})
}

// Cancel отменяет запись с обязательной причиной: upcoming|checked-in -> cancelled.
// Интервал сразу освобождается.
func (uc *UseCase) Cancel(ctx context.Context, req *CancelRequest) (*models.AppointmentResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	var wasCheckedIn bool

	return uc.apply(ctx, req.AppointmentID, transition{
		op: "CancelAppointment",
		to: domain.StatusCancelled,
		validate: func(appt *domain.Appointment, _ time.Time) error {
			wasCheckedIn = appt.Status == domain.StatusCheckedIn
			return appt.ValidateCancel(reason)
		},
		write: func(ctx context.Context, appt *domain.Appointment, now time.Time) error {
			return uc.appointmentRepo.Cancel(ctx, appt.ID, appt.Status, reason, now)
		},
		after: func(ctx context.Context, appt *domain.Appointment, now time.Time) error {
			appt.CancellationReason = &reason
			appt.CancelledAt = &now
			if !wasCheckedIn {
				return nil
			}
			return uc.closeEntries(ctx, appt, now)
		},
	})
}

// NoShow отмечает неявку: upcoming -> no-show, только после окончания и без регистрации
func (uc *UseCase) NoShow(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	return uc.apply(ctx, id, transition{
		op: "NoShowAppointment",
		to: domain.StatusNoShow,
		validate: func(appt *domain.Appointment, now time.Time) error {
			return appt.ValidateNoShow(now)
		},
	})
}

func (uc *UseCase) apply(ctx context.Context, id int64, t transition) (*models.AppointmentResponse, error) {
	uc.logger.Info("%s: id=%d", t.op, id)

	if id <= 0 {
		return nil, fmt.Errorf("%w: appointment id must be positive", ErrInvalidInput)
	}

	var (
		result *domain.Appointment
		from   domain.AppointmentStatus
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		now := uc.timeProvider.Now()

		appt, err := uc.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("%s: appointment id=%d not found", t.op, id)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("%s: failed to get appointment id=%d: %v", t.op, id, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		if err := t.validate(appt, now); err != nil {
			uc.logger.Warn("%s: id=%d rejected: %v", t.op, id, err)
			return err
		}
		from = appt.Status

		write := t.write
		if write == nil {
			write = func(ctx context.Context, appt *domain.Appointment, now time.Time) error {
				return uc.appointmentRepo.UpdateStatus(ctx, appt.ID, appt.Status, t.to, now)
			}
		}
		if err := write(txCtx, appt, now); err != nil {
			if errors.Is(err, appointmentRepo.ErrStatusChanged) || pgerr.IsRetryable(err) {
				uc.logger.Warn("%s: id=%d status changed concurrently", t.op, id)
				return ErrStatusChanged
			}
			uc.logger.Error("%s: failed to update id=%d: %v", t.op, id, err)
			return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
		}

		appt.Status = t.to
		appt.UpdatedAt = now
		if t.after != nil {
			if err := t.after(txCtx, appt, now); err != nil {
				return err
			}
		}

		result = appt
		return nil
	})
	// 40001 при COMMIT: запись изменена параллельной транзакцией
	if err != nil && pgerr.IsRetryable(err) {
		uc.logger.Warn("%s: id=%d serialization failure: %v", t.op, id, err)
		err = ErrStatusChanged
	}
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveTransition(string(from), string(t.to))
	uc.logger.Info("%s: id=%d %s -> %s", t.op, id, from, t.to)
	return models.FromDomainAppointment(result), nil
}

// closeEntries закрывает отметки мастеров, открытые регистрацией на запись
func (uc *UseCase) closeEntries(ctx context.Context, appt *domain.Appointment, now time.Time) error {
	for _, staffID := range appt.StaffIDs {
		if err := uc.timeTracker.CloseForAppointment(ctx, staffID, now); err != nil {
			uc.logger.Error("CloseTimeEntries: staff=%d, appointment id=%d: %v", staffID, appt.ID, err)
			return err
		}
	}
	return nil
}

// requireStatus переход допустим только из статуса from
func requireStatus(from, to domain.AppointmentStatus) func(appt *domain.Appointment, _ time.Time) error {
	return func(appt *domain.Appointment, _ time.Time) error {
		if err := domain.ValidateTransition(appt.Status, to); err != nil {
			return err
		}
		if appt.Status != from {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, appt.Status, to)
		}
		return nil
	}
}
