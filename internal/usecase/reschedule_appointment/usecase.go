package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments/models"
)

// UseCase use case для переноса записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	assigner        StaffAssigner
	catalogClient   CatalogServiceClient
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	assigner StaffAssigner,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		assigner:        assigner,
		catalogClient:   catalogClient,
		txManager:       txManager,
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

// Execute переносит запись в статусе upcoming на новое время с теми же проверками,
// что и при создании. Длительность записи сохраняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.AppointmentResponse, error) {
	uc.logger.Info("RescheduleAppointment: id=%d, start=%s, staff=%v",
		req.AppointmentID, req.StartTime.Format(time.RFC3339), req.StaffIDs)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if req.StartTime.Before(now) {
		uc.logger.Warn("RescheduleAppointment: start %s is before now", req.StartTime.Format(time.RFC3339))
		return nil, ErrStartInPast
	}

	// 1. Читаем запись без блокировки, чтобы узнать услугу до похода в каталог
	current, err := uc.getAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}

	candidates, err := uc.resolveCandidates(ctx, req, current)
	if err != nil {
		return nil, err
	}

	var result *domain.Appointment

	// 2. Повторное чтение под блокировкой, проверка конфликтов и перенос
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := uc.getAppointment(txCtx, req.AppointmentID)
		if err != nil {
			return err
		}
		if !appt.CanBeRescheduled() {
			uc.logger.Warn("RescheduleAppointment: id=%d is %s", appt.ID, appt.Status)
			return ErrNotReschedulable
		}

		interval := domain.Interval{
			Start: req.StartTime,
			End:   req.StartTime.Add(appt.Interval().Duration()),
		}

		staffIDs := candidates
		if req.keepsStaff() {
			staffIDs = appt.StaffIDs
		}

		if req.isAnyStaff() {
			staffID, err := uc.assigner.PickStaff(txCtx, candidates, interval, &appt.ID)
			if err != nil {
				return err
			}
			staffIDs = []int64{staffID}
		} else if err := uc.assigner.CheckAvailability(txCtx, staffIDs, interval, &appt.ID); err != nil {
			return err
		}

		updated := *appt
		updated.StartTime = interval.Start
		updated.EndTime = interval.End
		updated.StaffIDs = staffIDs
		if err := updated.Validate(); err != nil {
			return err
		}

		if err := uc.appointmentRepo.Reschedule(txCtx, &updated, now); err != nil {
			switch {
			case errors.Is(err, appointmentRepo.ErrStatusChanged):
				return ErrNotReschedulable
			case errors.Is(err, appointmentRepo.ErrStaffBusy):
				return domain.NewConflictError("staff was booked by a concurrent request", nil)
			}
			uc.logger.Error("RescheduleAppointment: failed to reschedule id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to reschedule: %v", ErrInternal, err)
		}

		result = &updated
		return nil
	})

	// 40001 при COMMIT: слот занят параллельной записью
	if err != nil && pgerr.IsRetryable(err) {
		err = domain.NewConflictError("staff was booked by a concurrent request", nil)
	}

	if err != nil {
		if conflicts, ok := domain.ConflictsFromError(err); ok {
			uc.logger.Warn("RescheduleAppointment: conflict for id=%d: %d items", req.AppointmentID, len(conflicts))
			source := "storage"
			if len(conflicts) > 0 {
				source = string(conflicts[0].Kind)
			}
			uc.metrics.ObserveBookingConflict(source)
		}
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: id=%d moved to %s, staff=%v",
		result.ID, result.StartTime.Format(time.RFC3339), result.StaffIDs)
	return models.FromDomainAppointment(result), nil
}

func (uc *UseCase) getAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, err := uc.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	return appt, nil
}

// resolveCandidates проверяет квалификацию новых мастеров; прежний состав не перепроверяется
func (uc *UseCase) resolveCandidates(ctx context.Context, req *Request, appt *domain.Appointment) ([]int64, error) {
	if req.keepsStaff() {
		return nil, nil
	}

	qualified, err := uc.catalogClient.ListQualifiedStaff(ctx, appt.ServiceID)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to get qualified staff for service id=%d: %v", appt.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get qualified staff: %v", ErrInternal, err)
	}

	if req.isAnyStaff() {
		if len(qualified) == 0 {
			return nil, fmt.Errorf("%w: nobody performs service id=%d", ErrStaffNotQualified, appt.ServiceID)
		}
		return qualified, nil
	}

	allowed := make(map[int64]struct{}, len(qualified))
	for _, id := range qualified {
		allowed[id] = struct{}{}
	}
	for _, id := range req.StaffIDs {
		if _, ok := allowed[id]; !ok {
			uc.logger.Warn("RescheduleAppointment: staff=%d is not qualified for service id=%d", id, appt.ServiceID)
			return nil, fmt.Errorf("%w: staff id %d", ErrStaffNotQualified, id)
		}
	}
	return req.StaffIDs, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if !req.keepsStaff() && !req.isAnyStaff() {
		for _, id := range req.StaffIDs {
			if id <= 0 {
				return fmt.Errorf("%w: invalid staff id %d", ErrInvalidInput, id)
			}
		}
	}
	return nil
}
