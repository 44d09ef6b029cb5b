package booking_flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/appointment"
	draftRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/draft"
	catalogClient "github.com/m04kA/SMC-SalonScheduling/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonScheduling/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SalonScheduling/internal/usecase/reschedule_appointment"
)

// UseCase пошаговое бронирование: услуга -> мастер -> время -> клиент -> подтверждение.
// Черновик хранится в Redis; в базу пишется только подтверждение.
type UseCase struct {
	draftRepo     DraftRepository
	appointments  AppointmentReader
	availability  AvailabilityChecker
	catalogClient CatalogServiceClient
	creator       AppointmentCreator
	rescheduler   AppointmentRescheduler
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	draftRepo DraftRepository,
	appointments AppointmentReader,
	availability AvailabilityChecker,
	catalogClient CatalogServiceClient,
	creator AppointmentCreator,
	rescheduler AppointmentRescheduler,
	logger Logger,
) *UseCase {
	return &UseCase{
		draftRepo:     draftRepo,
		appointments:  appointments,
		availability:  availability,
		catalogClient: catalogClient,
		creator:       creator,
		rescheduler:   rescheduler,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Start создает черновик. С serviceId начинаем с выбора мастера,
// с rescheduleId черновик заполняется из существующей записи.
func (uc *UseCase) Start(ctx context.Context, req *StartRequest) (*DraftResponse, error) {
	now := uc.timeProvider.Now()
	d := domain.NewBookingDraft(uuid.NewString(), now)

	switch {
	case req.RescheduleID != nil:
		prefilled, err := uc.prefillReschedule(ctx, d, *req.RescheduleID, now)
		if err != nil {
			return nil, err
		}
		d = prefilled
	case req.ServiceID != nil:
		service, err := uc.getService(ctx, *req.ServiceID)
		if err != nil {
			return nil, err
		}
		d, err = d.WithService(service.ID, service.DurationMinutes, now)
		if err != nil {
			return nil, err
		}
	}

	if err := uc.save(ctx, d); err != nil {
		return nil, err
	}

	uc.logger.Info("BookingDraft: started id=%s at stage %s", d.ID, d.Stage)
	return FromDomainDraft(d), nil
}

// Get возвращает черновик
func (uc *UseCase) Get(ctx context.Context, draftID string) (*DraftResponse, error) {
	d, err := uc.load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return FromDomainDraft(d), nil
}

// SetService выбирает услугу. Мастер, который ее не выполняет, сбрасывается.
func (uc *UseCase) SetService(ctx context.Context, draftID string, serviceID int64) (*DraftResponse, error) {
	return uc.update(ctx, draftID, func(d domain.BookingDraft, now time.Time) (domain.BookingDraft, error) {
		if d.IsReschedule() && d.ServiceID != nil && *d.ServiceID != serviceID {
			return d, ErrServiceLocked
		}

		service, err := uc.getService(ctx, serviceID)
		if err != nil {
			return d, err
		}

		next, err := d.WithService(service.ID, service.DurationMinutes, now)
		if err != nil {
			return d, err
		}

		if next.TechnicianID != nil && !next.IsAnyTechnician() {
			qualified, err := uc.qualifiedStaff(ctx, service.ID)
			if err != nil {
				return d, err
			}
			if !contains(qualified, *next.TechnicianID) {
				uc.logger.Info("BookingDraft: id=%s technician=%d dropped after service change", d.ID, *next.TechnicianID)
				return next.WithoutTechnician(now), nil
			}
		}

		return uc.revalidateTime(ctx, next, now)
	})
}

// SetTechnician выбирает мастера или "любого". Ранее выбранное время сохраняется,
// если новый мастер в это время свободен, иначе возвращаемся к выбору времени.
func (uc *UseCase) SetTechnician(ctx context.Context, req *TechnicianRequest) (*DraftResponse, error) {
	return uc.update(ctx, req.DraftID, func(d domain.BookingDraft, now time.Time) (domain.BookingDraft, error) {
		if d.ServiceID == nil {
			return d.WithTechnician(req.StaffID, now)
		}

		if req.StaffID != domain.AnyStaff {
			qualified, err := uc.qualifiedStaff(ctx, *d.ServiceID)
			if err != nil {
				return d, err
			}
			if !contains(qualified, req.StaffID) {
				return d, fmt.Errorf("%w: staff id %d", ErrStaffNotQualified, req.StaffID)
			}
		}

		next, err := d.WithTechnician(req.StaffID, now)
		if err != nil {
			return d, err
		}
		return uc.revalidateTime(ctx, next, now)
	})
}

// SetTime выбирает время; занятое время отклоняется сразу
func (uc *UseCase) SetTime(ctx context.Context, req *TimeRequest) (*DraftResponse, error) {
	return uc.update(ctx, req.DraftID, func(d domain.BookingDraft, now time.Time) (domain.BookingDraft, error) {
		if req.StartTime.Before(now) {
			return d, ErrStartInPast
		}

		next, err := d.WithStartTime(req.StartTime, now)
		if err != nil {
			return d, err
		}

		if err := uc.checkTime(ctx, next); err != nil {
			return d, err
		}
		return next, nil
	})
}

// SetCustomer заполняет данные клиента
func (uc *UseCase) SetCustomer(ctx context.Context, req *CustomerRequest) (*DraftResponse, error) {
	return uc.update(ctx, req.DraftID, func(d domain.BookingDraft, now time.Time) (domain.BookingDraft, error) {
		return d.WithCustomer(req.CustomerID, req.GuestName, req.Notes, now)
	})
}

// Back возвращает к более раннему шагу без потери собранных данных
func (uc *UseCase) Back(ctx context.Context, req *BackRequest) (*DraftResponse, error) {
	return uc.update(ctx, req.DraftID, func(d domain.BookingDraft, now time.Time) (domain.BookingDraft, error) {
		return d.BackTo(domain.BookingStage(req.Stage), now)
	})
}

// Confirm единственная точка записи: создание или перенос записи.
// При ошибке черновик остается на шаге подтверждения с текстом ошибки.
func (uc *UseCase) Confirm(ctx context.Context, draftID string) (*models.AppointmentResponse, error) {
	d, err := uc.load(ctx, draftID)
	if err != nil {
		return nil, err
	}

	if err := d.ValidateComplete(); err != nil {
		uc.logger.Warn("BookingDraft: confirm id=%s incomplete: %v", d.ID, err)
		return nil, err
	}

	staffIDs := d.StaffIDs()

	var result *models.AppointmentResponse
	if d.IsReschedule() {
		req := &reschedule_appointment.Request{
			AppointmentID: *d.RescheduleID,
			StartTime:     *d.StartTime,
			StaffIDs:      staffIDs,
		}
		// мастер не менялся - переносим со всем прежним составом
		if d.KeepsRescheduleStaff() {
			req.StaffIDs = nil
		}
		result, err = uc.rescheduler.Execute(ctx, req)
	} else {
		result, err = uc.creator.Execute(ctx, &create_appointment.Request{
			CustomerID:       d.CustomerID,
			GuestName:        d.GuestName,
			ServiceID:        *d.ServiceID,
			StaffIDs:         staffIDs,
			StartTime:        *d.StartTime,
			PackageID:        d.PackageID,
			PackageSessionID: d.PackageSessionID,
			Notes:            d.Notes,
		})
	}

	if err != nil {
		uc.logger.Warn("BookingDraft: confirm id=%s failed: %v", d.ID, err)
		if saveErr := uc.save(ctx, d.WithError(err, uc.timeProvider.Now())); saveErr != nil {
			uc.logger.Error("BookingDraft: failed to keep error on draft id=%s: %v", d.ID, saveErr)
		}
		return nil, err
	}

	if err := uc.draftRepo.Delete(ctx, d.ID); err != nil {
		uc.logger.Warn("BookingDraft: failed to delete confirmed draft id=%s: %v", d.ID, err)
	}

	uc.logger.Info("BookingDraft: id=%s confirmed as appointment id=%d", d.ID, result.ID)
	return result, nil
}

func (uc *UseCase) update(
	ctx context.Context,
	draftID string,
	fn func(d domain.BookingDraft, now time.Time) (domain.BookingDraft, error),
) (*DraftResponse, error) {
	d, err := uc.load(ctx, draftID)
	if err != nil {
		return nil, err
	}

	next, err := fn(d, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Warn("BookingDraft: id=%s update rejected at stage %s: %v", d.ID, d.Stage, err)
		return nil, err
	}

	if err := uc.save(ctx, next); err != nil {
		return nil, err
	}

	uc.logger.Info("BookingDraft: id=%s now at stage %s", next.ID, next.Stage)
	return FromDomainDraft(next), nil
}

// prefillReschedule заполняет черновик из записи, включая мастеров и привязку к пакету
func (uc *UseCase) prefillReschedule(ctx context.Context, d domain.BookingDraft, appointmentID int64, now time.Time) (domain.BookingDraft, error) {
	appt, err := uc.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return d, ErrAppointmentNotFound
		}
		uc.logger.Error("BookingDraft: failed to get appointment id=%d: %v", appointmentID, err)
		return d, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	if !appt.CanBeRescheduled() {
		return d, ErrNotReschedulable
	}

	return d.WithReschedule(appt, now)
}

// revalidateTime сбрасывает выбранное время, если мастер в него больше не свободен
func (uc *UseCase) revalidateTime(ctx context.Context, d domain.BookingDraft, now time.Time) (domain.BookingDraft, error) {
	if d.StartTime == nil || !d.HasTechnician() {
		return d, nil
	}

	err := uc.checkTime(ctx, d)
	if err == nil {
		return d, nil
	}
	if errors.Is(err, domain.ErrConflict) {
		uc.logger.Info("BookingDraft: id=%s time invalidated: %v", d.ID, err)
		return d.WithoutStartTime(now), nil
	}
	return d, err
}

// checkTime проверяет, что выбранные мастера (или хотя бы один подходящий) свободны
func (uc *UseCase) checkTime(ctx context.Context, d domain.BookingDraft) error {
	interval, ok := d.Interval()
	if !ok {
		return nil
	}

	var err error
	if d.IsAnyTechnician() {
		var qualified []int64
		qualified, err = uc.qualifiedStaff(ctx, *d.ServiceID)
		if err != nil {
			return err
		}
		_, err = uc.availability.PickStaff(ctx, qualified, interval, d.RescheduleID)
	} else {
		err = uc.availability.CheckAvailability(ctx, d.StaffIDs(), interval, d.RescheduleID)
	}

	if err != nil && !errors.Is(err, domain.ErrConflict) && !errors.Is(err, domain.ErrValidation) {
		uc.logger.Error("BookingDraft: availability check failed for draft id=%s: %v", d.ID, err)
		return fmt.Errorf("%w: availability check: %v", ErrInternal, err)
	}
	return err
}

func (uc *UseCase) getService(ctx context.Context, serviceID int64) (*catalogClient.Service, error) {
	service, err := uc.catalogClient.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("BookingDraft: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		return nil, ErrServiceNotFound
	}
	return service, nil
}

func (uc *UseCase) qualifiedStaff(ctx context.Context, serviceID int64) ([]int64, error) {
	staff, err := uc.catalogClient.ListQualifiedStaff(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("BookingDraft: failed to get qualified staff for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get qualified staff: %v", ErrInternal, err)
	}
	return staff, nil
}

func (uc *UseCase) load(ctx context.Context, draftID string) (domain.BookingDraft, error) {
	if draftID == "" {
		return domain.BookingDraft{}, fmt.Errorf("%w: draft id is required", ErrInvalidInput)
	}

	d, err := uc.draftRepo.Get(ctx, draftID)
	if err != nil {
		if errors.Is(err, draftRepo.ErrDraftNotFound) {
			return d, ErrDraftNotFound
		}
		uc.logger.Error("BookingDraft: failed to load id=%s: %v", draftID, err)
		return d, fmt.Errorf("%w: failed to load draft: %v", ErrInternal, err)
	}
	return d, nil
}

func (uc *UseCase) save(ctx context.Context, d domain.BookingDraft) error {
	if err := uc.draftRepo.Save(ctx, d); err != nil {
		uc.logger.Error("BookingDraft: failed to save id=%s: %v", d.ID, err)
		return fmt.Errorf("%w: failed to save draft: %v", ErrInternal, err)
	}
	return nil
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
