package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/pgerr"
	catalogClient "github.com/m04kA/SMC-SalonScheduling/internal/integrations/catalogservice"
	customerClient "github.com/m04kA/SMC-SalonScheduling/internal/integrations/customerservice"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments/models"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	assigner        StaffAssigner
	catalogClient   CatalogServiceClient
	customerClient  CustomerServiceClient
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
	customerClient CustomerServiceClient,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		assigner:        assigner,
		catalogClient:   catalogClient,
		customerClient:  customerClient,
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

// Execute выполняет use case создания записи.
// Проверка конфликтов и вставка выполняются в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.AppointmentResponse, error) {
	uc.logger.Info("CreateAppointment: service=%d, staff=%v, customer=%v, start=%s",
		req.ServiceID, req.StaffIDs, req.CustomerID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Запись в прошлое невозможна
	now := uc.timeProvider.Now()
	if req.StartTime.Before(now) {
		uc.logger.Warn("CreateAppointment: start %s is before now", req.StartTime.Format(time.RFC3339))
		return nil, ErrStartInPast
	}

	// 3. Получаем услугу и мастеров, которые ее выполняют
	service, err := uc.getService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	qualified, err := uc.catalogClient.ListQualifiedStaff(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get qualified staff for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get qualified staff: %v", ErrInternal, err)
	}

	candidates, err := resolveCandidates(req, qualified)
	if err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	// 4. Проверяем клиента (при недоступности CustomerService запись создается без проверки)
	if err := uc.checkCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	// 5. Пакет процедур
	paymentStatus := domain.PaymentUnpaid
	if req.PackageID != nil {
		if err := uc.checkPackage(ctx, *req.PackageID, *req.CustomerID, service.ID); err != nil {
			return nil, err
		}
		paymentStatus = domain.PaymentPackage
	}

	interval := domain.Interval{
		Start: req.StartTime,
		End:   req.StartTime.Add(time.Duration(service.DurationMinutes) * time.Minute),
	}

	var result *domain.Appointment

	// 6. Проверка конфликтов и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		staffIDs := candidates
		if req.IsAnyStaff() {
			staffID, err := uc.assigner.PickStaff(txCtx, candidates, interval, nil)
			if err != nil {
				return err
			}
			staffIDs = []int64{staffID}
		} else if err := uc.assigner.CheckAvailability(txCtx, staffIDs, interval, nil); err != nil {
			return err
		}

		appt := &domain.Appointment{
			CustomerID:       req.CustomerID,
			GuestName:        req.GuestName,
			ServiceID:        service.ID,
			StaffIDs:         staffIDs,
			StartTime:        interval.Start,
			EndTime:          interval.End,
			Status:           domain.StatusUpcoming,
			PaymentStatus:    paymentStatus,
			PackageID:        req.PackageID,
			PackageSessionID: req.PackageSessionID,
			Notes:            req.Notes,
		}
		if err := appt.Validate(); err != nil {
			return err
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrStaffBusy) {
				return domain.NewConflictError("staff was booked by a concurrent request", nil)
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	// 40001 при COMMIT: слот занят параллельной записью
	if err != nil && pgerr.IsRetryable(err) {
		err = domain.NewConflictError("staff was booked by a concurrent request", nil)
	}

	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			uc.logger.Warn("CreateAppointment: conflict: %v", err)
			uc.metrics.ObserveBookingConflict(conflictSource(err))
		}
		return nil, err
	}

	mode := modeStaff
	if req.IsAnyStaff() {
		mode = modeAny
	}
	uc.metrics.ObserveAppointmentCreated(mode)

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d, staff=%v", result.ID, result.StaffIDs)
	return models.FromDomainAppointment(result), nil
}

func (uc *UseCase) getService(ctx context.Context, serviceID int64) (*catalogClient.Service, error) {
	service, err := uc.catalogClient.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", serviceID)
		return nil, ErrServiceNotFound
	}
	return service, nil
}

func (uc *UseCase) checkCustomer(ctx context.Context, customerID *int64) error {
	if customerID == nil {
		return nil
	}

	customer, err := uc.customerClient.GetCustomerWithGracefulDegradation(ctx, *customerID)
	if err != nil {
		if errors.Is(err, customerClient.ErrCustomerNotFound) {
			uc.logger.Warn("CreateAppointment: customer id=%d not found", *customerID)
			return ErrCustomerNotFound
		}
		if errors.Is(err, customerClient.ErrServiceDegraded) {
			uc.logger.Warn("CreateAppointment: customer id=%d not verified: %v", *customerID, err)
			return nil
		}
		uc.logger.Error("CreateAppointment: failed to get customer id=%d: %v", *customerID, err)
		return fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}
	if !customer.IsActive {
		uc.logger.Warn("CreateAppointment: customer id=%d is inactive", *customerID)
		return ErrCustomerNotFound
	}
	return nil
}

func (uc *UseCase) checkPackage(ctx context.Context, packageID, customerID, serviceID int64) error {
	pkg, err := uc.catalogClient.GetPackage(ctx, packageID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrPackageNotFound) {
			uc.logger.Warn("CreateAppointment: package id=%d not found", packageID)
			return ErrPackageNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get package id=%d: %v", packageID, err)
		return fmt.Errorf("%w: failed to get package: %v", ErrInternal, err)
	}
	if err := validatePackage(pkg, customerID, serviceID); err != nil {
		uc.logger.Warn("CreateAppointment: package id=%d rejected: %v", packageID, err)
		return err
	}
	return nil
}
