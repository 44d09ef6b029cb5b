package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	catalogClient "github.com/m04kA/SMC-SalonScheduling/internal/integrations/catalogservice"
)

// UseCase use case для получения доступных слотов
type UseCase struct {
	scheduleService    ScheduleService
	catalogClient      CatalogServiceClient
	defaultGranularity int
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleService ScheduleService,
	catalogClient CatalogServiceClient,
	defaultGranularity int,
	logger Logger,
) *UseCase {
	if defaultGranularity <= 0 {
		defaultGranularity = domain.DefaultSlotGranularityMinutes
	}
	return &UseCase{
		scheduleService:    scheduleService,
		catalogClient:      catalogClient,
		defaultGranularity: defaultGranularity,
		logger:             logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: staff=%d, service=%v, date=%s",
		req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем длительность
	duration, err := uc.resolveDuration(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Определяем мастеров
	staffIDs, err := uc.resolveStaff(ctx, req)
	if err != nil {
		return nil, err
	}

	response := &Response{
		Date:            req.Date,
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		DurationMinutes: duration,
		Slots:           []Slot{},
	}
	if len(staffIDs) == 0 {
		uc.logger.Warn("GetAvailableSlots: no qualified staff for service=%v", req.ServiceID)
		return response, nil
	}

	granularity := req.GranularityMinutes
	if granularity == 0 {
		granularity = uc.defaultGranularity
	}

	// 4. Считаем слоты
	slots, err := uc.scheduleService.GetAvailableSlotsAny(ctx, staffIDs, req.Date, duration, granularity)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			uc.logger.Warn("GetAvailableSlots: invalid parameters: %v", err)
			return nil, err
		}
		uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	response.Slots = toResponseSlots(slots)
	uc.logger.Info("GetAvailableSlots: found %d slots for staff=%v", len(response.Slots), staffIDs)
	return response, nil
}

func (uc *UseCase) resolveDuration(ctx context.Context, req *Request) (int, error) {
	if req.DurationMinutes != nil {
		return *req.DurationMinutes, nil
	}

	service, err := uc.catalogClient.GetService(ctx, *req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", *req.ServiceID)
			return 0, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *req.ServiceID, err)
		return 0, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", service.ID)
		return 0, ErrServiceNotFound
	}
	return service.DurationMinutes, nil
}

func (uc *UseCase) resolveStaff(ctx context.Context, req *Request) ([]int64, error) {
	if req.ServiceID == nil {
		return []int64{req.StaffID}, nil
	}

	qualified, err := uc.catalogClient.ListQualifiedStaff(ctx, *req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get qualified staff for service id=%d: %v", *req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get qualified staff: %v", ErrInternal, err)
	}

	if req.StaffID == domain.AnyStaff {
		return qualified, nil
	}
	if !containsStaff(qualified, req.StaffID) {
		uc.logger.Warn("GetAvailableSlots: staff=%d is not qualified for service id=%d", req.StaffID, *req.ServiceID)
		return nil, ErrStaffNotQualified
	}
	return []int64{req.StaffID}, nil
}
