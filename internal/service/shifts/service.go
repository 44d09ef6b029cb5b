package shifts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	shiftRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/shift"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/shifts/models"
)

const maxFlexibleShiftDuration = 24 * time.Hour

// Service управление расписанием сотрудников: шаблон недели, исключения, гибкие смены
type Service struct {
	shiftRepo    ShiftRepository
	detector     ConflictDetector
	txManager    TransactionManager
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	shiftRepo ShiftRepository,
	detector ConflictDetector,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		shiftRepo:    shiftRepo,
		detector:     detector,
		txManager:    txManager,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetDefaultShifts возвращает недельный шаблон сотрудника (всегда 7 дней)
func (s *Service) GetDefaultShifts(ctx context.Context, staffID int64) (*models.DefaultShiftsResponse, error) {
	if staffID <= 0 {
		return nil, fmt.Errorf("%w: staff id must be positive", ErrInvalidInput)
	}

	shifts, err := s.shiftRepo.GetDefaultShifts(ctx, staffID)
	if err != nil {
		s.logger.Error("GetDefaultShifts: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetDefaultShifts - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainDefaultShifts(staffID, shifts), nil
}

// UpdateDefaultShifts заменяет переданные дни недельного шаблона
func (s *Service) UpdateDefaultShifts(ctx context.Context, req *models.UpdateDefaultShiftsRequest) (*models.DefaultShiftsResponse, error) {
	s.logger.Info("UpdateDefaultShifts: staff=%d, days=%d", req.StaffID, len(req.Shifts))

	if req.StaffID <= 0 || len(req.Shifts) == 0 || len(req.Shifts) > domain.DaysInWeek {
		s.logger.Warn("UpdateDefaultShifts: invalid request for staff=%d", req.StaffID)
		return nil, fmt.Errorf("%w: staff id and 1..7 shifts are required", ErrInvalidInput)
	}

	seen := make(map[int]struct{}, len(req.Shifts))
	shifts := make([]domain.DefaultShift, 0, len(req.Shifts))
	for _, in := range req.Shifts {
		if _, ok := seen[in.Weekday]; ok {
			return nil, fmt.Errorf("%w: weekday %d listed twice", ErrInvalidInput, in.Weekday)
		}
		seen[in.Weekday] = struct{}{}

		shift := domain.DefaultShift{
			StaffID:   req.StaffID,
			Weekday:   in.Weekday,
			IsActive:  in.IsActive,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
		}
		if !shift.IsActive {
			shift.StartTime, shift.EndTime = "", ""
		}
		if err := shift.Validate(); err != nil {
			s.logger.Warn("UpdateDefaultShifts: validation failed for staff=%d: %v", req.StaffID, err)
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := s.shiftRepo.UpsertDefaultShifts(ctx, shifts); err != nil {
		s.logger.Error("UpdateDefaultShifts: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: UpdateDefaultShifts - repository error: %v", ErrInternal, err)
	}

	return s.GetDefaultShifts(ctx, req.StaffID)
}

// CreateOverride создает исключение из расписания.
// Записи, оказавшиеся вне рабочего времени, возвращаются как предупреждения и не блокируют создание.
func (s *Service) CreateOverride(ctx context.Context, req *models.CreateOverrideRequest) (*models.CreateOverrideResponse, error) {
	s.logger.Info("CreateOverride: staff=%d, date=%s, kind=%s", req.StaffID, req.Date, req.Kind)

	if req.StaffID <= 0 {
		return nil, fmt.Errorf("%w: staff id must be positive", ErrInvalidInput)
	}
	date, err := time.ParseInLocation(domain.DateFormat, req.Date, s.location)
	if err != nil {
		s.logger.Warn("CreateOverride: invalid date=%s: %v", req.Date, err)
		return nil, ErrInvalidDate
	}

	override := &domain.ScheduleOverride{
		StaffID:   req.StaffID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Kind:      domain.OverrideKind(req.Kind),
		Note:      req.Note,
		CreatedBy: req.CreatedBy,
	}
	if err := override.Validate(); err != nil {
		s.logger.Warn("CreateOverride: validation failed: %v", err)
		return nil, err
	}

	created, err := s.shiftRepo.CreateOverride(ctx, override)
	if err != nil {
		s.logger.Error("CreateOverride: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: CreateOverride - repository error: %v", ErrInternal, err)
	}

	warnings, err := s.orphanedAppointments(ctx, created)
	if err != nil {
		return nil, err
	}
	if len(warnings) > 0 {
		s.logger.Warn("CreateOverride: override id=%d leaves %d appointments outside working hours",
			created.ID, len(warnings))
	}

	return &models.CreateOverrideResponse{
		Override: models.FromDomainOverride(created),
		Warnings: warnings,
	}, nil
}

// ListOverrides исключения сотрудника в диапазоне дат (включительно)
func (s *Service) ListOverrides(ctx context.Context, staffID int64, from, to time.Time) ([]models.OverrideResponse, error) {
	if staffID <= 0 {
		return nil, fmt.Errorf("%w: staff id must be positive", ErrInvalidInput)
	}
	if to.Before(from) || to.Sub(from) > domain.MaxLookupDays*24*time.Hour {
		return nil, ErrInvalidTimeRange
	}

	overrides, err := s.shiftRepo.ListOverrides(ctx, staffID, from, to)
	if err != nil {
		s.logger.Error("ListOverrides: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: ListOverrides - repository error: %v", ErrInternal, err)
	}

	result := make([]models.OverrideResponse, 0, len(overrides))
	for i := range overrides {
		result = append(result, models.FromDomainOverride(&overrides[i]))
	}
	return result, nil
}

// SubmitFlexibleShift создает гибкую смену в статусе pending
func (s *Service) SubmitFlexibleShift(ctx context.Context, req *models.SubmitFlexibleShiftRequest) (*models.FlexibleShiftResponse, error) {
	s.logger.Info("SubmitFlexibleShift: staff=%d, start=%s, end=%s",
		req.StaffID, req.StartTime.Format(time.RFC3339), req.EndTime.Format(time.RFC3339))

	if req.StaffID <= 0 {
		return nil, fmt.Errorf("%w: staff id must be positive", ErrInvalidInput)
	}
	interval, err := domain.NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if interval.Duration() > maxFlexibleShiftDuration {
		return nil, fmt.Errorf("%w: flexible shift longer than %s", ErrInvalidTimeRange, maxFlexibleShiftDuration)
	}

	created, err := s.shiftRepo.CreateFlexibleShift(ctx, &domain.FlexibleShift{
		StaffID:   req.StaffID,
		StartTime: interval.Start,
		EndTime:   interval.End,
		Status:    domain.FlexibleShiftPending,
	})
	if err != nil {
		s.logger.Error("SubmitFlexibleShift: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: SubmitFlexibleShift - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SubmitFlexibleShift: created flexible shift id=%d", created.ID)
	return models.FromDomainFlexibleShift(created), nil
}

// ListFlexibleShifts список гибких смен по фильтру
func (s *Service) ListFlexibleShifts(ctx context.Context, req *models.ListFlexibleShiftsRequest) ([]*models.FlexibleShiftResponse, error) {
	filter := shiftRepo.FlexibleShiftFilter{
		StaffID: req.StaffID,
		From:    req.From,
		To:      req.To,
	}
	if req.Status != nil {
		status := domain.FlexibleShiftStatus(*req.Status)
		switch status {
		case domain.FlexibleShiftPending, domain.FlexibleShiftApproved, domain.FlexibleShiftRejected:
			filter.Status = &status
		default:
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
	}

	shifts, err := s.shiftRepo.ListFlexibleShifts(ctx, filter)
	if err != nil {
		s.logger.Error("ListFlexibleShifts: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListFlexibleShifts - repository error: %v", ErrInternal, err)
	}

	result := make([]*models.FlexibleShiftResponse, 0, len(shifts))
	for i := range shifts {
		result = append(result, models.FromDomainFlexibleShift(&shifts[i]))
	}
	return result, nil
}

// DecideFlexibleShift одобряет или отклоняет гибкую смену в статусе pending
func (s *Service) DecideFlexibleShift(ctx context.Context, req *models.DecideFlexibleShiftRequest) (*models.FlexibleShiftResponse, error) {
	s.logger.Info("DecideFlexibleShift: shift id=%d, approve=%t, by=%d", req.ShiftID, req.Approve, req.DecidedBy)

	status := domain.FlexibleShiftRejected
	if req.Approve {
		status = domain.FlexibleShiftApproved
	}

	var result *domain.FlexibleShift
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		shift, err := s.getFlexibleShift(txCtx, req.ShiftID)
		if err != nil {
			return err
		}
		if !shift.CanBeDecided() {
			s.logger.Warn("DecideFlexibleShift: shift id=%d already %s", shift.ID, shift.Status)
			return ErrAlreadyDecided
		}

		err = s.shiftRepo.DecideFlexibleShift(txCtx, shift.ID, status, req.DecidedBy, s.timeProvider.Now())
		if err != nil {
			if errors.Is(err, shiftRepo.ErrAlreadyDecided) {
				return ErrAlreadyDecided
			}
			s.logger.Error("DecideFlexibleShift: repository error for shift id=%d: %v", shift.ID, err)
			return fmt.Errorf("%w: DecideFlexibleShift - repository error: %v", ErrInternal, err)
		}

		result, err = s.getFlexibleShift(txCtx, shift.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("DecideFlexibleShift: shift id=%d is %s", result.ID, result.Status)
	return models.FromDomainFlexibleShift(result), nil
}

func (s *Service) getFlexibleShift(ctx context.Context, id int64) (*domain.FlexibleShift, error) {
	shift, err := s.shiftRepo.GetFlexibleShift(ctx, id)
	if err != nil {
		if errors.Is(err, shiftRepo.ErrFlexibleShiftNotFound) {
			s.logger.Warn("DecideFlexibleShift: shift id=%d not found", id)
			return nil, ErrFlexibleShiftNotFound
		}
		s.logger.Error("DecideFlexibleShift: repository error for shift id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: DecideFlexibleShift - repository error: %v", ErrInternal, err)
	}
	return shift, nil
}

// orphanedAppointments активные записи, которые исключение оставляет вне рабочего времени
func (s *Service) orphanedAppointments(ctx context.Context, o *domain.ScheduleOverride) ([]models.OrphanedAppointment, error) {
	var affected domain.Interval
	switch o.Kind {
	case domain.OverrideWork:
		affected = domain.DayBounds(o.Date)
	case domain.OverrideDayOff, domain.OverrideBlock:
		affected = o.Window()
	default:
		return []models.OrphanedAppointment{}, nil
	}

	conflicts, err := s.detector.FindConflicts(ctx, o.StaffID, affected, nil)
	if err != nil {
		s.logger.Error("CreateOverride: conflict detection failed for staff=%d: %v", o.StaffID, err)
		return nil, fmt.Errorf("%w: CreateOverride - conflict detection: %v", ErrInternal, err)
	}

	result := make([]models.OrphanedAppointment, 0, len(conflicts))
	for _, c := range conflicts {
		if c.Kind != domain.ConflictAppointment {
			continue
		}
		if o.Kind == domain.OverrideWork && o.Window().Contains(c.Interval()) {
			continue
		}
		result = append(result, models.OrphanedAppointment{
			AppointmentID: c.ID,
			StartTime:     c.Start,
			EndTime:       c.End,
			Status:        c.Status,
		})
	}
	return result, nil
}
