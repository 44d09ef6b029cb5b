package timetracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/pgerr"
	shiftRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/shift"
	timeentryRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/timeentry"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/timetracking/models"
	"github.com/m04kA/SMC-SalonScheduling/pkg/ptr"
)

// Service учет рабочего времени: отметки прихода и ухода сотрудников
type Service struct {
	entryRepo    TimeEntryRepository
	shiftRepo    FlexibleShiftRepository
	detector     ConflictDetector
	txManager    TransactionManager
	grace        time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса учета времени
func NewService(
	entryRepo TimeEntryRepository,
	shiftRepo FlexibleShiftRepository,
	detector ConflictDetector,
	txManager TransactionManager,
	grace time.Duration,
	logger Logger,
) *Service {
	return &Service{
		entryRepo:    entryRepo,
		shiftRepo:    shiftRepo,
		detector:     detector,
		txManager:    txManager,
		grace:        grace,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// CheckIn отмечает приход сотрудника на одобренную гибкую смену.
// Повторный вызов для той же смены возвращает уже открытую отметку.
func (s *Service) CheckIn(ctx context.Context, req *models.CheckRequest) (*models.TimeEntryResponse, error) {
	s.logger.Info("StaffCheckIn: staff=%d", req.StaffID)

	if req.StaffID <= 0 {
		return nil, fmt.Errorf("%w: staff id must be positive", ErrInvalidInput)
	}

	var result *domain.TimeEntry
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		now := s.timeProvider.Now()

		shift, err := s.CoveringShift(txCtx, req.StaffID, now)
		if err != nil {
			return err
		}
		if shift == nil {
			s.logger.Warn("StaffCheckIn: staff=%d has no approved shift at %s", req.StaffID, now.Format(time.RFC3339))
			return ErrNoShiftToCheckIn
		}

		if err := s.checkNotBlocked(txCtx, req.StaffID, now); err != nil {
			return err
		}

		entry, err := s.open(txCtx, req.StaffID, &shift.ID, now, req.Location)
		if err != nil {
			return err
		}
		result = entry
		return nil
	})
	if err != nil {
		return nil, s.concurrentChange("StaffCheckIn", req.StaffID, err)
	}

	s.logger.Info("StaffCheckIn: staff=%d, entry id=%d", req.StaffID, result.ID)
	return models.FromDomain(result), nil
}

// CheckOut закрывает открытую отметку сотрудника
func (s *Service) CheckOut(ctx context.Context, req *models.CheckRequest) (*models.TimeEntryResponse, error) {
	s.logger.Info("StaffCheckOut: staff=%d", req.StaffID)

	if req.StaffID <= 0 {
		return nil, fmt.Errorf("%w: staff id must be positive", ErrInvalidInput)
	}

	var result *domain.TimeEntry
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		now := s.timeProvider.Now()

		entry, err := s.getOpen(txCtx, req.StaffID)
		if err != nil {
			return err
		}
		if entry == nil {
			s.logger.Warn("StaffCheckOut: staff=%d has no open entry", req.StaffID)
			return ErrNoOpenTimeEntry
		}

		if err := s.close(txCtx, req.StaffID, now, req.Location); err != nil {
			return err
		}
		entry.CheckOutTime = &now
		entry.CheckOutLocation = req.Location
		result = entry
		return nil
	})
	if err != nil {
		return nil, s.concurrentChange("StaffCheckOut", req.StaffID, err)
	}

	return models.FromDomain(result), nil
}

// List отметки сотрудника за период
func (s *Service) List(ctx context.Context, staffID int64, from, to time.Time) ([]*models.TimeEntryResponse, error) {
	if staffID <= 0 || !from.Before(to) {
		return nil, fmt.Errorf("%w: staff id and a valid period are required", ErrInvalidInput)
	}

	entries, err := s.entryRepo.List(ctx, staffID, from, to)
	if err != nil {
		s.logger.Error("ListTimeEntries: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: ListTimeEntries - repository error: %v", ErrInternal, err)
	}

	result := make([]*models.TimeEntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, models.FromDomain(&entries[i]))
	}
	return result, nil
}

// OpenForAppointment открывает отметку при регистрации клиента на запись.
// Если сотрудник уже отметился на покрывающую смену, используется его открытая отметка.
func (s *Service) OpenForAppointment(ctx context.Context, staffID int64, at time.Time) (*domain.TimeEntry, error) {
	shift, err := s.CoveringShift(ctx, staffID, at)
	if err != nil {
		return nil, err
	}
	var scheduleID *int64
	if shift != nil {
		scheduleID = ptr.Ptr(shift.ID)
	}
	return s.open(ctx, staffID, scheduleID, at, nil)
}

// CloseForAppointment закрывает отметку, открытую регистрацией на запись.
// Отметка, привязанная к смене, остается открытой до ухода сотрудника.
func (s *Service) CloseForAppointment(ctx context.Context, staffID int64, at time.Time) error {
	entry, err := s.getOpen(ctx, staffID)
	if err != nil {
		return err
	}
	if entry == nil || entry.ScheduleID != nil {
		return nil
	}
	return s.close(ctx, staffID, at, nil)
}

// CoveringShift одобренная гибкая смена, открытая для отметки в момент at: [start - grace, end]
func (s *Service) CoveringShift(ctx context.Context, staffID int64, at time.Time) (*domain.FlexibleShift, error) {
	approved := domain.FlexibleShiftApproved
	shifts, err := s.shiftRepo.ListFlexibleShifts(ctx, shiftRepo.FlexibleShiftFilter{
		StaffID: ptr.Ptr(staffID),
		From:    ptr.Ptr(at.Add(-time.Minute)),
		To:      ptr.Ptr(at.Add(s.grace + time.Minute)),
		Status:  &approved,
	})
	if err != nil {
		s.logger.Error("CoveringShift: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: CoveringShift - repository error: %v", ErrInternal, err)
	}

	var best *domain.FlexibleShift
	for i := range shifts {
		shift := &shifts[i]
		if at.Before(shift.StartTime.Add(-s.grace)) || at.After(shift.EndTime) {
			continue
		}
		if best == nil || shift.StartTime.Before(best.StartTime) {
			best = shift
		}
	}
	return best, nil
}

// checkNotBlocked отклоняет отметку во время BLOCK или одобренного отсутствия
func (s *Service) checkNotBlocked(ctx context.Context, staffID int64, at time.Time) error {
	conflicts, err := s.detector.FindConflicts(ctx, staffID, domain.Interval{Start: at, End: at.Add(time.Minute)}, nil)
	if err != nil {
		s.logger.Error("StaffCheckIn: conflict detection failed for staff=%d: %v", staffID, err)
		return fmt.Errorf("%w: StaffCheckIn - conflict detection: %v", ErrInternal, err)
	}

	blocking := make([]domain.Conflict, 0, len(conflicts))
	for _, c := range conflicts {
		if c.Kind == domain.ConflictBlock || c.Kind == domain.ConflictTimeOff {
			blocking = append(blocking, c)
		}
	}
	if len(blocking) > 0 {
		s.logger.Warn("StaffCheckIn: staff=%d is blocked at %s", staffID, at.Format(time.RFC3339))
		return domain.NewConflictError("staff member is blocked or on time-off", blocking)
	}
	return nil
}

// open создает отметку; открытая отметка на ту же смену возвращается как есть
func (s *Service) open(ctx context.Context, staffID int64, scheduleID *int64, at time.Time, location *string) (*domain.TimeEntry, error) {
	existing, err := s.getOpen(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if scheduleID != nil && existing.ScheduleID != nil && *existing.ScheduleID == *scheduleID {
			return existing, nil
		}
		return nil, openEntryConflict(existing)
	}

	entry, err := s.entryRepo.Open(ctx, &domain.TimeEntry{
		StaffID:         staffID,
		ScheduleID:      scheduleID,
		CheckInTime:     at,
		CheckInLocation: location,
	})
	if err != nil {
		if errors.Is(err, timeentryRepo.ErrOpenEntryExists) {
			s.logger.Warn("OpenTimeEntry: staff=%d already has an open entry", staffID)
			return nil, domain.NewConflictError("staff member already checked in", []domain.Conflict{
				{Kind: domain.ConflictTimeEntry, StaffID: staffID, Start: at, End: at},
			})
		}
		s.logger.Error("OpenTimeEntry: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: OpenTimeEntry - repository error: %v", ErrInternal, err)
	}
	return entry, nil
}

func (s *Service) close(ctx context.Context, staffID int64, at time.Time, location *string) error {
	if err := s.entryRepo.Close(ctx, staffID, at, location); err != nil {
		if errors.Is(err, timeentryRepo.ErrNoOpenEntry) {
			return ErrNoOpenTimeEntry
		}
		s.logger.Error("CloseTimeEntry: repository error for staff=%d: %v", staffID, err)
		return fmt.Errorf("%w: CloseTimeEntry - repository error: %v", ErrInternal, err)
	}
	return nil
}

// getOpen возвращает открытую отметку или nil
func (s *Service) getOpen(ctx context.Context, staffID int64) (*domain.TimeEntry, error) {
	entry, err := s.entryRepo.GetOpen(ctx, staffID)
	if err != nil {
		if errors.Is(err, timeentryRepo.ErrNoOpenEntry) {
			return nil, nil
		}
		s.logger.Error("GetOpenTimeEntry: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetOpenTimeEntry - repository error: %v", ErrInternal, err)
	}
	return entry, nil
}

// concurrentChange переводит 40001/40P01 в конфликт: отметку изменил параллельный запрос
func (s *Service) concurrentChange(op string, staffID int64, err error) error {
	if !pgerr.IsRetryable(err) {
		return err
	}
	s.logger.Warn("%s: staff=%d serialization failure: %v", op, staffID, err)
	return domain.NewConflictError("time entry was changed by a concurrent request", []domain.Conflict{
		{Kind: domain.ConflictTimeEntry, StaffID: staffID},
	})
}

func openEntryConflict(entry *domain.TimeEntry) error {
	return domain.NewConflictError("staff member already checked in", []domain.Conflict{
		{
			Kind:    domain.ConflictTimeEntry,
			ID:      entry.ID,
			StaffID: entry.StaffID,
			Start:   entry.CheckInTime,
			End:     entry.CheckInTime,
		},
	})
}
