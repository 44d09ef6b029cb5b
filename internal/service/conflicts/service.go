package conflicts

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	timeoffRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/timeoff"
	"github.com/m04kA/SMC-SalonScheduling/pkg/ptr"
)

// Service детектор конфликтов: активные записи, BLOCK и одобренные отсутствия
type Service struct {
	appointmentRepo AppointmentRepository
	overrideRepo    OverrideRepository
	timeOffRepo     TimeOffRepository
	location        *time.Location
	logger          Logger
}

// NewService создает новый экземпляр детектора конфликтов
func NewService(
	appointmentRepo AppointmentRepository,
	overrideRepo OverrideRepository,
	timeOffRepo TimeOffRepository,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		overrideRepo:    overrideRepo,
		timeOffRepo:     timeOffRepo,
		location:        location,
		logger:          logger,
	}
}

// FindConflicts возвращает все элементы, пересекающиеся с интервалом для сотрудника.
// excludeAppointmentID исключает переносимую запись из проверки.
func (s *Service) FindConflicts(ctx context.Context, staffID int64, interval domain.Interval, excludeAppointmentID *int64) ([]domain.Conflict, error) {
	if staffID <= 0 {
		return nil, ErrInvalidStaffID
	}
	if interval.IsEmpty() {
		return nil, ErrInvalidInterval
	}

	appointments, err := s.appointmentConflicts(ctx, staffID, interval, excludeAppointmentID)
	if err != nil {
		return nil, err
	}
	blocks, err := s.blockConflicts(ctx, staffID, interval)
	if err != nil {
		return nil, err
	}
	timeOff, err := s.timeOffConflicts(ctx, staffID, interval)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Conflict, 0, len(appointments)+len(blocks)+len(timeOff))
	result = append(result, appointments...)
	result = append(result, blocks...)
	result = append(result, timeOff...)
	sort.SliceStable(result, func(i, j int) bool { return result[i].Start.Before(result[j].Start) })

	if len(result) > 0 {
		s.logger.Info("FindConflicts: staff=%d, interval=[%s, %s), conflicts=%d",
			staffID, interval.Start.Format(time.RFC3339), interval.End.Format(time.RFC3339), len(result))
	}
	return result, nil
}

// FindConflictsForStaff объединяет конфликты нескольких сотрудников одной записи
func (s *Service) FindConflictsForStaff(ctx context.Context, staffIDs []int64, interval domain.Interval, excludeAppointmentID *int64) ([]domain.Conflict, error) {
	var result []domain.Conflict
	for _, staffID := range staffIDs {
		found, err := s.FindConflicts(ctx, staffID, interval, excludeAppointmentID)
		if err != nil {
			return nil, err
		}
		result = append(result, found...)
	}
	return result, nil
}

func (s *Service) appointmentConflicts(ctx context.Context, staffID int64, interval domain.Interval, excludeID *int64) ([]domain.Conflict, error) {
	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		StaffIDs: []int64{staffID},
		From:     ptr.Ptr(interval.Start),
		To:       ptr.Ptr(interval.End),
		Statuses: domain.ActiveStatuses,
	})
	if err != nil {
		s.logger.Error("FindConflicts: failed to list appointments for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: FindConflicts - appointment repository error: %v", ErrInternal, err)
	}

	result := make([]domain.Conflict, 0, len(appointments))
	for _, a := range appointments {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if !a.Status.IsActive() || !a.Interval().Overlaps(interval) {
			continue
		}
		result = append(result, domain.Conflict{
			Kind:    domain.ConflictAppointment,
			ID:      a.ID,
			StaffID: staffID,
			Start:   a.StartTime,
			End:     a.EndTime,
			Status:  string(a.Status),
		})
	}
	return result, nil
}

func (s *Service) blockConflicts(ctx context.Context, staffID int64, interval domain.Interval) ([]domain.Conflict, error) {
	// Конец интервала не включается: запись до полуночи не затрагивает следующий день
	from := domain.DateOnly(interval.Start.In(s.location))
	to := domain.DateOnly(interval.End.Add(-time.Nanosecond).In(s.location))

	overrides, err := s.overrideRepo.ListOverrides(ctx, staffID, from, to)
	if err != nil {
		s.logger.Error("FindConflicts: failed to list overrides for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: FindConflicts - override repository error: %v", ErrInternal, err)
	}

	result := make([]domain.Conflict, 0)
	for _, o := range overrides {
		if o.Kind != domain.OverrideBlock {
			continue
		}
		w := o.Window()
		if !w.Overlaps(interval) {
			continue
		}
		result = append(result, domain.Conflict{
			Kind:    domain.ConflictBlock,
			ID:      o.ID,
			StaffID: staffID,
			Start:   w.Start,
			End:     w.End,
			Status:  string(o.Kind),
		})
	}
	return result, nil
}

func (s *Service) timeOffConflicts(ctx context.Context, staffID int64, interval domain.Interval) ([]domain.Conflict, error) {
	requests, err := s.timeOffRepo.List(ctx, timeoffRepo.Filter{
		StaffIDs: []int64{staffID},
		From:     ptr.Ptr(interval.Start),
		To:       ptr.Ptr(interval.End),
		Statuses: []domain.TimeOffStatus{domain.TimeOffApproved},
	})
	if err != nil {
		s.logger.Error("FindConflicts: failed to list time-off for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: FindConflicts - time-off repository error: %v", ErrInternal, err)
	}

	result := make([]domain.Conflict, 0, len(requests))
	for _, r := range requests {
		if r.Status != domain.TimeOffApproved || !r.Interval().Overlaps(interval) {
			continue
		}
		result = append(result, domain.Conflict{
			Kind:    domain.ConflictTimeOff,
			ID:      r.ID,
			StaffID: staffID,
			Start:   r.StartTime,
			End:     r.EndTime,
			Status:  string(r.Status),
		})
	}
	return result, nil
}
