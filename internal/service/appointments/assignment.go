package appointments

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// CheckAvailability проверяет, что все мастера свободны на интервале:
// интервал внутри рабочего окна, без активных записей, BLOCK и одобренных отсутствий
// и внутри свободного окна (как в списке слотов).
// Возвращает *domain.ConflictError со всеми найденными пересечениями.
func (s *Service) CheckAvailability(ctx context.Context, staffIDs []int64, interval domain.Interval, excludeAppointmentID *int64) error {
	var all []domain.Conflict
	for _, staffID := range staffIDs {
		conflicts, err := s.staffConflicts(ctx, staffID, interval, excludeAppointmentID)
		if err != nil {
			return err
		}
		all = append(all, conflicts...)
	}

	if len(all) > 0 {
		s.logger.Warn("CheckAvailability: staff=%v not available, %d conflicts", staffIDs, len(all))
		return domain.NewConflictError("requested time is not available", all)
	}
	return nil
}

// PickStaff выбирает свободного мастера из кандидатов: с наименьшим числом активных
// записей за день, при равенстве - с меньшим ID
func (s *Service) PickStaff(ctx context.Context, candidates []int64, interval domain.Interval, excludeAppointmentID *int64) (int64, error) {
	if len(candidates) == 0 {
		return 0, ErrNoCandidates
	}

	sorted := make([]int64, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var free []int64
	var all []domain.Conflict
	for _, staffID := range sorted {
		conflicts, err := s.staffConflicts(ctx, staffID, interval, excludeAppointmentID)
		if err != nil {
			return 0, err
		}
		if len(conflicts) == 0 {
			free = append(free, staffID)
			continue
		}
		all = append(all, conflicts...)
	}

	if len(free) == 0 {
		s.logger.Warn("PickStaff: none of %d candidates is free", len(sorted))
		return 0, domain.NewConflictError("no technician is available at the requested time", all)
	}

	day := domain.DayBounds(interval.Start.In(s.location))
	workload, err := s.appointmentRepo.CountActiveByStaff(ctx, free, day.Start, day.End)
	if err != nil {
		s.logger.Error("PickStaff: failed to count workload: %v", err)
		return 0, fmt.Errorf("%w: PickStaff - repository error: %v", ErrInternal, err)
	}

	best := free[0]
	for _, staffID := range free[1:] {
		if workload[staffID] < workload[best] {
			best = staffID
		}
	}

	s.logger.Info("PickStaff: picked staff=%d (workload=%d) from %d free candidates", best, workload[best], len(free))
	return best, nil
}

// staffConflicts конфликты одного мастера, включая выход за рабочее окно
func (s *Service) staffConflicts(ctx context.Context, staffID int64, interval domain.Interval, excludeAppointmentID *int64) ([]domain.Conflict, error) {
	within, err := s.workingHours.IsWithinWorkingHours(ctx, staffID, interval)
	if err != nil {
		s.logger.Error("CheckAvailability: failed to resolve schedule for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: CheckAvailability - schedule: %v", ErrInternal, err)
	}

	conflicts, err := s.detector.FindConflicts(ctx, staffID, interval, excludeAppointmentID)
	if err != nil {
		s.logger.Error("CheckAvailability: conflict detection failed for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: CheckAvailability - conflict detection: %v", ErrInternal, err)
	}

	if !within {
		conflicts = append(conflicts, domain.Conflict{
			Kind:    domain.ConflictOffShift,
			StaffID: staffID,
			Start:   interval.Start,
			End:     interval.End,
		})
		return conflicts, nil
	}
	if len(conflicts) > 0 {
		return conflicts, nil
	}

	// Мастер должен быть свободен по тем же правилам, что и в списке слотов
	free, err := s.workingHours.IsFree(ctx, staffID, interval, excludeAppointmentID)
	if err != nil {
		s.logger.Error("CheckAvailability: failed to resolve free windows for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: CheckAvailability - free windows: %v", ErrInternal, err)
	}
	if !free {
		conflicts = append(conflicts, domain.Conflict{
			Kind:    domain.ConflictUnavailable,
			StaffID: staffID,
			Start:   interval.Start,
			End:     interval.End,
		})
	}
	return conflicts, nil
}
