package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	shiftRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/shift"
	timeoffRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/timeoff"
	"github.com/m04kA/SMC-SalonScheduling/pkg/ptr"
)

// occupyingStatuses статусы записей, вычитаемые из доступности
var occupyingStatuses = []domain.AppointmentStatus{
	domain.StatusUpcoming,
	domain.StatusCheckedIn,
	domain.StatusInProgress,
	domain.StatusPaused,
	domain.StatusCompleted,
}

// Service рабочее время сотрудников и свободные слоты
type Service struct {
	shiftRepo       ShiftRepository
	appointmentRepo AppointmentRepository
	timeOffRepo     TimeOffRepository
	resolver        *Resolver
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	shiftRepo ShiftRepository,
	appointmentRepo AppointmentRepository,
	timeOffRepo TimeOffRepository,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		shiftRepo:       shiftRepo,
		appointmentRepo: appointmentRepo,
		timeOffRepo:     timeOffRepo,
		resolver:        NewResolver(),
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Location часовой пояс салона
func (s *Service) Location() *time.Location {
	return s.location
}

// LocalDay календарная дата date как полночь в часовом поясе салона
func (s *Service) LocalDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.location)
}

// ResolveDaySchedule возвращает рабочие окна сотрудника на дату
func (s *Service) ResolveDaySchedule(ctx context.Context, staffID int64, date time.Time) ([]domain.Interval, error) {
	if staffID <= 0 {
		return nil, ErrInvalidStaffID
	}
	day := s.LocalDay(date)

	input, err := s.loadDay(ctx, staffID, day)
	if err != nil {
		return nil, err
	}

	windows := s.resolver.Resolve(input)
	s.logger.Info("ResolveDaySchedule: staff=%d, date=%s, windows=%d",
		staffID, day.Format(domain.DateFormat), len(windows))
	return windows, nil
}

// FreeWindows рабочие окна за вычетом записей и заявок на отсутствие
func (s *Service) FreeWindows(ctx context.Context, staffID int64, date time.Time) ([]domain.Interval, error) {
	return s.freeWindows(ctx, staffID, date, nil)
}

// IsFree проверяет, что интервал целиком лежит в одном свободном окне сотрудника.
// Свободные окна считаются так же, как для списка слотов; запись excludeAppointmentID не учитывается.
func (s *Service) IsFree(ctx context.Context, staffID int64, interval domain.Interval, excludeAppointmentID *int64) (bool, error) {
	free, err := s.freeWindows(ctx, staffID, interval.Start.In(s.location), excludeAppointmentID)
	if err != nil {
		return false, err
	}
	for _, w := range free {
		if w.Contains(interval) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) freeWindows(ctx context.Context, staffID int64, date time.Time, excludeAppointmentID *int64) ([]domain.Interval, error) {
	windows, err := s.ResolveDaySchedule(ctx, staffID, date)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return windows, nil
	}

	day := domain.DayBounds(s.LocalDay(date))

	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		StaffIDs: []int64{staffID},
		From:     ptr.Ptr(day.Start),
		To:       ptr.Ptr(day.End),
		Statuses: occupyingStatuses,
	})
	if err != nil {
		s.logger.Error("FreeWindows: failed to list appointments for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: FreeWindows - appointment repository error: %v", ErrInternal, err)
	}

	requests, err := s.timeOffRepo.List(ctx, timeoffRepo.Filter{
		StaffIDs: []int64{staffID},
		From:     ptr.Ptr(day.Start),
		To:       ptr.Ptr(day.End),
		Statuses: []domain.TimeOffStatus{domain.TimeOffPending, domain.TimeOffApproved},
	})
	if err != nil {
		s.logger.Error("FreeWindows: failed to list time-off for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: FreeWindows - time-off repository error: %v", ErrInternal, err)
	}

	busy := make([]domain.Interval, 0, len(appointments)+len(requests))
	for _, a := range appointments {
		if excludeAppointmentID != nil && a.ID == *excludeAppointmentID {
			continue
		}
		if a.Status.OccupiesTime() {
			busy = append(busy, a.Interval())
		}
	}
	for _, r := range requests {
		if r.BlocksAvailability() {
			busy = append(busy, r.Interval())
		}
	}

	return domain.SubtractIntervals(windows, busy), nil
}

// GetAvailableSlots свободные слоты одного сотрудника
func (s *Service) GetAvailableSlots(ctx context.Context, staffID int64, date time.Time, durationMinutes, granularityMinutes int) ([]domain.Slot, error) {
	return s.GetAvailableSlotsAny(ctx, []int64{staffID}, date, durationMinutes, granularityMinutes)
}

// GetAvailableSlotsAny объединение слотов нескольких сотрудников.
// Для каждого слота перечислены свободные сотрудники, слоты отсортированы по началу.
func (s *Service) GetAvailableSlotsAny(ctx context.Context, staffIDs []int64, date time.Time, durationMinutes, granularityMinutes int) ([]domain.Slot, error) {
	if durationMinutes < domain.MinDurationMinutes || durationMinutes > domain.MaxDurationMinutes {
		return nil, ErrInvalidDuration
	}
	if granularityMinutes < domain.MinSlotGranularityMinutes || granularityMinutes > domain.MaxSlotGranularityMinutes {
		return nil, ErrInvalidGranularity
	}
	for _, id := range staffIDs {
		if id <= 0 {
			return nil, ErrInvalidStaffID
		}
	}

	duration := time.Duration(durationMinutes) * time.Minute
	step := time.Duration(granularityMinutes) * time.Minute
	now := s.timeProvider.Now()

	byStart := make(map[int64]*domain.Slot)
	for _, staffID := range staffIDs {
		free, err := s.FreeWindows(ctx, staffID, date)
		if err != nil {
			return nil, err
		}
		for _, slot := range GenerateSlots(free, duration, step, now) {
			key := slot.Start.UnixNano()
			existing, ok := byStart[key]
			if !ok {
				existing = &domain.Slot{Start: slot.Start, End: slot.End}
				byStart[key] = existing
			}
			existing.StaffIDs = append(existing.StaffIDs, staffID)
		}
	}

	slots := make([]domain.Slot, 0, len(byStart))
	for _, slot := range byStart {
		sort.Slice(slot.StaffIDs, func(i, j int) bool { return slot.StaffIDs[i] < slot.StaffIDs[j] })
		slots = append(slots, *slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })

	s.logger.Info("GetAvailableSlots: staff=%v, date=%s, duration=%d, slots=%d",
		staffIDs, s.LocalDay(date).Format(domain.DateFormat), durationMinutes, len(slots))
	return slots, nil
}

// IsWithinWorkingHours проверяет, что интервал целиком лежит в одном рабочем окне
func (s *Service) IsWithinWorkingHours(ctx context.Context, staffID int64, interval domain.Interval) (bool, error) {
	local := interval.Start.In(s.location)
	windows, err := s.ResolveDaySchedule(ctx, staffID, local)
	if err != nil {
		return false, err
	}
	for _, w := range windows {
		if w.Contains(interval) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) loadDay(ctx context.Context, staffID int64, day time.Time) (DayInput, error) {
	input := DayInput{Date: day}

	defaultShift, err := s.shiftRepo.GetDefaultShift(ctx, staffID, domain.ISOWeekday(day))
	if err != nil && !errors.Is(err, shiftRepo.ErrDefaultShiftNotFound) {
		s.logger.Error("ResolveDaySchedule: failed to get default shift for staff=%d: %v", staffID, err)
		return input, fmt.Errorf("%w: ResolveDaySchedule - default shift: %v", ErrInternal, err)
	}
	input.Default = defaultShift

	overrides, err := s.shiftRepo.ListOverrides(ctx, staffID, day, day)
	if err != nil {
		s.logger.Error("ResolveDaySchedule: failed to list overrides for staff=%d: %v", staffID, err)
		return input, fmt.Errorf("%w: ResolveDaySchedule - overrides: %v", ErrInternal, err)
	}
	input.Overrides = overrides

	bounds := domain.DayBounds(day)
	approved := domain.FlexibleShiftApproved
	flexible, err := s.shiftRepo.ListFlexibleShifts(ctx, shiftRepo.FlexibleShiftFilter{
		StaffID: ptr.Ptr(staffID),
		From:    ptr.Ptr(bounds.Start),
		To:      ptr.Ptr(bounds.End),
		Status:  &approved,
	})
	if err != nil {
		s.logger.Error("ResolveDaySchedule: failed to list flexible shifts for staff=%d: %v", staffID, err)
		return input, fmt.Errorf("%w: ResolveDaySchedule - flexible shifts: %v", ErrInternal, err)
	}
	input.Flexible = flexible

	return input, nil
}
