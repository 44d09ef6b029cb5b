package timeoff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	timeoffRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/timeoff"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/timeoff/models"
)

// Service заявки на отсутствие
type Service struct {
	repo         TimeOffRepository
	detector     ConflictDetector
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса заявок на отсутствие
func NewService(
	repo TimeOffRepository,
	detector ConflictDetector,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		detector:     detector,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Submit создает заявку в статусе PENDING и сохраняет конфликтующие записи на момент подачи.
// Заявка в статусе PENDING уже исключает интервал из доступных слотов.
func (s *Service) Submit(ctx context.Context, req *models.SubmitRequest) (*models.TimeOffResponse, error) {
	s.logger.Info("SubmitTimeOff: staff=%d, start=%s, end=%s",
		req.StaffID, req.StartTime.Format(time.RFC3339), req.EndTime.Format(time.RFC3339))

	if req.StaffID <= 0 {
		return nil, fmt.Errorf("%w: staff id must be positive", ErrInvalidInput)
	}
	reason := strings.TrimSpace(req.Reason)
	if len(reason) > domain.MaxTimeOffReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxTimeOffReasonLength)
	}
	interval, err := domain.NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.detector.FindConflicts(ctx, req.StaffID, interval, nil)
	if err != nil {
		s.logger.Error("SubmitTimeOff: conflict detection failed for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: SubmitTimeOff - conflict detection: %v", ErrInternal, err)
	}

	created, err := s.repo.Create(ctx, &domain.TimeOffRequest{
		StaffID:                   req.StaffID,
		StartTime:                 interval.Start,
		EndTime:                   interval.End,
		Reason:                    reason,
		Status:                    domain.TimeOffPending,
		ConflictingAppointmentIDs: domain.AppointmentIDs(conflicts),
	})
	if err != nil {
		s.logger.Error("SubmitTimeOff: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: SubmitTimeOff - repository error: %v", ErrInternal, err)
	}

	if len(created.ConflictingAppointmentIDs) > 0 {
		s.logger.Warn("SubmitTimeOff: request id=%d conflicts with appointments %v",
			created.ID, created.ConflictingAppointmentIDs)
	}
	return models.FromDomain(created), nil
}

// List список заявок по фильтру
func (s *Service) List(ctx context.Context, req *models.ListRequest) ([]*models.TimeOffResponse, error) {
	filter := timeoffRepo.Filter{From: req.From, To: req.To}
	if req.StaffID != nil {
		filter.StaffIDs = []int64{*req.StaffID}
	}
	if req.Status != nil {
		status := domain.TimeOffStatus(strings.ToUpper(*req.Status))
		switch status {
		case domain.TimeOffPending, domain.TimeOffApproved, domain.TimeOffRejected:
			filter.Statuses = []domain.TimeOffStatus{status}
		default:
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
	}

	requests, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListTimeOff: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListTimeOff - repository error: %v", ErrInternal, err)
	}

	result := make([]*models.TimeOffResponse, 0, len(requests))
	for i := range requests {
		result = append(result, models.FromDomain(&requests[i]))
	}
	return result, nil
}

// Approve одобряет заявку. Пока есть конфликтующие записи, одобрение отклоняется
// с ConflictError, если не передан Force.
func (s *Service) Approve(ctx context.Context, req *models.DecideRequest) (*models.TimeOffResponse, error) {
	s.logger.Info("ApproveTimeOff: request id=%d, by=%d, force=%t", req.RequestID, req.DecidedBy, req.Force)

	var result *domain.TimeOffRequest
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		request, err := s.getPending(txCtx, req.RequestID)
		if err != nil {
			return err
		}

		conflicts, err := s.detector.FindConflicts(txCtx, request.StaffID, request.Interval(), nil)
		if err != nil {
			s.logger.Error("ApproveTimeOff: conflict detection failed for request id=%d: %v", request.ID, err)
			return fmt.Errorf("%w: ApproveTimeOff - conflict detection: %v", ErrInternal, err)
		}
		ids := domain.AppointmentIDs(conflicts)
		if len(ids) > 0 && !req.Force {
			s.logger.Warn("ApproveTimeOff: request id=%d blocked by appointments %v", request.ID, ids)
			return domain.NewConflictError("time-off overlaps booked appointments", onlyAppointments(conflicts))
		}

		if err := s.decide(txCtx, request.ID, domain.TimeOffApproved, req.DecidedBy, ids); err != nil {
			return err
		}
		result, err = s.get(txCtx, request.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ApproveTimeOff: request id=%d approved", result.ID)
	return models.FromDomain(result), nil
}

// Reject отклоняет заявку
func (s *Service) Reject(ctx context.Context, req *models.DecideRequest) (*models.TimeOffResponse, error) {
	s.logger.Info("RejectTimeOff: request id=%d, by=%d", req.RequestID, req.DecidedBy)

	var result *domain.TimeOffRequest
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		request, err := s.getPending(txCtx, req.RequestID)
		if err != nil {
			return err
		}
		if err := s.decide(txCtx, request.ID, domain.TimeOffRejected, req.DecidedBy, request.ConflictingAppointmentIDs); err != nil {
			return err
		}
		result, err = s.get(txCtx, request.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomain(result), nil
}

func (s *Service) decide(ctx context.Context, id int64, status domain.TimeOffStatus, decidedBy int64, conflicts []int64) error {
	err := s.repo.Decide(ctx, id, status, decidedBy, conflicts, s.timeProvider.Now())
	if err != nil {
		if errors.Is(err, timeoffRepo.ErrAlreadyDecided) {
			s.logger.Warn("DecideTimeOff: request id=%d decided concurrently", id)
			return ErrAlreadyDecided
		}
		s.logger.Error("DecideTimeOff: repository error for request id=%d: %v", id, err)
		return fmt.Errorf("%w: DecideTimeOff - repository error: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) getPending(ctx context.Context, id int64) (*domain.TimeOffRequest, error) {
	request, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !request.IsPending() {
		s.logger.Warn("DecideTimeOff: request id=%d already %s", id, request.Status)
		return nil, ErrAlreadyDecided
	}
	return request, nil
}

func (s *Service) get(ctx context.Context, id int64) (*domain.TimeOffRequest, error) {
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, timeoffRepo.ErrRequestNotFound) {
			s.logger.Warn("DecideTimeOff: request id=%d not found", id)
			return nil, ErrRequestNotFound
		}
		s.logger.Error("DecideTimeOff: repository error for request id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: DecideTimeOff - repository error: %v", ErrInternal, err)
	}
	return request, nil
}

func onlyAppointments(conflicts []domain.Conflict) []domain.Conflict {
	result := make([]domain.Conflict, 0, len(conflicts))
	for _, c := range conflicts {
		if c.Kind == domain.ConflictAppointment {
			result = append(result, c)
		}
	}
	return result
}
