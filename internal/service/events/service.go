package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	outboxRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/outbox"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/events/models"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Service выдача событий outbox смежным сервисам (пакеты, счета).
// Доставка at-least-once: событие выдается, пока получатель его не подтвердит.
type Service struct {
	repo         EventRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса событий
func NewService(repo EventRepository, logger Logger) *Service {
	return &Service{
		repo:         repo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// ListPending возвращает недоставленные события в порядке создания
func (s *Service) ListPending(ctx context.Context, limit int) (*models.EventListResponse, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	events, err := s.repo.FetchPending(ctx, uint64(limit))
	if err != nil {
		s.logger.Error("ListPendingEvents: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListPendingEvents - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListPendingEvents: %d pending events", len(events))
	return models.FromDomainEvents(events), nil
}

// Ack подтверждает доставку события
func (s *Service) Ack(ctx context.Context, eventID string) error {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("%w: invalid event id", ErrInvalidInput)
	}

	if err := s.repo.MarkDelivered(ctx, id, s.timeProvider.Now()); err != nil {
		if errors.Is(err, outboxRepo.ErrEventNotFound) {
			s.logger.Warn("AckEvent: event id=%s not found or already delivered", eventID)
			return ErrEventNotFound
		}
		s.logger.Error("AckEvent: repository error for id=%s: %v", eventID, err)
		return fmt.Errorf("%w: AckEvent - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AckEvent: event id=%s delivered", eventID)
	return nil
}
