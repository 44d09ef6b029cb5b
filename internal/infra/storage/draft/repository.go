package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

const keyPrefix = "booking_draft:"

// Repository хранилище черновиков бронирования в Redis.
// Каждое сохранение продлевает TTL; брошенный черновик просто истекает.
type Repository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRepository создает хранилище черновиков
func NewRepository(client *redis.Client, ttl time.Duration) *Repository {
	if client == nil {
		panic("draft: redis client cannot be nil")
	}
	return &Repository{client: client, ttl: ttl}
}

// Save сохраняет черновик целиком
func (r *Repository) Save(ctx context.Context, d domain.BookingDraft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("%w: Save - %v", ErrMarshal, err)
	}

	if err := r.client.Set(ctx, draftKey(d.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Save - set %s: %v", ErrRedis, d.ID, err)
	}
	return nil
}

// Get загружает черновик
func (r *Repository) Get(ctx context.Context, id string) (domain.BookingDraft, error) {
	data, err := r.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.BookingDraft{}, ErrDraftNotFound
	}
	if err != nil {
		return domain.BookingDraft{}, fmt.Errorf("%w: Get - get %s: %v", ErrRedis, id, err)
	}

	var d domain.BookingDraft
	if err := json.Unmarshal(data, &d); err != nil {
		return domain.BookingDraft{}, fmt.Errorf("%w: Get - decode %s: %v", ErrMarshal, id, err)
	}
	return d, nil
}

// Delete удаляет черновик после успешного подтверждения
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("%w: Delete - del %s: %v", ErrRedis, id, err)
	}
	return nil
}

func draftKey(id string) string {
	return keyPrefix + id
}
