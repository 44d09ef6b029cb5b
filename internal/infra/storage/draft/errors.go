package draft

import "errors"

var (
	// ErrDraftNotFound возвращается, когда черновик не найден или истек
	ErrDraftNotFound = errors.New("draft.repository: booking draft not found")

	// ErrMarshal возвращается при ошибке сериализации черновика
	ErrMarshal = errors.New("draft.repository: failed to encode draft")

	// ErrRedis возвращается при ошибке обращения к Redis
	ErrRedis = errors.New("draft.repository: redis error")
)
