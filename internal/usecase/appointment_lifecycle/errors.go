package appointment_lifecycle

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("appointment_lifecycle: appointment %w", domain.ErrNotFound)

	// ErrStatusChanged возвращается, когда статус записи изменился параллельно
	ErrStatusChanged = fmt.Errorf("%w: appointment status changed concurrently", domain.ErrInvalidTransition)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("appointment_lifecycle: internal error")
)
