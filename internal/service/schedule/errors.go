package schedule

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

var (
	// ErrInvalidStaffID возвращается при некорректном ID сотрудника
	ErrInvalidStaffID = fmt.Errorf("%w: invalid staff id", domain.ErrValidation)

	// ErrInvalidDuration возвращается при длительности вне допустимого диапазона
	ErrInvalidDuration = fmt.Errorf("%w: duration must be between %d and %d minutes",
		domain.ErrValidation, domain.MinDurationMinutes, domain.MaxDurationMinutes)

	// ErrInvalidGranularity возвращается при некорректном шаге сетки слотов
	ErrInvalidGranularity = fmt.Errorf("%w: granularity must be between %d and %d minutes",
		domain.ErrValidation, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
