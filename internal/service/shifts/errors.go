package shifts

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = fmt.Errorf("%w: invalid date, expected YYYY-MM-DD", domain.ErrValidation)

	// ErrInvalidTimeRange возвращается при некорректном временном диапазоне
	ErrInvalidTimeRange = fmt.Errorf("%w: invalid time range", domain.ErrValidation)

	// ErrFlexibleShiftNotFound возвращается, когда гибкая смена не найдена
	ErrFlexibleShiftNotFound = fmt.Errorf("flexible shift %w", domain.ErrNotFound)

	// ErrAlreadyDecided возвращается при повторном решении по гибкой смене
	ErrAlreadyDecided = fmt.Errorf("%w: flexible shift already decided", domain.ErrInvalidTransition)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
