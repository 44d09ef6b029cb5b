package timetracking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrNoShiftToCheckIn возвращается, когда нет одобренной смены, открытой для отметки
	ErrNoShiftToCheckIn = fmt.Errorf("%w: no approved shift open for check-in", domain.ErrInvalidTransition)

	// ErrNoOpenTimeEntry возвращается при уходе без незакрытой отметки
	ErrNoOpenTimeEntry = fmt.Errorf("%w: no open time entry", domain.ErrInvalidTransition)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
