package conflicts

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

var (
	// ErrInvalidInterval возвращается при пустом или перевернутом интервале
	ErrInvalidInterval = fmt.Errorf("%w: interval start must be before end", domain.ErrValidation)

	// ErrInvalidStaffID возвращается при некорректном ID сотрудника
	ErrInvalidStaffID = fmt.Errorf("%w: invalid staff id", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
