package reschedule_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("reschedule_appointment: appointment %w", domain.ErrNotFound)

	// ErrNotReschedulable возвращается, когда запись уже не в статусе upcoming
	ErrNotReschedulable = fmt.Errorf("%w: only upcoming appointments can be rescheduled", domain.ErrInvalidTransition)

	// ErrStaffNotQualified возвращается, когда мастер не выполняет услугу
	ErrStaffNotQualified = fmt.Errorf("%w: staff is not qualified for the service", domain.ErrValidation)

	// ErrStartInPast возвращается при переносе на прошедшее время
	ErrStartInPast = fmt.Errorf("%w: appointment cannot start in the past", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
