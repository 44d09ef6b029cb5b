package booking_flow

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

var (
	// ErrDraftNotFound возвращается, когда черновик не найден или истек
	ErrDraftNotFound = fmt.Errorf("booking_flow: draft %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена или отключена
	ErrServiceNotFound = fmt.Errorf("booking_flow: service %w", domain.ErrNotFound)

	// ErrAppointmentNotFound возвращается, когда переносимая запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("booking_flow: appointment %w", domain.ErrNotFound)

	// ErrNotReschedulable возвращается, когда переносимая запись уже не в статусе upcoming
	ErrNotReschedulable = fmt.Errorf("%w: only upcoming appointments can be rescheduled", domain.ErrInvalidTransition)

	// ErrStaffNotQualified возвращается, когда мастер не выполняет услугу
	ErrStaffNotQualified = fmt.Errorf("%w: staff is not qualified for the service", domain.ErrValidation)

	// ErrServiceLocked возвращается при смене услуги в черновике переноса
	ErrServiceLocked = fmt.Errorf("%w: service cannot be changed when rescheduling", domain.ErrValidation)

	// ErrStartInPast возвращается при выборе прошедшего времени
	ErrStartInPast = fmt.Errorf("%w: appointment cannot start in the past", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("booking_flow: internal error")
)
