package create_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или отключена
	ErrServiceNotFound = fmt.Errorf("create_appointment: service %w", domain.ErrNotFound)

	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = fmt.Errorf("create_appointment: customer %w", domain.ErrNotFound)

	// ErrPackageNotFound возвращается, когда пакет процедур не найден
	ErrPackageNotFound = fmt.Errorf("create_appointment: package %w", domain.ErrNotFound)

	// ErrStaffNotQualified возвращается, когда мастер не выполняет услугу
	ErrStaffNotQualified = fmt.Errorf("%w: staff is not qualified for the service", domain.ErrValidation)

	// ErrNoQualifiedStaff возвращается, когда услугу некому выполнить
	ErrNoQualifiedStaff = fmt.Errorf("%w: no qualified staff for the service", domain.ErrValidation)

	// ErrStartInPast возвращается при попытке записаться на прошедшее время
	ErrStartInPast = fmt.Errorf("%w: appointment cannot start in the past", domain.ErrValidation)

	// ErrPackageMismatch возвращается, когда пакет принадлежит другому клиенту или услуге
	ErrPackageMismatch = fmt.Errorf("%w: package does not match customer or service", domain.ErrValidation)

	// ErrPackageExhausted возвращается, когда в пакете не осталось сеансов
	ErrPackageExhausted = fmt.Errorf("%w: package has no remaining sessions", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
