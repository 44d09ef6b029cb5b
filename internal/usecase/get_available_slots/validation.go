package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StaffID < 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// Для любого мастера список кандидатов берется из услуги
	if req.StaffID == domain.AnyStaff && req.ServiceID == nil {
		return fmt.Errorf("%w: serviceID is required for any technician", ErrInvalidInput)
	}

	if req.ServiceID == nil && req.DurationMinutes == nil {
		return fmt.Errorf("%w: serviceID or duration is required", ErrInvalidInput)
	}

	if req.GranularityMinutes < 0 {
		return fmt.Errorf("%w: granularity must be positive", ErrInvalidInput)
	}

	return nil
}

// containsStaff проверяет, что мастер входит в список
func containsStaff(staffIDs []int64, staffID int64) bool {
	for _, id := range staffIDs {
		if id == staffID {
			return true
		}
	}
	return false
}
