package create_appointment

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/integrations/catalogservice"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.CustomerID == nil && (req.GuestName == nil || strings.TrimSpace(*req.GuestName) == "") {
		return fmt.Errorf("%w: customerId or guestName is required", ErrInvalidInput)
	}

	if req.CustomerID != nil && *req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
	}

	if req.PackageID != nil && req.CustomerID == nil {
		return fmt.Errorf("%w: package requires a registered customer", ErrInvalidInput)
	}

	if !req.IsAnyStaff() {
		for _, id := range req.StaffIDs {
			if id <= 0 {
				return fmt.Errorf("%w: invalid staff id %d", ErrInvalidInput, id)
			}
		}
	}

	return nil
}

// validatePackage проверяет, что пакет принадлежит клиенту, покрывает услугу и не исчерпан
func validatePackage(pkg *catalogservice.Package, customerID, serviceID int64) error {
	if pkg.CustomerID != customerID || pkg.ServiceID != serviceID {
		return ErrPackageMismatch
	}
	if !pkg.HasRemainingSessions() {
		return ErrPackageExhausted
	}
	return nil
}

// resolveCandidates возвращает мастеров для записи: всех подходящих для "любого"
// или запрошенных, если каждый из них выполняет услугу
func resolveCandidates(req *Request, qualified []int64) ([]int64, error) {
	if req.IsAnyStaff() {
		if len(qualified) == 0 {
			return nil, ErrNoQualifiedStaff
		}
		return qualified, nil
	}

	allowed := make(map[int64]struct{}, len(qualified))
	for _, id := range qualified {
		allowed[id] = struct{}{}
	}
	for _, id := range req.StaffIDs {
		if _, ok := allowed[id]; !ok {
			return nil, fmt.Errorf("%w: staff id %d", ErrStaffNotQualified, id)
		}
	}
	return req.StaffIDs, nil
}

// conflictSource источник конфликта для метрик: вид первого пересечения
func conflictSource(err error) string {
	conflicts, ok := domain.ConflictsFromError(err)
	if !ok || len(conflicts) == 0 {
		return "storage"
	}
	return string(conflicts[0].Kind)
}
