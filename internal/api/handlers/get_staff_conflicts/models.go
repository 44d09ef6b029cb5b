package get_staff_conflicts

import "github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"

// ConflictsResponse пересечения предложенного интервала с расписанием сотрудника
type ConflictsResponse struct {
	StaffID   int64                    `json:"staffId"`
	Conflicts []handlers.ConflictModel `json:"conflicts"`
}
