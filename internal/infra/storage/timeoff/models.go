package timeoff

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// Filter фильтр заявок на отсутствие
type Filter struct {
	StaffIDs []int64
	From     *time.Time // Заявка заканчивается после From
	To       *time.Time // Заявка начинается до To
	Statuses []domain.TimeOffStatus
}
