package shift

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// FlexibleShiftFilter фильтр гибких смен
type FlexibleShiftFilter struct {
	StaffID *int64
	From    *time.Time // Смена заканчивается после From
	To      *time.Time // Смена начинается до To
	Status  *domain.FlexibleShiftStatus
}
