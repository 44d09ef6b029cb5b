package get_available_slots

import (
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// toResponseSlots конвертирует доменные слоты в модели ответа
func toResponseSlots(slots []domain.Slot) []Slot {
	result := make([]Slot, 0, len(slots))
	for _, s := range slots {
		staff := make([]int64, len(s.StaffIDs))
		copy(staff, s.StaffIDs)
		result = append(result, Slot{
			StartTime: s.Start,
			EndTime:   s.End,
			StaffIDs:  staff,
		})
	}
	return result
}
