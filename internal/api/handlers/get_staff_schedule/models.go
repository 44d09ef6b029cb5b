package get_staff_schedule

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// IntervalResponse временной интервал
type IntervalResponse struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// ScheduleResponse рабочее время сотрудника на день
type ScheduleResponse struct {
	StaffID      int64              `json:"staffId"`
	Date         string             `json:"date"`
	WorkingHours []IntervalResponse `json:"workingHours"`
	FreeWindows  []IntervalResponse `json:"freeWindows"`
}

// NewScheduleResponse формирует HTTP response
func NewScheduleResponse(staffID int64, date time.Time, working, free []domain.Interval) *ScheduleResponse {
	return &ScheduleResponse{
		StaffID:      staffID,
		Date:         date.Format(domain.DateFormat),
		WorkingHours: fromIntervals(working),
		FreeWindows:  fromIntervals(free),
	}
}

func fromIntervals(intervals []domain.Interval) []IntervalResponse {
	result := make([]IntervalResponse, 0, len(intervals))
	for _, iv := range intervals {
		result = append(result, IntervalResponse{StartTime: iv.Start, EndTime: iv.End})
	}
	return result
}
