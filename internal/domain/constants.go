package domain

// Default scheduling values
const (
	DefaultSlotGranularityMinutes = 15
	DefaultCheckInGraceMinutes    = 15
)

// Business validation constants
const (
	MinDurationMinutes          = 5
	MaxDurationMinutes          = 480 // 8 hours
	MinSlotGranularityMinutes   = 5
	MaxSlotGranularityMinutes   = 240
	MaxCancellationReasonLength = 500
	MaxNotesLength              = 500
	MaxTimeOffReasonLength      = 500
	MaxGuestNameLength          = 200
	MaxLookupDays               = 62
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Weekday numbering used by default shifts: 1 = Monday ... 7 = Sunday
const (
	Monday     = 1
	Sunday     = 7
	DaysInWeek = 7
)
