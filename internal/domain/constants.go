package domain

// Default calendar values, used until an administrator saves a configuration
const (
	DefaultWorkingHoursStart   = "09:00"
	DefaultWorkingHoursEnd     = "17:00"
	DefaultBreakStart          = "12:00"
	DefaultBreakEnd            = "13:00"
	DefaultSlotDurationMinutes = 30
	DefaultHolidayLabel        = "Holiday"
)

// Default lifecycle policy values
const (
	DefaultCancelLeadTimeMinutes = 120 // 0 disables the restriction
	DefaultClinicCancelReason    = "Cancelled by clinic"
	DefaultPatientCancelReason   = "Cancelled by patient"
)

// Business validation constants
const (
	MinSlotDurationMinutes  = 5
	MaxSlotDurationMinutes  = 480 // 8 hours
	MaxCancelReasonLength   = 500
	MaxLockReasonLength     = 500
	MaxHolidayLabelLength   = 100
	MaxTreatmentLabelLength = 200
	MaxDisplayNameLength    = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
