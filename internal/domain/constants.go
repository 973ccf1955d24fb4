package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxMessageLength            = 2000
	MaxNotesLength              = 500
	MaxReasonLength             = 500
	MaxLocationLength           = 255
	MaxContractURLLength        = 2048
	MaxTimeSlotsPerDay          = 24
	MinCancellationFeePercent   = 0
	MaxCancellationFeePercent   = 100
	DefaultRequestTTLHours      = 72
	BookingNumberPrefix         = "BH"
	BookingNumberDigits         = 6
	MaxBookingNumberGenAttempts = 5
)
