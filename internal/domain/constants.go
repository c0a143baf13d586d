package domain

// Default configuration values
const (
	DefaultGranularityMinutes = 30
	DefaultBufferMinutes      = 0
	DefaultPendingTTLMinutes  = 15 // Авто-освобождение незакоммиченных pending-слотов
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 480 // 8 hours
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxClientNameLength         = 200
	MaxServiceNameLength        = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveBookingStatuses список терминальных статусов бронирований
// Используется для фильтрации при подсчёте занятости слотов
var InactiveBookingStatuses = []BookingStatus{
	StatusRejected,
	StatusCancelled,
}

// ActiveBookingStatuses список активных статусов бронирований
var ActiveBookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
