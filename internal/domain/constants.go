package domain

// Business validation constants
const (
	MinSlotLengthMinutes        = 5
	MaxSlotLengthMinutes        = 480 // 8 hours
	MinBreakLengthMinutes       = 0
	MinLunchWindowMinutes       = 30
	MinSlotCapacity             = 1
	MaxSlotCapacity             = 100
	MinOverbook                 = 0
	MaxOverbook                 = 50
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BookingCodeLength длина случайной части кода бронирования ("APT-XXXXXX")
const BookingCodeLength = 6

// ActiveStatuses статусы, при которых бронирование удерживает место в слоте
// Используется при проверке блокирующих бронирований перед удалением сессий
var ActiveStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCheckedIn,
	StatusServed,
	StatusNoShow,
}
