package bookings

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// transitions допустимые переходы статусов бронирования
// Прямая линия confirmed -> checked_in -> served; no_show и cancelled
// достижимы из обоих нетерминальных статусов. Из терминальных статусов
// переходов нет.
var transitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.StatusConfirmed: {
		domain.StatusCheckedIn,
		domain.StatusNoShow,
		domain.StatusCancelled,
	},
	domain.StatusCheckedIn: {
		domain.StatusServed,
		domain.StatusNoShow,
		domain.StatusCancelled,
	},
	domain.StatusServed:    {},
	domain.StatusNoShow:    {},
	domain.StatusCancelled: {},
}

// canTransition возвращает true, если переход from -> to допустим
func canTransition(from, to domain.BookingStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
