package validation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Window временное окно [Start, End) из абсолютных моментов
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains возвращает true, если интервал [start, end) целиком внутри окна
func (w *Window) Contains(start, end time.Time) bool {
	return !start.Before(w.Start) && !end.After(w.End)
}

// Intersects возвращает true, если интервал [start, end) пересекает окно
// Полуоткрытые интервалы: касание границ пересечением не считается
func (w *Window) Intersects(start, end time.Time) bool {
	return start.Before(w.End) && w.Start.Before(end)
}

// ValidateSlots проверяет набор слотов сессии
// window и lunch опциональны: при редактировании сохраненной сессии
// рабочее окно не хранится, и вложенность проверяется только в пределах
// календарного дня сессии
//
// Возвращает все нарушения по всем слотам сразу; при пересечении
// помечаются оба конфликтующих слота
func (v *Validator) ValidateSlots(serviceDate time.Time, window, lunch *Window, slots []domain.Slot) Errors {
	var errs Errors

	dayStart := time.Date(serviceDate.Year(), serviceDate.Month(), serviceDate.Day(), 0, 0, 0, 0, serviceDate.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	day := Window{Start: dayStart, End: dayEnd}

	// Структурные проверки каждого слота
	valid := make([]bool, len(slots))
	for i := range slots {
		slot := &slots[i]
		field := func(name string) string { return fmt.Sprintf("slots[%d].%s", i, name) }
		ok := true

		if slot.StartAt.IsZero() {
			errs.Add(field("startAt"), "start time is required")
			ok = false
		}
		if slot.EndAt.IsZero() {
			errs.Add(field("endAt"), "end time is required")
			ok = false
		}

		if ok && !slot.StartAt.Before(slot.EndAt) {
			errs.Add(field("startAt"), "start %s must be before end %s",
				slot.StartAt.Format(domain.TimeFormat), slot.EndAt.Format(domain.TimeFormat))
			ok = false
		}

		if ok && !day.Contains(slot.StartAt, slot.EndAt) {
			errs.Add(field("startAt"), "slot must lie within the session's service date %s",
				serviceDate.Format(domain.DateFormat))
			ok = false
		}

		if ok && window != nil && !window.Contains(slot.StartAt, slot.EndAt) {
			errs.Add(field("startAt"), "slot [%s, %s) is outside the session window",
				slot.StartAt.Format(domain.TimeFormat), slot.EndAt.Format(domain.TimeFormat))
			ok = false
		}

		if ok && lunch != nil && lunch.Intersects(slot.StartAt, slot.EndAt) {
			errs.Add(field("startAt"), "slot [%s, %s) intersects the lunch window",
				slot.StartAt.Format(domain.TimeFormat), slot.EndAt.Format(domain.TimeFormat))
			ok = false
		}

		if slot.Capacity < domain.MinSlotCapacity {
			errs.Add(field("capacity"), "capacity must be at least %d", domain.MinSlotCapacity)
		}
		if slot.Overbook < domain.MinOverbook {
			errs.Add(field("overbook"), "overbook must not be negative")
		}

		valid[i] = ok
	}

	// Попарная проверка пересечений; помечаем оба слота
	flagged := make([]bool, len(slots))
	for i := range slots {
		if !valid[i] {
			continue
		}
		for j := i + 1; j < len(slots); j++ {
			if !valid[j] {
				continue
			}
			if slots[i].Overlaps(&slots[j]) {
				if !flagged[i] {
					errs.Add(fmt.Sprintf("slots[%d].startAt", i), "slot overlaps slot %d", j)
					flagged[i] = true
				}
				if !flagged[j] {
					errs.Add(fmt.Sprintf("slots[%d].startAt", j), "slot overlaps slot %d", i)
					flagged[j] = true
				}
			}
		}
	}

	return errs
}
