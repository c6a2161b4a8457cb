// Package metrics содержит чистые функции расчёта производных показателей промоутера.
package metrics

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// WorkDays возвращает количество дней работы: число календарных дней
// от даты startDate до даты now. Время суток не учитывается, поэтому
// результат не меняется в течение дня. Нулевая или будущая дата даёт 0.
func WorkDays(startDate, now time.Time) int {
	if startDate.IsZero() {
		return 0
	}
	start, today := calendarDay(startDate), calendarDay(now)
	if start.After(today) {
		return 0
	}
	return int(today.Sub(start) / day)
}

// calendarDay - полночь UTC той же календарной даты.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Speed - листовок в день. При workDays <= 0 скорость равна 0.
func Speed(leafletsCount, workDays int) int {
	if workDays <= 0 {
		return 0
	}
	// half-up: 2.5 -> 3
	return int(math.Floor(float64(leafletsCount)/float64(workDays) + 0.5))
}

// Ranked - всё, что умеет вернуть свой идентификатор.
type Ranked interface {
	RankID() string
}

// RankOf возвращает позицию (с 1) записи id в списке, уже отсортированном
// по количеству листовок по убыванию. Равные значения сохраняют порядок списка.
func RankOf[T Ranked](sorted []T, id string) (int, bool) {
	for i, item := range sorted {
		if item.RankID() == id {
			return i + 1, true
		}
	}
	return 0, false
}
