package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkDays(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	tenDaysAgo := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		want  int
	}{
		{"нулевая дата", time.Time{}, 0},
		{"завтра", time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), 0},
		{"сегодня", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), 0},
		{"сегодня позже текущего часа", time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC), 0},
		{"вчера поздно вечером", time.Date(2025, 6, 14, 23, 30, 0, 0, time.UTC), 1},
		{"десять дней назад", tenDaysAgo, 10},
		{"десять дней назад, время позже текущего", tenDaysAgo.Add(23 * time.Hour), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WorkDays(tt.start, now))
		})
	}
}

func TestWorkDaysStableDuringDay(t *testing.T) {
	start := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	for _, hour := range []int{0, 1, 9, 14, 23} {
		now := time.Date(2025, 6, 15, hour, 59, 0, 0, time.UTC)
		assert.Equal(t, 10, WorkDays(start, now), "час %d", hour)
	}
}

func TestWorkDaysUsesLocalDateOfNow(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	// 01:00 по Москве 15 июня - это ещё 14 июня по UTC.
	now := time.Date(2025, 6, 15, 1, 0, 0, 0, msk)
	start := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 10, WorkDays(start, now))
}

func TestSpeed(t *testing.T) {
	tests := []struct {
		leaflets, days, want int
	}{
		{100, 10, 10},
		{25, 10, 3}, // 2.5
		{24, 10, 2},
		{7, 2, 4}, // 3.5
		{1, 3, 0},
		{0, 5, 0},
		{100, 0, 0},
		{100, -1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Speed(tt.leaflets, tt.days), "Speed(%d, %d)", tt.leaflets, tt.days)
	}
}

type item struct {
	id       string
	leaflets int
}

func (i item) RankID() string { return i.id }

func TestRankOf(t *testing.T) {
	sorted := []item{{"a", 300}, {"b", 200}, {"c", 200}, {"d", 10}}

	rank, ok := RankOf(sorted, "a")
	assert.True(t, ok)
	assert.Equal(t, 1, rank)

	// Равные значения сохраняют порядок списка.
	rank, _ = RankOf(sorted, "b")
	assert.Equal(t, 2, rank)
	rank, _ = RankOf(sorted, "c")
	assert.Equal(t, 3, rank)

	rank, ok = RankOf(sorted, "d")
	assert.True(t, ok)
	assert.Equal(t, len(sorted), rank)

	_, ok = RankOf(sorted, "missing")
	assert.False(t, ok)

	_, ok = RankOf([]item{}, "a")
	assert.False(t, ok)
}
