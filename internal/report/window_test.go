package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestResolveWindow_Today(t *testing.T) {
	now := time.Date(2024, 3, 15, 13, 45, 12, 0, time.Local)

	w, err := ResolveWindow(WindowToday, WindowParams{}, fixedClock(now))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), w.Start)
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 999999999, time.Local), w.End)
}

func TestResolveWindow_ExplicitDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)

	w, err := ResolveWindow(WindowDate, WindowParams{Date: "2024-02-29"}, fixedClock(now))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local), w.Start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.Local), w.End)
}

func TestResolveWindow_InvalidDateIsValidationError(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)

	cases := []struct {
		kind   WindowKind
		params WindowParams
	}{
		{WindowDate, WindowParams{Date: "bugün"}},
		{WindowDate, WindowParams{}},
		{WindowRange, WindowParams{From: "2024-01-01", To: "dün"}},
		{WindowRange, WindowParams{From: "2024-01-01"}},
		{WindowMonthly, WindowParams{Month: 13, Year: 2024}},
		{WindowMonthly, WindowParams{Month: 3, Year: 1993}},
		{WindowKind("hourly"), WindowParams{}},
	}
	for _, tc := range cases {
		_, err := ResolveWindow(tc.kind, tc.params, fixedClock(now))
		require.Error(t, err)
		assert.IsType(t, &ValidationError{}, err)
	}
}

// İçinde bulunulan ay: pencere "şimdi"de biter (kısmi ay)
func TestResolveWindow_MonthlyPartialCurrentMonth(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.Local)

	w, err := ResolveWindow(WindowMonthly, WindowParams{Month: 3, Year: 2024}, fixedClock(now))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), w.Start)
	assert.Equal(t, now, w.End)
}

// Geçmiş ay: pencere ayın tamamını kapsar
func TestResolveWindow_MonthlyFullPastMonth(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 30, 0, 0, time.Local)

	w, err := ResolveWindow(WindowMonthly, WindowParams{Month: 3, Year: 2024}, fixedClock(now))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), w.Start)
	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 999999999, time.Local), w.End)
}

func TestResolveWindow_MonthlyDefaultsToCurrentMonth(t *testing.T) {
	now := time.Date(2024, 7, 20, 16, 0, 0, 0, time.Local)

	w, err := ResolveWindow(WindowMonthly, WindowParams{}, fixedClock(now))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.Local), w.Start)
	assert.Equal(t, now, w.End)
}

// İçinde bulunulan yıl: davranış PartialCurrentPeriod bayrağına bağlı
func TestResolveWindow_YearlyPartialFlag(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.Local)

	w, err := ResolveWindow(WindowYearly, WindowParams{Year: 2024, PartialCurrentPeriod: true}, fixedClock(now))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), w.Start)
	assert.Equal(t, now, w.End)

	w, err = ResolveWindow(WindowYearly, WindowParams{Year: 2024, PartialCurrentPeriod: false}, fixedClock(now))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 31, 23, 59, 59, 999999999, time.Local), w.End)
}

func TestResolveWindow_YearlyPastYearIgnoresFlag(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.Local)

	w, err := ResolveWindow(WindowYearly, WindowParams{Year: 2023, PartialCurrentPeriod: true}, fixedClock(now))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local), w.Start)
	assert.Equal(t, time.Date(2023, 12, 31, 23, 59, 59, 999999999, time.Local), w.End)
}

func TestResolveWindow_Range(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)

	w, err := ResolveWindow(WindowRange, WindowParams{From: "2024-01-10", To: "2024-02-20"}, fixedClock(now))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local), w.Start)
	assert.Equal(t, time.Date(2024, 2, 20, 23, 59, 59, 999999999, time.Local), w.End)

	_, err = ResolveWindow(WindowRange, WindowParams{From: "2024-02-20", To: "2024-01-10"}, fixedClock(now))
	assert.Error(t, err)
}

// 12 aydan uzun aralıkta aynı ay numarası iki kez düşerdi (Mart 2023 ile
// Mart 2024 aynı bucket'a), bu yüzden reddedilir
func TestResolveWindow_RangeLongerThanYearRejected(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)

	_, err := ResolveWindow(WindowRange, WindowParams{From: "2023-02-15", To: "2024-02-10"}, fixedClock(now))
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)

	// 12 ardışık takvim ayı sınırın içindedir
	w, err := ResolveWindow(WindowRange, WindowParams{From: "2023-02-01", To: "2024-01-31"}, fixedClock(now))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 2, 1, 0, 0, 0, 0, time.Local), w.Start)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.Local), w.End)
}

func TestWindowContains(t *testing.T) {
	now := time.Date(2024, 3, 15, 13, 0, 0, 0, time.Local)
	w, err := ResolveWindow(WindowToday, WindowParams{}, fixedClock(now))
	require.NoError(t, err)

	assert.True(t, w.Contains(now))
	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End))
	assert.False(t, w.Contains(w.Start.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(w.End.Add(time.Nanosecond)))
}
