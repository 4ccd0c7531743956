package week

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayDatesEveryDayOfWeek(t *testing.T) {
	lisbon, err := time.LoadLocation("Europe/Lisbon")
	require.NoError(t, err)

	// 2026-10-12 is a Monday; walk the whole week including Sunday.
	for offset := 0; offset < 7; offset++ {
		today := time.Date(2026, 10, 12+offset, 21, 45, 0, 0, lisbon)
		days := WeekdayDates(today, PortugueseLabels)

		assert.Equal(t, "2026-10-12", days[0].Date, today.Weekday().String())
		assert.Equal(t, time.Monday, days[0].Day.Weekday())
		for i := 1; i < len(days); i++ {
			assert.Equal(t, 24*time.Hour, days[i].Day.Sub(days[i-1].Day))
		}
		assert.Equal(t, "2026-10-16", days[4].Date)
	}
}

func TestWeekdayDatesAcrossMonthAndLabels(t *testing.T) {
	sunday := time.Date(2026, 11, 1, 8, 0, 0, 0, time.UTC)
	days := WeekdayDates(sunday, EnglishLabels)

	got := make([]string, 0, 5)
	for _, d := range days {
		got = append(got, d.Date+" "+d.Label)
	}
	assert.Equal(t, []string{
		"2026-10-26 Monday",
		"2026-10-27 Tuesday",
		"2026-10-28 Wednesday",
		"2026-10-29 Thursday",
		"2026-10-30 Friday",
	}, got)
}

func TestLabelsFor(t *testing.T) {
	assert.Equal(t, "Terça", LabelsFor("pt")[1])
	assert.Equal(t, "Tuesday", LabelsFor("EN")[1])
	assert.Equal(t, PortugueseLabels, LabelsFor(""))
}
