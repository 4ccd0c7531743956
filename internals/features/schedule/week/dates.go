package week

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Labels names Monday..Friday.
type Labels [5]string

var (
	PortugueseLabels = Labels{"Segunda", "Terça", "Quarta", "Quinta", "Sexta"}
	EnglishLabels    = Labels{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
)

func LabelsFor(locale string) Labels {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "en", "en-gb", "en-us":
		return EnglishLabels
	default:
		return PortugueseLabels
	}
}

type WeekDay struct {
	Date  string
	Label string
	Day   time.Time
}

// WeekdayDates returns Monday..Friday of the week today falls in. Sunday
// closes the week, so it maps back to the Monday six days earlier.
func WeekdayDates(today time.Time, labels Labels) [5]WeekDay {
	back := int(today.Weekday()) - 1
	if today.Weekday() == time.Sunday {
		back = 6
	}
	y, m, d := today.Date()
	monday := time.Date(y, m, d-back, 0, 0, 0, 0, today.Location())

	var out [5]WeekDay
	for i := range out {
		day := monday.AddDate(0, 0, i)
		out[i] = WeekDay{Date: day.Format(dateLayout), Label: labels[i], Day: day}
	}
	return out
}
