package week

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

const productID = "-//Centro de Treino//Horario de Aulas//PT"

// Calendar renders the resolved days of st as an iCalendar feed. Classes
// whose time slot cannot be read are left out.
func Calendar(st State, loc *time.Location, host string, now time.Time) string {
	if loc == nil {
		loc = time.UTC
	}
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("Aulas")
	cal.SetXWRTimezone(loc.String())

	for _, day := range st.Data {
		for _, c := range day.Classes {
			start, end, err := slotBounds(day.Date, c.Time, loc)
			if err != nil {
				continue
			}
			ev := cal.AddEvent(fmt.Sprintf("%s-%s@%s", c.ClassID, day.Date, host))
			ev.SetDtStampTime(now)
			ev.SetStartAt(start)
			ev.SetEndAt(end)
			ev.SetSummary(fmt.Sprintf("%s (%d/%d)", c.Program, c.StudentsInClass, c.TotalStudents))
			ev.SetDescription(describe(day.Day, c))
		}
	}
	return cal.Serialize()
}

func describe(label string, c ClassView) string {
	state := "lotada"
	if c.Available {
		state = "inscrições abertas"
	}
	return fmt.Sprintf("%s %s, %d de %d lugares ocupados, %s", label, c.Time, c.StudentsInClass, c.TotalStudents, state)
}

// slotBounds turns "07:00 - 08:00" on date into start and end instants.
func slotBounds(date, slot string, loc *time.Location) (time.Time, time.Time, error) {
	parts := strings.SplitN(slot, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid slot %q", slot)
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+strings.TrimSpace(parts[0]), loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", date+" "+strings.TrimSpace(parts[1]), loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		end = start.Add(time.Hour)
	}
	return start, end, nil
}
