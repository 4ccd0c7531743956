package listing

import "time"

// Catalog is the ordered list of time slots a day can offer.
type Catalog []string

var (
	weekdaySlots = Catalog{
		"06:15 - 07:00",
		"07:00 - 08:00",
		"08:00 - 09:00",
		"09:00 - 10:00",
		"10:00 - 11:00",
		"12:15 - 13:15",
		"16:30 - 17:30",
		"17:30 - 18:30",
		"18:30 - 19:30",
		"19:30 - 20:30",
	}

	weekendSlots = Catalog{
		"08:00 - 09:00",
		"09:00 - 10:00",
		"10:00 - 11:00",
	}
)

// WeekdayCatalog returns a copy so callers cannot reorder the shared list.
func WeekdayCatalog() Catalog { return append(Catalog(nil), weekdaySlots...) }

func WeekendCatalog() Catalog { return append(Catalog(nil), weekendSlots...) }

// CatalogFor picks the catalog by the calendar day of date.
func CatalogFor(date time.Time) Catalog {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return WeekendCatalog()
	default:
		return WeekdayCatalog()
	}
}
