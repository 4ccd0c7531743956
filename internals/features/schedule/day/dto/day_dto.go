// file: internals/features/schedule/day/dto/day_dto.go
package dto

import (
	"centrotreino_backend/internals/features/schedule/listing"
)

const DateLayout = "2006-01-02"

/* =======================================================
   Request
   ======================================================= */

type DayQuery struct {
	Date string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

/* =======================================================
   Response
   ======================================================= */

// DaySchedule is the body of a successful day request. Classes is never nil
// so the client always gets an array.
type DaySchedule struct {
	Date    string          `json:"date"`
	Classes []listing.Class `json:"classes"`
}

func NewDaySchedule(date string, classes []listing.Class) DaySchedule {
	if classes == nil {
		classes = []listing.Class{}
	}
	return DaySchedule{Date: date, Classes: classes}
}
