// file: internals/features/schedule/listing/parser.go
package listing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	slotAttr    = "data-time"
	classIDAttr = "data-class-id"

	// joinable classes render a green join button
	joinMarker = ".btn-success"
)

var occupancyRe = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)

// Class is one bookable class of a day.
type Class struct {
	Time            string `json:"time"`
	StudentsInClass int    `json:"studentsInClass"`
	TotalStudents   int    `json:"totalStudents"`
	Available       bool   `json:"available"`
	ClassID         string `json:"classId"`
}

// Warning records a slot whose block was found but could not be used as-is.
type Warning struct {
	Slot   string `json:"slot"`
	Reason string `json:"reason"`
}

func (w Warning) String() string { return w.Slot + ": " + w.Reason }

type Result struct {
	Classes  []Class
	Warnings []Warning
}

// ParseDay parses a listing with the catalog that matches date's weekday.
func ParseDay(document string, date time.Time) (Result, error) {
	return Parse(document, CatalogFor(date))
}

// Parse extracts one class per catalog slot, in catalog order. Slots without
// a block are not offered that day and are skipped silently; blocks without
// an occupancy count or a class id are skipped with a warning.
func Parse(document string, slots Catalog) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return Result{}, fmt.Errorf("parse class listing: %w", err)
	}

	blocks := make(map[string][]*goquery.Selection)
	doc.Find("[" + slotAttr + "]").Each(func(_ int, s *goquery.Selection) {
		key := normalizeSlot(s.AttrOr(slotAttr, ""))
		blocks[key] = append(blocks[key], s)
	})

	res := Result{Classes: make([]Class, 0, len(slots))}
	for _, slot := range slots {
		found := blocks[normalizeSlot(slot)]
		if len(found) == 0 {
			continue
		}
		if len(found) > 1 {
			res.warn(slot, fmt.Sprintf("%d blocks for this slot, using the first", len(found)))
		}

		cls, reason := extractClass(slot, found[0])
		if reason != "" {
			res.warn(slot, reason)
			continue
		}
		if cls.StudentsInClass > cls.TotalStudents {
			res.warn(slot, fmt.Sprintf("enrolled %d exceeds capacity %d", cls.StudentsInClass, cls.TotalStudents))
		}
		res.Classes = append(res.Classes, cls)
	}
	return res, nil
}

func extractClass(slot string, block *goquery.Selection) (Class, string) {
	m := occupancyRe.FindStringSubmatch(block.Text())
	if m == nil {
		return Class{}, "no students/capacity count"
	}
	enrolled, err := strconv.Atoi(m[1])
	if err != nil {
		return Class{}, "invalid enrolled count " + m[1]
	}
	capacity, err := strconv.Atoi(m[2])
	if err != nil {
		return Class{}, "invalid capacity " + m[2]
	}

	id := strings.TrimSpace(block.Find("[" + classIDAttr + "]").First().AttrOr(classIDAttr, ""))
	if id == "" {
		id = strings.TrimSpace(block.AttrOr(classIDAttr, ""))
	}
	if id == "" {
		return Class{}, "no class id"
	}

	return Class{
		Time:            slot,
		StudentsInClass: enrolled,
		TotalStudents:   capacity,
		Available:       block.Find(joinMarker).Length() > 0 || block.Is(joinMarker),
		ClassID:         id,
	}, ""
}

func (r *Result) warn(slot, reason string) {
	r.Warnings = append(r.Warnings, Warning{Slot: slot, Reason: reason})
}

// normalizeSlot makes "07:00-08:00" and "07:00 - 08:00" the same key.
func normalizeSlot(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "-", " - ")), " ")
}
