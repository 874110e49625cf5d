package derive

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and input format for dates.
const DateLayout = "2006-01-02"

// academic years start in June
const academicYearStartMonth = time.June

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
}

// ParseDate accepts the date shapes the backend has been seen to emit.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate normalises s to YYYY-MM-DD, or returns "" when unparseable.
func FormatDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format(DateLayout)
}

// AcademicYear labels the school year containing t as "YYYY-YYYY+1".
func AcademicYear(t time.Time) string {
	start := t.Year()
	if t.Month() < academicYearStartMonth {
		start--
	}
	return fmt.Sprintf("%d-%d", start, start+1)
}

// AcademicYearFor derives a program's academic year. A known program start
// date wins; otherwise the year most admission dates fall in, ties going to
// the earlier year.
func AcademicYearFor(programStart string, admissionDates []string) (string, bool) {
	if t, ok := ParseDate(programStart); ok {
		return AcademicYear(t), true
	}

	years := make([]string, 0, len(admissionDates))
	for _, d := range admissionDates {
		if t, ok := ParseDate(d); ok {
			years = append(years, AcademicYear(t))
		}
	}
	return InferDefault(years)
}

// AcademicYearBounds reads a "YYYY-YYYY" label into its first and last
// day, June 1 to May 31.
func AcademicYearBounds(label string) (start, end time.Time, ok bool) {
	var from, to int
	if n, err := fmt.Sscanf(strings.TrimSpace(label), "%d-%d", &from, &to); err != nil || n != 2 || to != from+1 {
		return time.Time{}, time.Time{}, false
	}
	start = time.Date(from, academicYearStartMonth, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(1, 0, -1)
	return start, end, true
}
