package catalog

import (
	"fmt"
	"strings"
	"time"
)

// availDateLayouts is the fixed priority list for the AvailDt column.
// Timestamped layouts come first so "2016-01-29 00:00:00" is not
// rejected by the bare-date layout.
var availDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"01-02-2006",
	"20060102",
	"01/02/06",
}

// targetDateLayouts are the operator-facing input formats.
var targetDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"20060102",
	"01/02/06",
}

// ParseAvailDate parses an availability date against the fixed layout
// list. Absent values (empty or the null marker) and unparseable
// values both return ok=false; callers treat them as non-matching,
// never as an abort. Time-of-day is discarded.
func ParseAvailDate(value string) (time.Time, bool) {
	value = cleanField(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range availDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return truncateToDate(t), true
		}
	}

	return time.Time{}, false
}

// ParseTargetDate parses the operator-supplied target release date.
func ParseTargetDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("target date is empty")
	}

	for _, layout := range targetDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return truncateToDate(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("could not parse date %q, use format YYYY-MM-DD (e.g., 2025-09-19)", value)
}

// DefaultTargetDate returns the 4th upcoming Friday, the release date
// a preorder run usually targets. A Friday "today" counts from the
// following week.
func DefaultTargetDate(now time.Time) time.Time {
	friday := NextFriday(now)
	return friday.AddDate(0, 0, 21)
}

// NextFriday returns the first Friday strictly after now.
func NextFriday(now time.Time) time.Time {
	now = truncateToDate(now)
	daysUntil := (int(time.Friday) - int(now.Weekday()) + 7) % 7
	if daysUntil == 0 {
		daysUntil = 7
	}
	return now.AddDate(0, 0, daysUntil)
}

// ValidateTargetDate returns non-blocking warnings: the run proceeds
// regardless, the operator just gets told.
func ValidateTargetDate(target, now time.Time) []string {
	var warnings []string

	if target.Weekday() != time.Friday {
		warnings = append(warnings, fmt.Sprintf("%s is a %s, not a Friday",
			target.Format("2006-01-02"), target.Weekday()))
	}
	if !target.After(truncateToDate(now)) {
		warnings = append(warnings, fmt.Sprintf("%s is not in the future",
			target.Format("2006-01-02")))
	}

	return warnings
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
