package models

import (
	"fmt"
	"strings"
	"time"
)

// DayAvailability lists the slot start labels a provider works on a weekday.
type DayAvailability struct {
	Weekday string   `bson:"weekday" json:"weekday"` // lowercase english name, e.g. "monday"
	Times   []string `bson:"times" json:"times"`     // sorted "HH:MM" labels
}

// WeeklyAvailability is a provider's recurring weekly pattern.
type WeeklyAvailability []DayAvailability

// SetAvailabilityRequest is the payload a provider sends to replace its pattern.
type SetAvailabilityRequest struct {
	Days []DayAvailability `json:"days" binding:"required"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseWeekday accepts full or three-letter weekday names in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return time.Sunday, fmt.Errorf("unknown weekday %q", s)
	}
	return wd, nil
}

// WeekdayKey returns the stored key for a weekday.
func WeekdayKey(wd time.Weekday) string {
	return strings.ToLower(wd.String())
}

// NormalizeWeekly validates a pattern and returns it in canonical form:
// one entry per weekday ordered Sunday..Saturday, labels unique and sorted.
// Two entries for the same weekday are merged.
func NormalizeWeekly(days []DayAvailability) (WeeklyAvailability, error) {
	byDay := make(map[time.Weekday][]string)
	listed := make(map[time.Weekday]bool)
	for _, d := range days {
		wd, err := ParseWeekday(d.Weekday)
		if err != nil {
			return nil, err
		}
		listed[wd] = true
		byDay[wd] = append(byDay[wd], d.Times...)
	}

	out := make(WeeklyAvailability, 0, len(listed))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if !listed[wd] {
			continue
		}
		times, err := NormalizeTimeLabels(byDay[wd])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", WeekdayKey(wd), err)
		}
		out = append(out, DayAvailability{Weekday: WeekdayKey(wd), Times: times})
	}
	return out, nil
}
