package availability

import (
	"time"

	"carebook/models"
)

// DayStatus tells apart the reasons a weekday can have no slots.
type DayStatus int

const (
	DayMissing     DayStatus = iota // weekday not listed in the pattern
	DayListedEmpty                  // weekday listed with no times
	DayOpen
)

func (s DayStatus) String() string {
	switch s {
	case DayListedEmpty:
		return "listed_empty"
	case DayOpen:
		return "open"
	default:
		return "missing"
	}
}

// DayLookup returns the labels listed for day's weekday together with how
// they were found. Entries whose weekday does not parse are skipped.
func DayLookup(weekly models.WeeklyAvailability, day time.Time) ([]string, DayStatus) {
	want := day.Weekday()
	for _, entry := range weekly {
		wd, err := models.ParseWeekday(entry.Weekday)
		if err != nil || wd != want {
			continue
		}
		if len(entry.Times) == 0 {
			return nil, DayListedEmpty
		}
		return append([]string(nil), entry.Times...), DayOpen
	}
	return nil, DayMissing
}

// OpenSlots returns the labels a provider works on day's weekday, verbatim.
func OpenSlots(weekly models.WeeklyAvailability, day time.Time) []string {
	times, _ := DayLookup(weekly, day)
	return times
}
