package availability

import (
	"math"
	"sort"
	"time"

	"carebook/models"
)

// HoursToHalfHours converts a duration in hours to a slot count. Durations
// that are not a positive multiple of half an hour give 0.
func HoursToHalfHours(hours float64) int {
	if hours <= 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0
	}
	halves := hours * 2
	if halves != math.Trunc(halves) {
		return 0
	}
	return int(halves)
}

// subtract returns open minus unavailable as minutes of day, sorted and
// unique. Labels that do not parse are dropped.
func subtract(open, unavailable []string) []int {
	taken := make(map[int]struct{}, len(unavailable))
	for _, l := range unavailable {
		if m, err := models.ParseTimeLabel(l); err == nil {
			taken[m] = struct{}{}
		}
	}

	seen := make(map[int]struct{}, len(open))
	free := make([]int, 0, len(open))
	for _, l := range open {
		m, err := models.ParseTimeLabel(l)
		if err != nil {
			continue
		}
		if _, ok := taken[m]; ok {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		free = append(free, m)
	}
	sort.Ints(free)
	return free
}

// FindBlocks returns every window of halfHours consecutive free slots, in
// ascending order of start. Windows overlap: 09:00-12:00 open with a one
// hour request yields starts 09:00, 09:30, 10:00, 10:30 and 11:00.
func FindBlocks(open, unavailable []string, halfHours int) [][]string {
	if halfHours <= 0 {
		return nil
	}
	free := subtract(open, unavailable)

	var blocks [][]string
	for i := 0; i+halfHours <= len(free); i++ {
		ok := true
		for j := i + 1; j < i+halfHours; j++ {
			if free[j]-free[j-1] != models.SlotMinutes {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		block := make([]string, halfHours)
		for j := range block {
			block[j] = models.FormatTimeLabel(free[i+j])
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// ApplyLeadTime drops every label that starts less than lead after now.
func ApplyLeadTime(available []string, date string, now time.Time, loc *time.Location, lead time.Duration) []string {
	earliest := now.Add(lead)
	out := make([]string, 0, len(available))
	for _, l := range available {
		start, err := models.SlotStart(date, l, loc)
		if err != nil {
			continue
		}
		if start.Before(earliest) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Matcher finds bookable blocks for a provider day.
type Matcher struct {
	Lead     time.Duration
	Location *time.Location
}

// Blocks removes unavailable slots and slots inside the lead time window,
// then searches for blocks of halfHours slots.
func (m Matcher) Blocks(date string, open, unavailable []string, halfHours int, now time.Time) [][]string {
	free := subtract(open, unavailable)
	labels := make([]string, len(free))
	for i, f := range free {
		labels[i] = models.FormatTimeLabel(f)
	}
	labels = ApplyLeadTime(labels, date, now, m.Location, m.Lead)
	return FindBlocks(labels, nil, halfHours)
}

// Starts returns the first label of each block.
func Starts(blocks [][]string) []string {
	starts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		starts = append(starts, b[0])
	}
	return starts
}
