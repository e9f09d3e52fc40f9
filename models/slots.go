package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SlotMinutes is the length of a single bookable slot.
const SlotMinutes = 30

// DateLayout is the layout used for every date string stored or exchanged.
const DateLayout = "2006-01-02"

// ParseTimeLabel converts an "HH:MM" label into minutes from midnight.
// Labels must fall on a slot boundary.
func ParseTimeLabel(label string) (int, error) {
	parts := strings.Split(strings.TrimSpace(label), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time label %q", label)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in time label %q", label)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in time label %q", label)
	}
	if m%SlotMinutes != 0 {
		return 0, fmt.Errorf("time label %q is not aligned to %d minutes", label, SlotMinutes)
	}
	return h*60 + m, nil
}

// FormatTimeLabel renders minutes from midnight as "HH:MM".
func FormatTimeLabel(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// SortTimeLabels sorts labels by time of day. Unparseable labels sort last
// in lexical order.
func SortTimeLabels(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		a, errA := ParseTimeLabel(labels[i])
		b, errB := ParseTimeLabel(labels[j])
		switch {
		case errA != nil && errB != nil:
			return labels[i] < labels[j]
		case errA != nil:
			return false
		case errB != nil:
			return true
		}
		return a < b
	})
}

// NormalizeTimeLabels validates, de-duplicates and sorts labels, rendering
// each one canonically (e.g. "9:00" becomes "09:00").
func NormalizeTimeLabels(labels []string) ([]string, error) {
	seen := make(map[int]struct{}, len(labels))
	mins := make([]int, 0, len(labels))
	for _, l := range labels {
		m, err := ParseTimeLabel(l)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		mins = append(mins, m)
	}
	sort.Ints(mins)
	out := make([]string, len(mins))
	for i, m := range mins {
		out[i] = FormatTimeLabel(m)
	}
	return out, nil
}

// CanonicalTimeLabels renders each label as "HH:MM", keeping the caller's
// order and duplicates.
func CanonicalTimeLabels(labels []string) ([]string, error) {
	out := make([]string, len(labels))
	for i, l := range labels {
		m, err := ParseTimeLabel(l)
		if err != nil {
			return nil, err
		}
		out[i] = FormatTimeLabel(m)
	}
	return out, nil
}

// IsContiguous reports whether labels are sorted and each one starts exactly
// one slot after the previous.
func IsContiguous(labels []string) bool {
	if len(labels) == 0 {
		return false
	}
	prev, err := ParseTimeLabel(labels[0])
	if err != nil {
		return false
	}
	for _, l := range labels[1:] {
		cur, err := ParseTimeLabel(l)
		if err != nil || cur-prev != SlotMinutes {
			return false
		}
		prev = cur
	}
	return true
}

// Overlaps reports whether the two label sets share any label.
func Overlaps(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, l := range a {
		set[l] = struct{}{}
	}
	for _, l := range b {
		if _, ok := set[l]; ok {
			return true
		}
	}
	return false
}

// Block is a contiguous run of slots that satisfies a requested duration.
type Block struct {
	Start string   `json:"start"` // canonical start, equal to Times[0]
	End   string   `json:"end"`   // end of the last slot
	Times []string `json:"times"`
}

// NewBlock builds a Block from an ordered, contiguous list of labels.
func NewBlock(times []string) Block {
	b := Block{Times: append([]string(nil), times...)}
	if len(times) == 0 {
		return b
	}
	b.Start = times[0]
	if last, err := ParseTimeLabel(times[len(times)-1]); err == nil {
		b.End = FormatTimeLabel(last + SlotMinutes)
	}
	return b
}
