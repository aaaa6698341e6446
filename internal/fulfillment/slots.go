package fulfillment

import (
	"sort"
	"time"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/repository"
)

// Preference boundaries in business-local wall clock hours. Morning ends at
// noon, evening starts at five.
const (
	afternoonStartHour = 12
	eveningStartHour   = 17
)

// businessWindow is the whole delivery day for the calendar date of t,
// expressed in loc. Only the date components of t matter.
func businessWindow(t time.Time, startHour, endHour int, loc *time.Location) TimeRange {
	y, m, d := t.Date()
	return TimeRange{
		Start: time.Date(y, m, d, startHour, 0, 0, 0, loc),
		End:   time.Date(y, m, d, endHour, 0, 0, 0, loc),
	}
}

// preferenceWindow narrows the business day to the customer's preference.
// An unknown preference gets the whole day, same as PreferenceAny.
func preferenceWindow(t time.Time, pref repository.TimePreference, startHour, endHour int, loc *time.Location) TimeRange {
	day := businessWindow(t, startHour, endHour, loc)
	y, m, d := t.Date()
	noon := time.Date(y, m, d, afternoonStartHour, 0, 0, 0, loc)
	evening := time.Date(y, m, d, eveningStartHour, 0, 0, 0, loc)

	w := day
	switch pref {
	case repository.PreferenceMorning:
		w.End = noon
	case repository.PreferenceAfternoon:
		w.Start = noon
		w.End = evening
	case repository.PreferenceEvening:
		w.Start = evening
	}
	return clampRange(w, day)
}

func clampRange(w, bounds TimeRange) TimeRange {
	if w.Start.Before(bounds.Start) {
		w.Start = bounds.Start
	}
	if w.End.After(bounds.End) {
		w.End = bounds.End
	}
	if w.End.Before(w.Start) {
		w.End = w.Start
	}
	return w
}

// pickSlot returns the earliest slot of the wanted length that fits into one
// of the free ranges. The slot starts exactly where the free range starts.
func pickSlot(free []TimeRange, length time.Duration) (TimeRange, bool) {
	if length <= 0 {
		return TimeRange{}, false
	}
	ranges := make([]TimeRange, len(free))
	copy(ranges, free)
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start.Before(ranges[j].Start) })

	for _, r := range ranges {
		if r.Duration() >= length {
			return TimeRange{Start: r.Start, End: r.Start.Add(length)}, true
		}
	}
	return TimeRange{}, false
}
