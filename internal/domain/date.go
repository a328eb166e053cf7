package domain

import "time"

const DayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD date as midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(DayLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CompareDay compares the calendar day s against the day of now: -1 when s is
// earlier, 0 when it is the same day, 1 when it is later. ok is false when s
// is not a valid date; callers treat that as matching no comparison.
//
// Expiry and the admin upcoming/past filter both go through here.
func CompareDay(s string, now time.Time) (cmp int, ok bool) {
	day, ok := ParseDay(s, now.Location())
	if !ok {
		return 0, false
	}
	today := StartOfDay(now)
	switch {
	case day.Before(today):
		return -1, true
	case day.After(today):
		return 1, true
	default:
		return 0, true
	}
}

// IsPastDay reports whether s is strictly before today.
func IsPastDay(s string, now time.Time) bool {
	cmp, ok := CompareDay(s, now)
	return ok && cmp < 0
}

// IsTodayOrLater reports whether s is today or a later day.
func IsTodayOrLater(s string, now time.Time) bool {
	cmp, ok := CompareDay(s, now)
	return ok && cmp >= 0
}
