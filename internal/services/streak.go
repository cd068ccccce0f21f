package services

import "time"

// CurrentStreak counts consecutive calendar days with at least one check-in,
// ending at the calendar day of now. The input order is irrelevant and
// duplicate check-ins on the same calendar day collapse to a single counted
// day. A set with nothing today or yesterday scores 0; the walk stops at the
// first missing day.
func CurrentStreak(now time.Time, checkIns []time.Time) int {
	if len(checkIns) == 0 {
		return 0
	}

	days := make(map[time.Time]struct{}, len(checkIns))
	for _, t := range checkIns {
		days[calendarDay(t)] = struct{}{}
	}

	streak := 0
	for {
		expected := calendarDay(now).AddDate(0, 0, -streak)
		if _, ok := days[expected]; !ok {
			break
		}
		streak++
	}
	return streak
}

// calendarDay truncates a timestamp to its UTC calendar date.
func calendarDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// startOfToday returns midnight UTC of the current day.
func startOfToday() time.Time {
	return calendarDay(time.Now())
}
