package stats

import (
	"time"

	"codeberg.org/snonux/geet/internal/song"
)

// Period selects a trailing time window
type Period string

const (
	PeriodToday   Period = "today"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	Period3Months Period = "3months"
	PeriodAll     Period = "all"
)

// DefaultCalendarMonths is the activity calendar span used by the timeline
const DefaultCalendarMonths = 3

// MaxCalendarMonths bounds the activity calendar span
const MaxCalendarMonths = 36

const dayKeyLayout = "2006-01-02"

// ParsePeriod maps a name to a Period; unknown names select PeriodAll
func ParsePeriod(name string) Period {
	switch p := Period(name); p {
	case PeriodToday, PeriodWeek, PeriodMonth, Period3Months:
		return p
	default:
		return PeriodAll
	}
}

// Start returns the inclusive lower bound of the window ending at now.
// The second result is false for PeriodAll.
func (p Period) Start(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, -1, 0), true
	case Period3Months:
		return now.AddDate(0, -3, 0), true
	default:
		return time.Time{}, false
	}
}

// SongsInPeriod returns the songs saved within period, ending now
func SongsInPeriod(songs []song.Song, period Period) []song.Song {
	return SongsInPeriodAt(songs, period, time.Now())
}

// SongsInPeriodAt returns the songs saved at or after the period start.
// PeriodAll returns songs unchanged.
func SongsInPeriodAt(songs []song.Song, period Period, now time.Time) []song.Song {
	start, ok := period.Start(now)
	if !ok {
		return songs
	}

	var filtered []song.Song
	for _, s := range songs {
		if !s.SavedAt.Before(start) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// ActivityCalendar counts songs saved per day over the last months
func ActivityCalendar(songs []song.Song, months int) map[string]int {
	return ActivityCalendarAt(songs, months, time.Now())
}

// ActivityCalendarAt returns a per-day song count keyed YYYY-MM-DD (UTC).
// Every UTC day from now minus months through now is present, zero when no
// song was saved that day. months is clamped to [1, MaxCalendarMonths].
func ActivityCalendarAt(songs []song.Song, months int, now time.Time) map[string]int {
	months = ClampCalendarMonths(months)

	now = now.UTC()
	start := now.AddDate(0, -months, 0)
	last := dayKey(now)
	calendar := make(map[string]int)

	// Step in UTC so a DST change in the caller's zone never skips a key
	y, m, d := start.Date()
	for day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC); dayKey(day) <= last; day = day.AddDate(0, 0, 1) {
		calendar[dayKey(day)] = 0
	}

	for _, s := range songs {
		if s.SavedAt.Before(start) {
			continue
		}
		calendar[dayKey(s.SavedAt)]++
	}

	return calendar
}

// ClampCalendarMonths limits a calendar span to [1, MaxCalendarMonths]
func ClampCalendarMonths(months int) int {
	switch {
	case months < 1:
		return 1
	case months > MaxCalendarMonths:
		return MaxCalendarMonths
	default:
		return months
	}
}

// SongsByDate groups songs by the UTC day they were saved
func SongsByDate(songs []song.Song) map[string][]song.Song {
	grouped := make(map[string][]song.Song)
	for _, s := range songs {
		key := dayKey(s.SavedAt)
		grouped[key] = append(grouped[key], s)
	}
	return grouped
}

func dayKey(t time.Time) string {
	return t.UTC().Format(dayKeyLayout)
}
