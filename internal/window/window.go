package window

import (
	"errors"
	"time"
)

// Window is the lookback span, ending at "now", over which comments are
// eligible for collection. Immutable once computed.
type Window struct {
	LookbackHours        uint
	IncludeWeekendThread bool
}

// Config holds the base lookback durations. Trending stocks accumulate
// enough volume in a few hours; quiet stocks need a wider net.
type Config struct {
	TrendingBaseHours uint
	QuietBaseHours    uint
}

// ErrEmptyCalendar is returned when the holiday calendar has no entries.
// An empty calendar would silently under-fetch around holidays, so window
// computation refuses to proceed.
var ErrEmptyCalendar = errors.New("window: holiday calendar is empty")

// Compute derives the lookback window for one run. Adjustments only ever add
// time, so applying them in either order gives the same result:
//   - Monday adds 48h for the weekend and flags the weekend thread.
//   - A holiday yesterday adds 24h, or 48h with the weekend flag when today
//     is Tuesday (the holiday was adjacent to the weekend).
func Compute(today time.Time, holidays []time.Time, trending bool, cfg Config) (Window, error) {
	if len(holidays) == 0 {
		return Window{}, ErrEmptyCalendar
	}

	base := cfg.QuietBaseHours
	if trending {
		base = cfg.TrendingBaseHours
	}

	w := Window{LookbackHours: base}

	if today.Weekday() == time.Monday {
		w.LookbackHours += 48
		w.IncludeWeekendThread = true
	}

	if isHoliday(today.AddDate(0, 0, -1), holidays) {
		if today.Weekday() == time.Tuesday {
			w.LookbackHours += 48
			w.IncludeWeekendThread = true
		} else {
			w.LookbackHours += 24
		}
	}

	return w, nil
}

// Bounds converts the window into an absolute [after, before] epoch pair
// ending at now.
func (w Window) Bounds(now time.Time) (after, before int64) {
	return now.Add(-time.Duration(w.LookbackHours) * time.Hour).Unix(), now.Unix()
}

// Duration returns the lookback as a time.Duration.
func (w Window) Duration() time.Duration {
	return time.Duration(w.LookbackHours) * time.Hour
}

func isHoliday(day time.Time, holidays []time.Time) bool {
	for _, h := range holidays {
		if h.Year() == day.Year() && h.Month() == day.Month() && h.Day() == day.Day() {
			return true
		}
	}
	return false
}
