package window

import (
	"errors"
	"testing"
	"time"
)

var testCfg = Config{TrendingBaseHours: 6, QuietBaseHours: 72}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestComputeEmptyCalendar(t *testing.T) {
	_, err := Compute(date(2021, time.November, 22), nil, true, testCfg)
	if !errors.Is(err, ErrEmptyCalendar) {
		t.Fatalf("expected ErrEmptyCalendar, got %v", err)
	}
}

func TestComputePlainWeekday(t *testing.T) {
	holidays := []time.Time{date(2021, time.July, 5)}

	// Wednesday, no holiday yesterday
	w, err := Compute(date(2021, time.November, 24), holidays, true, testCfg)
	if err != nil {
		t.Fatal(err)
	}
	if w.LookbackHours != 6 {
		t.Errorf("expected 6 lookback hours, got %d", w.LookbackHours)
	}
	if w.IncludeWeekendThread {
		t.Error("weekend thread flag should be false on a plain weekday")
	}
}

func TestComputeMondayTrending(t *testing.T) {
	holidays := []time.Time{date(2021, time.July, 5)}

	// 2021-11-22 is a Monday, yesterday is not a holiday
	w, err := Compute(date(2021, time.November, 22), holidays, true, testCfg)
	if err != nil {
		t.Fatal(err)
	}
	if w.LookbackHours != 54 {
		t.Errorf("expected 6+48=54 lookback hours, got %d", w.LookbackHours)
	}
	if !w.IncludeWeekendThread {
		t.Error("expected weekend thread flag on Monday")
	}
}

func TestComputeQuietBase(t *testing.T) {
	holidays := []time.Time{date(2021, time.July, 5)}

	w, err := Compute(date(2021, time.November, 24), holidays, false, testCfg)
	if err != nil {
		t.Fatal(err)
	}
	if w.LookbackHours != 72 {
		t.Errorf("expected quiet base of 72 hours, got %d", w.LookbackHours)
	}
}

func TestComputeHolidayYesterday(t *testing.T) {
	// 2021-07-05 (Monday) was a holiday; 2021-07-06 is a Tuesday
	holidays := []time.Time{date(2021, time.July, 5)}

	w, err := Compute(date(2021, time.July, 6), holidays, true, testCfg)
	if err != nil {
		t.Fatal(err)
	}
	if w.LookbackHours != 54 {
		t.Errorf("expected 6+48=54 on Tuesday after a holiday, got %d", w.LookbackHours)
	}
	if !w.IncludeWeekendThread {
		t.Error("expected weekend thread flag on Tuesday after a holiday")
	}

	// Holiday on a Wednesday: Thursday only gets +24 and no flag
	holidays = []time.Time{date(2021, time.November, 24)}
	w, err = Compute(date(2021, time.November, 25), holidays, true, testCfg)
	if err != nil {
		t.Fatal(err)
	}
	if w.LookbackHours != 30 {
		t.Errorf("expected 6+24=30 after a midweek holiday, got %d", w.LookbackHours)
	}
	if w.IncludeWeekendThread {
		t.Error("weekend thread flag should not be set midweek")
	}
}

func TestComputeMondayAfterSundayHoliday(t *testing.T) {
	// Both adjustments fire: Monday +48 and holiday-yesterday +24.
	holidays := []time.Time{date(2021, time.November, 21)} // Sunday

	w, err := Compute(date(2021, time.November, 22), holidays, true, testCfg)
	if err != nil {
		t.Fatal(err)
	}
	if w.LookbackHours != 78 {
		t.Errorf("expected 6+48+24=78, got %d", w.LookbackHours)
	}
	if !w.IncludeWeekendThread {
		t.Error("expected weekend thread flag")
	}
}

func TestComputeAdjustmentsNeverShrink(t *testing.T) {
	holidays := []time.Time{
		date(2021, time.July, 5),
		date(2021, time.November, 25),
		date(2021, time.December, 24),
	}

	for _, trending := range []bool{true, false} {
		base := testCfg.QuietBaseHours
		if trending {
			base = testCfg.TrendingBaseHours
		}
		// Every day of a couple of weeks spanning holidays and weekends.
		for d := 0; d < 14; d++ {
			today := date(2021, time.November, 18).AddDate(0, 0, d)
			w, err := Compute(today, holidays, trending, testCfg)
			if err != nil {
				t.Fatal(err)
			}
			if w.LookbackHours < base {
				t.Errorf("%s trending=%v: lookback %d below base %d",
					today.Format("2006-01-02"), trending, w.LookbackHours, base)
			}
		}
	}
}

func TestBounds(t *testing.T) {
	w := Window{LookbackHours: 24}
	now := time.Date(2021, time.November, 22, 12, 0, 0, 0, time.UTC)
	after, before := w.Bounds(now)
	if before != now.Unix() {
		t.Errorf("before = %d, want %d", before, now.Unix())
	}
	if before-after != 24*3600 {
		t.Errorf("window span = %d seconds, want 86400", before-after)
	}
}
