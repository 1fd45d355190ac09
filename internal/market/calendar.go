package market

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sentiment-scanner/internal/api"
	"sentiment-scanner/internal/logger"
)

const defaultCalendarURL = "https://www.nyse.com/markets/hours-calendars"

var digitsOnly = regexp.MustCompile(`[^0-9]`)

// Calendar fetches the exchange holiday schedule from the NYSE
// hours-and-calendars page. The page carries one table whose header row holds
// the years and whose cells hold dates like "Monday, January 1"; closed cells
// use an em dash.
type Calendar struct {
	client *api.Client
	url    string
}

// NewCalendar creates a Calendar against the public NYSE page.
func NewCalendar(client *api.Client) *Calendar {
	return &Calendar{client: client, url: defaultCalendarURL}
}

// NewCalendarWithURL creates a Calendar against a custom page, used in tests.
func NewCalendarWithURL(client *api.Client, url string) *Calendar {
	return &Calendar{client: client, url: url}
}

// Fetch returns the exchange holidays listed on the page. An empty or missing
// table is an error: the caller must treat it as fatal for the run, since an
// empty calendar would silently shrink lookback windows.
func (c *Calendar) Fetch(ctx context.Context) ([]time.Time, error) {
	resp, err := c.client.GET(ctx, c.url, api.BrowserHeaders())
	if err != nil {
		return nil, fmt.Errorf("fetch holiday calendar: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("parse holiday calendar page: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("holiday table not found at %s", c.url)
	}

	// Header row: first cell is the holiday name column, the rest are years.
	var years []string
	table.Find("tr").First().Find("th").Each(func(i int, s *goquery.Selection) {
		if i == 0 {
			return
		}
		years = append(years, strings.TrimSpace(s.Text()))
	})
	if len(years) == 0 {
		return nil, fmt.Errorf("holiday table at %s has no year columns", c.url)
	}

	var holidays []time.Time
	table.Find("tr").Each(func(row int, tr *goquery.Selection) {
		if row == 0 {
			return
		}
		tr.Find("td").Each(func(col int, td *goquery.Selection) {
			if col >= len(years) {
				return
			}
			cell := strings.TrimSpace(td.Text())
			// An em dash marks a year in which the holiday is not observed.
			if cell == "" || strings.Contains(cell, "—") {
				return
			}
			d, err := parseHolidayCell(cell, years[col])
			if err != nil {
				logger.Warn(ctx, "Skipping unparseable holiday cell", "cell", cell, "year", years[col])
				return
			}
			holidays = append(holidays, d)
		})
	})

	if len(holidays) == 0 {
		return nil, fmt.Errorf("holiday table at %s yielded no dates", c.url)
	}

	logger.Info(ctx, "Holiday calendar loaded", "entries", len(holidays))
	return holidays, nil
}

// parseHolidayCell parses a cell like "Monday, January 1" (optionally with a
// trailing footnote marker) against the column's year.
func parseHolidayCell(cell, year string) (time.Time, error) {
	fields := strings.Fields(strings.ReplaceAll(cell, ",", " "))
	if len(fields) < 3 {
		return time.Time{}, fmt.Errorf("unexpected holiday cell %q", cell)
	}
	month := fields[1]
	day := digitsOnly.ReplaceAllString(fields[2], "")
	if day == "" {
		return time.Time{}, fmt.Errorf("no day number in holiday cell %q", cell)
	}
	return time.Parse("2006-January-2", fmt.Sprintf("%s-%s-%s", year, month, day))
}

// IsHoliday reports whether day falls on one of the fetched holidays.
func IsHoliday(day time.Time, holidays []time.Time) bool {
	for _, h := range holidays {
		if h.Year() == day.Year() && h.Month() == day.Month() && h.Day() == day.Day() {
			return true
		}
	}
	return false
}

// ClosedToday reports whether the exchange is closed on day: a weekend or a
// holiday.
func ClosedToday(day time.Time, holidays []time.Time) bool {
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return true
	}
	return IsHoliday(day, holidays)
}
