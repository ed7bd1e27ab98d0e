package calendar

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Calendar answers date questions in one business location.
type Calendar struct {
	loc *time.Location
}

func New(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{loc: loc}
}

// NewFromName loads the IANA zone by name, e.g. "Asia/Jakarta".
func NewFromName(name string) (*Calendar, error) {
	if name == "" || name == "Local" {
		return New(time.Local), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return New(loc), nil
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Format renders t as the local calendar date (YYYY-MM-DD).
func (c *Calendar) Format(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

func (c *Calendar) Today(now time.Time) string {
	return c.Format(now)
}

// ParseDate parses YYYY-MM-DD as local midnight.
func (c *Calendar) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, c.loc)
}

// StartOfDay truncates t to local midnight.
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	l := t.In(c.loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, c.loc)
}

// DateRange returns inclusive first/last dates for a reporting period.
// Weeks run Monday to Sunday. Unknown periods resolve to today.
func (c *Calendar) DateRange(period Period, now time.Time) (start, end string) {
	day := c.StartOfDay(now)

	switch period {
	case PeriodWeek:
		offset := 1 - int(day.Weekday())
		if day.Weekday() == time.Sunday {
			offset = -6
		}
		first := day.AddDate(0, 0, offset)
		return c.Format(first), c.Format(first.AddDate(0, 0, 6))
	case PeriodMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, c.loc)
		return c.Format(first), c.Format(first.AddDate(0, 1, -1))
	default:
		today := c.Format(day)
		return today, today
	}
}

// MonthBounds returns the first and last date of month/year.
func (c *Calendar) MonthBounds(month, year int) (first, last string) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, c.loc)
	return c.Format(start), c.Format(start.AddDate(0, 1, -1))
}

// WorkingDaysBetween counts Monday-Friday dates in [start, end].
func (c *Calendar) WorkingDaysBetween(start, end time.Time) int {
	from := c.StartOfDay(start)
	to := c.StartOfDay(end)
	if to.Before(from) {
		return 0
	}

	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsWorkingDay(d) {
			count++
		}
	}
	return count
}

func (c *Calendar) WorkingDaysInMonth(month, year int) int {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, c.loc)
	return c.WorkingDaysBetween(first, first.AddDate(0, 1, -1))
}

// WorkingDaysInRange is WorkingDaysBetween over YYYY-MM-DD strings.
func (c *Calendar) WorkingDaysInRange(start, end string) (int, error) {
	from, err := c.ParseDate(start)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %w", err)
	}
	to, err := c.ParseDate(end)
	if err != nil {
		return 0, fmt.Errorf("invalid end date: %w", err)
	}
	return c.WorkingDaysBetween(from, to), nil
}

func IsWorkingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
