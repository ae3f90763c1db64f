// Package clock provides the calendar arithmetic used across the app on top of
// a fakeable wall clock.
package clock

import (
	"fmt"
	"time"

	"github.com/jmhodges/clock"
)

// DateLayout is the format of calendar dates stored by the app
const DateLayout = "2006-01-02"

// Calendar pairs a clock with the user's time zone
type Calendar struct {
	clk clock.Clock
	loc *time.Location
}

// New creates a calendar reading time from clk in loc.
// A nil loc means time.Local.
func New(clk clock.Clock, loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{clk: clk, loc: loc}
}

// System returns a calendar backed by the real clock
func System(loc *time.Location) *Calendar {
	return New(clock.New(), loc)
}

// Clock returns the underlying clock
func (c *Calendar) Clock() clock.Clock {
	return c.clk
}

// Location returns the calendar's time zone
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Now returns the current time in the calendar's time zone
func (c *Calendar) Now() time.Time {
	return c.clk.Now().In(c.loc)
}

// Today returns today's date as YYYY-MM-DD
func (c *Calendar) Today() string {
	return c.Now().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date as local midnight
func (c *Calendar) ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, c.loc)
}

// DayOfYear returns the 1-based ordinal day of t in the calendar's time zone
func (c *Calendar) DayOfYear(t time.Time) int {
	return t.In(c.loc).YearDay()
}

// Weekday returns the weekday index of t, 0 = Sunday
func (c *Calendar) Weekday(t time.Time) int {
	return int(t.In(c.loc).Weekday())
}

// DaysInMonth returns the number of days of the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekdayOfMonth returns the weekday index (0 = Sunday) of the 1st of the month
func FirstWeekdayOfMonth(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// MonthGrid lists the cells of a month calendar: one zero per leading blank
// (as many as the first weekday), then the days 1..n.
func MonthGrid(year int, month time.Month) []int {
	lead := FirstWeekdayOfMonth(year, month)
	n := DaysInMonth(year, month)
	grid := make([]int, lead, lead+n)
	for d := 1; d <= n; d++ {
		grid = append(grid, d)
	}
	return grid
}

// ParseClock parses an "HH:MM" time of day
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}
