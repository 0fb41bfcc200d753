package clock

import (
	"fmt"
	"time"
)

// Date is a calendar day in the engine's canonical timezone, formatted
// YYYY-MM-DD. The string form sorts chronologically, which the repositories
// rely on for range queries.
type Date string

const dateLayout = "2006-01-02"

// WeekID identifies an ISO 8601 week (Monday start), formatted YYYY-Www.
type WeekID string

// Cycle answers day/week boundary questions against a single configured
// timezone. Pure queries, no side effects.
type Cycle struct {
	clk Clock
	loc *time.Location
}

func NewCycle(clk Clock, loc *time.Location) *Cycle {
	if loc == nil {
		loc = time.UTC
	}
	return &Cycle{clk: clk, loc: loc}
}

func (c *Cycle) now() time.Time {
	return c.clk.Now().In(c.loc)
}

func (c *Cycle) Today() Date {
	return DateOf(c.now())
}

func (c *Cycle) Yesterday() Date {
	return DateOf(c.now().AddDate(0, 0, -1))
}

// DaysAgo returns the date n days before today.
func (c *Cycle) DaysAgo(n int) Date {
	return DateOf(c.now().AddDate(0, 0, -n))
}

func (c *Cycle) Week() WeekID {
	return WeekIDOf(c.now())
}

// PreviousWeek is the ISO week just completed relative to today. It is the
// week the weekly aggregator settles.
func (c *Cycle) PreviousWeek() WeekID {
	return WeekIDOf(c.now().AddDate(0, 0, -7))
}

func (c *Cycle) DayChanged(last Date) bool {
	return last != c.Today()
}

func (c *Cycle) WeekChanged(last WeekID) bool {
	return last != c.Week()
}

func (c *Cycle) Location() *time.Location {
	return c.loc
}

func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

func WeekIDOf(t time.Time) WeekID {
	year, week := t.ISOWeek()
	return WeekID(fmt.Sprintf("%d-W%02d", year, week))
}

func (d Date) Valid() bool {
	_, err := time.Parse(dateLayout, string(d))
	return err == nil
}

// Time parses the date at midnight in loc.
func (d Date) Time(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(dateLayout, string(d), loc)
}

// Weekday returns the lowercase english day name, or "" for invalid dates.
func (d Date) Weekday() string {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return ""
	}
	switch t.Weekday() {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

// Week returns the ISO week this date falls in.
func (d Date) Week() (WeekID, error) {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return "", err
	}
	return WeekIDOf(t), nil
}

func (w WeekID) Valid() bool {
	_, _, err := w.parse()
	return err == nil
}

func (w WeekID) parse() (year, week int, err error) {
	if _, err = fmt.Sscanf(string(w), "%d-W%d", &year, &week); err != nil {
		return 0, 0, fmt.Errorf("invalid week id %q: %w", string(w), err)
	}
	if week < 1 || week > 53 {
		return 0, 0, fmt.Errorf("invalid week id %q: week out of range", string(w))
	}
	return year, week, nil
}

// Days returns the seven dates of the week, Monday first.
func (w WeekID) Days() ([]Date, error) {
	year, week, err := w.parse()
	if err != nil {
		return nil, err
	}

	// January 4th always falls in ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekdayOffset := int(jan4.Weekday())
	if weekdayOffset == 0 {
		weekdayOffset = 7 // Sunday
	}
	monday := jan4.AddDate(0, 0, 1-weekdayOffset).AddDate(0, 0, (week-1)*7)

	days := make([]Date, 7)
	for i := range days {
		days[i] = DateOf(monday.AddDate(0, 0, i))
	}
	return days, nil
}

// Bounds returns the first and last date of the week.
func (w WeekID) Bounds() (first, last Date, err error) {
	days, err := w.Days()
	if err != nil {
		return "", "", err
	}
	return days[0], days[6], nil
}
