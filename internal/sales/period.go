package sales

import (
	"errors"
	"strings"
	"time"
)

// Period names a reporting window relative to the current local date.
type Period string

const (
	Today     Period = "today"
	Yesterday Period = "yesterday"
	Weekly    Period = "weekly"
	ThisMonth Period = "this_month"
)

// ErrInvalidPeriod is returned for period names outside the supported set.
var ErrInvalidPeriod = errors.New("invalid period")

// ParsePeriod normalises raw. Blank input means today.
func ParsePeriod(raw string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case "":
		return Today, nil
	case Today, Yesterday, Weekly, ThisMonth:
		return p, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// Window returns the half-open interval [from, to) covered by p on the
// calendar of loc. Weeks start on Monday.
func Window(p Period, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	switch p {
	case Today:
		return day, day.AddDate(0, 0, 1), nil
	case Yesterday:
		return day.AddDate(0, 0, -1), day, nil
	case Weekly:
		offset := (int(day.Weekday()) + 6) % 7
		monday := day.AddDate(0, 0, -offset)
		return monday, monday.AddDate(0, 0, 7), nil
	case ThisMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, loc)
		return first, first.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
}
