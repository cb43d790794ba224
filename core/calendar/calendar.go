// Package calendar holds the school-day date arithmetic shared by the timetable navigator
// and its callers.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	DateLayout  = "2006-01-02"
	LabelLayout = "Monday, 2 January 2006"
)

// Direction is the navigation direction of a timetable request.
type Direction int

const (
	Initial  Direction = -1
	Backward Direction = 0
	Forward  Direction = 1
)

var ErrInvalidDirection = errors.New("invalid navigation direction")

// ParseDirection parses the wire value of a direction ("-1", "0" or "1").
func ParseDirection(s string) (Direction, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Initial, ErrInvalidDirection
	}
	d := Direction(v)
	if !d.Valid() {
		return Initial, ErrInvalidDirection
	}
	return d, nil
}

func (d Direction) Valid() bool {
	return d == Initial || d == Backward || d == Forward
}

// Probes reports whether an empty day in this direction should be skipped over.
func (d Direction) Probes() bool {
	return d == Backward || d == Forward
}

func (d Direction) String() string {
	switch d {
	case Initial:
		return "initial"
	case Backward:
		return "backward"
	case Forward:
		return "forward"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Date truncates t to midnight in t's location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing date %q", s)
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DayLabel renders t as e.g. "Monday, 2 January 2006".
func DayLabel(t time.Time) string {
	return t.Format(LabelLayout)
}

// ResolveDate steps anchor one school day in dir.
// Monday steps back to the previous Friday and Friday forward to the next Monday;
// holidays are not inspected.
func ResolveDate(anchor time.Time, dir Direction) time.Time {
	anchor = Date(anchor)
	switch dir {
	case Backward:
		if anchor.Weekday() == time.Monday {
			return anchor.AddDate(0, 0, -3)
		}
		return anchor.AddDate(0, 0, -1)
	case Forward:
		if anchor.Weekday() == time.Friday {
			return anchor.AddDate(0, 0, 3)
		}
		return anchor.AddDate(0, 0, 1)
	}
	return anchor
}

// Monday returns the Monday of t's week.
func Monday(t time.Time) time.Time {
	t = Date(t)
	offset := (int(t.Weekday()) + 6) % 7 // days since Monday
	return t.AddDate(0, 0, -offset)
}

// DaysBetween counts calendar days from a to b, ignoring the time of day.
func DaysBetween(a, b time.Time) int {
	a, b = Date(a), Date(b)
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// TermWeek counts calendar weeks from the Monday of the week termStart falls in.
// The first (possibly partial) week is week 1.
func TermWeek(date, termStart time.Time) int {
	days := DaysBetween(Monday(termStart), date)
	if days < 0 {
		return 0
	}
	return days/7 + 1
}

// InRange reports whether date falls within [start, end], comparing dates only.
func InRange(date, start, end time.Time) bool {
	return DaysBetween(start, date) >= 0 && DaysBetween(date, end) >= 0
}
