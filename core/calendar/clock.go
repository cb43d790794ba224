package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ClockTime is a wall-clock time of day.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime accepts "1530" or "15:30".
func ParseClockTime(s string) (ClockTime, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), ":", "")
	if len(raw) == 3 {
		raw = "0" + raw
	}
	if len(raw) != 4 {
		return ClockTime{}, errors.Errorf("invalid time of day %q", s)
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return ClockTime{}, errors.Errorf("invalid time of day %q", s)
	}
	ct := ClockTime{Hour: v / 100, Minute: v % 100}
	if ct.Hour > 23 || ct.Minute > 59 {
		return ClockTime{}, errors.Errorf("invalid time of day %q", s)
	}
	return ct, nil
}

// On returns the instant this clock time occurs on t's date.
func (c ClockTime) On(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, t.Location())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// FormatClock renders t as 24-hour H:MM without a leading zero on the hour.
func FormatClock(t time.Time) string {
	return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
}

// OpeningDate is the date a timetable opens on: today until the end-of-day cutoff,
// the next school day afterwards.
func OpeningDate(now time.Time, endOfDay ClockTime) time.Time {
	today := Date(now)
	if now.Before(endOfDay.On(now)) {
		return today
	}
	return ResolveDate(today, Forward)
}
