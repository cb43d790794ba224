package timetable

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/calendar"
)

type nopLogger struct {
	mu    sync.Mutex
	warns []string
}

var _ core.Logger = (*nopLogger)(nil) // interface compliance check

func (l *nopLogger) Enable(bool)                   {}
func (l *nopLogger) Debug(string, ...interface{}) {}
func (l *nopLogger) Info(string, ...interface{})  {}
func (l *nopLogger) Warn(msg string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}
func (l *nopLogger) Error(string, ...interface{}) {}
func (l *nopLogger) Fatal(string, ...interface{}) {}

// fakeSource serves rows per YYYY-MM-DD and records every date asked for.
type fakeSource struct {
	rows       map[string][]RawPeriod
	term       *TermWindow
	termErr    error
	mappings   []CourseMapping
	err        error
	fetchedFor []string
}

var _ Source = (*fakeSource)(nil)

func (s *fakeSource) FetchRawPeriods(_ context.Context, _ string, _ Role, date time.Time) ([]RawPeriod, error) {
	s.fetchedFor = append(s.fetchedFor, calendar.FormatDate(date))
	if s.err != nil {
		return nil, s.err
	}
	return s.rows[calendar.FormatDate(date)], nil
}

func (s *fakeSource) FetchTermWindow(context.Context) (TermWindow, error) {
	if s.termErr != nil {
		return TermWindow{}, s.termErr
	}
	if s.term == nil {
		return TermWindow{}, ErrTermNotFound
	}
	return *s.term, nil
}

func (s *fakeSource) FetchCourseMapping(_ context.Context, codes []string) ([]CourseMapping, error) {
	var out []CourseMapping
	for _, m := range s.mappings {
		for _, c := range codes {
			if m.ExtCode == c {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

type fakeDirectory struct {
	users   map[string]User
	mentors map[string][]string // mentor -> mentees
	courses []Course
}

var _ Directory = (*fakeDirectory)(nil)

func (d *fakeDirectory) GetUser(_ context.Context, username string) (User, error) {
	usr, ok := d.users[strings.ToLower(username)]
	if !ok {
		return User{}, ErrNotFound
	}
	return usr, nil
}

func (d *fakeDirectory) IsMentor(_ context.Context, mentor, mentee string) (bool, error) {
	for _, m := range d.mentors[mentor] {
		if m == mentee {
			return true, nil
		}
	}
	return false, nil
}

func (d *fakeDirectory) GetCoursesByIDNumber(_ context.Context, idNumbers []string) ([]Course, error) {
	var out []Course
	for _, c := range d.courses {
		for _, id := range idNumbers {
			if c.IDNumber == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (d *fakeDirectory) GetUserIDs(_ context.Context, usernames []string) (map[string]int, error) {
	ids := make(map[string]int)
	for _, u := range usernames {
		if usr, ok := d.users[u]; ok {
			ids[u] = usr.ID
		}
	}
	return ids, nil
}

type fakePrefs struct {
	mu     sync.RWMutex
	values map[string]int
}

var _ PreferenceStore = (*fakePrefs)(nil)

func (p *fakePrefs) GetPreference(_ context.Context, userID, name string) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[userID+"/"+name]
	if !ok {
		return 0, ErrNotFound
	}
	return v, nil
}

func (p *fakePrefs) SetPreference(_ context.Context, userID, name string, value int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.values == nil {
		p.values = make(map[string]int)
	}
	p.values[userID+"/"+name] = value
	return nil
}

func at(d string, h, m int) time.Time {
	t, err := time.ParseInLocation(calendar.DateLayout, d, time.UTC)
	if err != nil {
		panic(err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), h, m, 0, 0, time.UTC)
}

func row(day string, startH int, periodDesc, classDesc, classCode, staffID string) RawPeriod {
	return RawPeriod{
		Period:            strings.TrimPrefix(periodDesc, "Period "),
		SortTime:          at(day, startH, 0),
		EndTime:           at(day, startH+1, 0),
		PeriodDescription: periodDesc,
		Room:              "R1",
		ClassDescription:  classDesc,
		ClassCode:         classCode,
		StaffID:           staffID,
		DefinitionDay:     "Day 3",
	}
}
