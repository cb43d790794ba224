package dummydb

import (
	"context"
	"time"

	"github.com/trezcool/myday/core/timetable"
)

// Source is an in-memory SIS; rows are registered per user, role and day.
type Source struct {
	db *sisTables
}

var _ timetable.Source = (*Source)(nil) // interface compliance check

func NewSource(db *DB) *Source {
	return &Source{db: db.sis}
}

func (src *Source) AddPeriods(userID string, role timetable.Role, date time.Time, rows ...timetable.RawPeriod) {
	src.db.Lock()
	defer src.db.Unlock()

	key := periodKey(userID, role, date)
	src.db.periods[key] = append(src.db.periods[key], rows...)
}

func (src *Source) SetTermWindow(w *timetable.TermWindow) {
	src.db.Lock()
	defer src.db.Unlock()
	src.db.term = w
}

func (src *Source) AddCourseMapping(m ...timetable.CourseMapping) {
	src.db.Lock()
	defer src.db.Unlock()
	src.db.mappings = append(src.db.mappings, m...)
}

// Fail makes every following call return err (nil restores the source).
func (src *Source) Fail(err error) {
	src.db.Lock()
	defer src.db.Unlock()
	src.db.err = err
}

func (src *Source) FetchRawPeriods(_ context.Context, userID string, role timetable.Role, date time.Time) ([]timetable.RawPeriod, error) {
	src.db.RLock()
	defer src.db.RUnlock()

	if src.db.err != nil {
		return nil, src.db.err
	}
	rows := src.db.periods[periodKey(userID, role, date)]
	out := make([]timetable.RawPeriod, len(rows))
	copy(out, rows)
	return out, nil
}

func (src *Source) FetchTermWindow(context.Context) (timetable.TermWindow, error) {
	src.db.RLock()
	defer src.db.RUnlock()

	if src.db.err != nil {
		return timetable.TermWindow{}, src.db.err
	}
	if src.db.term == nil {
		return timetable.TermWindow{}, timetable.ErrTermNotFound
	}
	return *src.db.term, nil
}

func (src *Source) FetchCourseMapping(_ context.Context, classCodes []string) ([]timetable.CourseMapping, error) {
	src.db.RLock()
	defer src.db.RUnlock()

	if src.db.err != nil {
		return nil, src.db.err
	}
	var out []timetable.CourseMapping
	for _, m := range src.db.mappings {
		for _, code := range classCodes {
			if m.ExtCode == code {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}
