// Package dummydb holds in-memory stand-ins for the host database and the SIS.
package dummydb

import (
	"sync"
	"time"

	"github.com/trezcool/myday/core/timetable"
)

type (
	DB struct {
		user       *userTable
		course     *courseTable
		preference *preferenceTable
		sis        *sisTables
	}

	userTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*timetable.User
		mentors map[string]map[string]struct{} // mentor -> mentees
	}

	courseTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*timetable.Course
	}

	preferenceTable struct {
		sync.RWMutex
		table map[string]int // "userID/name" -> value
	}

	sisTables struct {
		sync.RWMutex
		periods  map[string][]timetable.RawPeriod // "userID/role/YYYY-MM-DD" -> rows
		term     *timetable.TermWindow
		mappings []timetable.CourseMapping
		err      error
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{
			table:   make(map[int]*timetable.User),
			mentors: make(map[string]map[string]struct{}),
		},
		course:     &courseTable{table: make(map[int]*timetable.Course)},
		preference: &preferenceTable{table: make(map[string]int)},
		sis:        &sisTables{periods: make(map[string][]timetable.RawPeriod)},
	}
	return db, nil
}

func periodKey(userID string, role timetable.Role, date time.Time) string {
	return userID + "/" + string(role) + "/" + date.Format("2006-01-02")
}
