// Package testutil holds fixtures shared by the api and admin tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/myday/core/calendar"
	"github.com/trezcool/myday/core/timetable"
)

func CreateUser(t *testing.T, dir timetable.DirectoryAdmin, uname string, roles ...string) timetable.User {
	usr, err := dir.SaveUser(context.Background(), timetable.User{
		Username:    uname,
		Email:       uname + "@test.cd",
		FullName:    uname,
		CampusRoles: roles,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(t *testing.T, dir timetable.DirectoryAdmin, idNumber, name string) timetable.Course {
	course, err := dir.SaveCourse(context.Background(), timetable.Course{IDNumber: idNumber, FullName: name})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return course
}

func AddMentor(t *testing.T, dir timetable.DirectoryAdmin, mentor, mentee string) {
	if err := dir.AddMentor(context.Background(), mentor, mentee); err != nil {
		t.Fatalf("AddMentor() failed: %v", err)
	}
}

// At returns date at the "HHMM" clock time.
func At(t *testing.T, date time.Time, hhmm string) time.Time {
	c, err := calendar.ParseClockTime(hhmm)
	if err != nil {
		t.Fatalf("At(%q) failed: %v", hhmm, err)
	}
	return c.On(date)
}

// Period builds a SIS row on date running from start to end ("HHMM").
func Period(t *testing.T, date time.Time, name, start, end, desc, classCode, staffID string) timetable.RawPeriod {
	return timetable.RawPeriod{
		Period:            name,
		SortTime:          At(t, date, start),
		EndTime:           At(t, date, end),
		PeriodDescription: name,
		Room:              "R1",
		ClassDescription:  desc,
		ClassCode:         classCode,
		StaffID:           staffID,
	}
}
