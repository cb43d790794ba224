package dummydb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/myday/core/timetable"
)

func TestDirectory(t *testing.T) {
	ctx := context.Background()
	db, err := Open()
	require.NoError(t, err)
	dir := NewDirectory(db)

	s1, err := dir.SaveUser(ctx, timetable.User{Username: " s1 ", Email: "S1@School.test", CampusRoles: []string{"Student"}})
	require.NoError(t, err)
	assert.Equal(t, 1, s1.ID)
	assert.Equal(t, "s1", s1.Username)
	assert.Equal(t, "s1@school.test", s1.Email)

	// saving again updates in place
	s1, err = dir.SaveUser(ctx, timetable.User{Username: "s1", CampusRoles: []string{"Boarder"}})
	require.NoError(t, err)
	assert.Equal(t, 1, s1.ID)

	got, err := dir.GetUser(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Boarder"}, got.CampusRoles)

	_, err = dir.GetUser(ctx, "ghost")
	assert.Equal(t, timetable.ErrNotFound, err)

	require.NoError(t, dir.AddMentor(ctx, "P1", "s1"))
	ok, _ := dir.IsMentor(ctx, "p1", "S1")
	assert.True(t, ok)
	ok, _ = dir.IsMentor(ctx, "s1", "p1")
	assert.False(t, ok)

	_, _ = dir.SaveUser(ctx, timetable.User{Username: "tsmith"})
	ids, err := dir.GetUserIDs(ctx, []string{"tsmith", "ghost"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"tsmith": 2}, ids)

	ids, err = dir.GetUserIDs(ctx, []string{"TSmith"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"TSmith": 2}, ids)

	c, err := dir.SaveCourse(ctx, timetable.Course{IDNumber: "MATH-7", FullName: "Maths"})
	require.NoError(t, err)
	courses, err := dir.GetCoursesByIDNumber(ctx, []string{"MATH-7", "NOPE"})
	require.NoError(t, err)
	assert.Equal(t, []timetable.Course{c}, courses)
}

func TestPreferenceStore(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	prefs := NewPreferenceStore(db)

	_, err := prefs.GetPreference(ctx, "s1", timetable.PrefCollapsed)
	assert.Equal(t, timetable.ErrNotFound, err)

	require.NoError(t, prefs.SetPreference(ctx, "s1", timetable.PrefCollapsed, 0))
	v, err := prefs.GetPreference(ctx, "s1", timetable.PrefCollapsed)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestSource(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	src := NewSource(db)
	day := time.Date(2023, 3, 8, 0, 0, 0, 0, time.UTC)

	src.AddPeriods("s1", timetable.RoleStudent, day, timetable.RawPeriod{PeriodDescription: "Period 1"})
	rows, err := src.FetchRawPeriods(ctx, "s1", timetable.RoleStudent, day)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, _ = src.FetchRawPeriods(ctx, "s1", timetable.RoleStaff, day)
	assert.Empty(t, rows)

	_, err = src.FetchTermWindow(ctx)
	assert.Equal(t, timetable.ErrTermNotFound, err)

	src.AddCourseMapping(
		timetable.CourseMapping{ID: 1, ExtCode: "MA7A", TargetIDNumber: "MATH-7"},
		timetable.CourseMapping{ID: 2, ExtCode: "ART", TargetIDNumber: "ART-7"},
	)
	mappings, _ := src.FetchCourseMapping(ctx, []string{"MA7A"})
	assert.Len(t, mappings, 1)
}
