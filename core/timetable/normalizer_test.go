package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = "2023-03-08"

var testOpts = NormalizeOptions{
	PeriodNames: []string{"Period", "Session", "Pastoral", "Recess", "Lunch"},
	BreakNames:  []string{"Recess", " Lunch "},
	Colours:     []ColourRule{{Key: "math", Colour: "#111"}, {Key: "science", Colour: "#222"}},
	BaseURL:     "https://lms.test",
}

func TestNormalize_filter(t *testing.T) {
	rows := []RawPeriod{
		row(day, 8, "Homeroom Admin", "Roll call", "", ""),
		row(day, 9, "Period 1", "English 7A", "ENG7A", ""),
		row(day, 10, "pastoral care", "Chapel", "", ""),
	}
	got := Normalize(rows, RoleStudent, testOpts, Lookups{}, at(day, 7, 0))

	require.Len(t, got.Periods, 2)
	assert.Equal(t, "Period 1", got.Periods[0].PeriodDescription)
	assert.Equal(t, "pastoral care", got.Periods[1].PeriodDescription)
}

func TestNormalize_keepsSourceOrder(t *testing.T) {
	rows := []RawPeriod{
		row(day, 13, "Period 4", "History", "HIS", ""),
		row(day, 9, "Period 1", "English", "ENG", ""),
		row(day, 11, "Period 2", "Art", "ART", ""),
	}
	got := Normalize(rows, RoleStudent, testOpts, Lookups{}, at(day, 7, 0))

	var descs []string
	for _, p := range got.Periods {
		descs = append(descs, p.PeriodDescription)
	}
	assert.Equal(t, []string{"Period 4", "Period 1", "Period 2"}, descs)
}

func TestNormalize_dedupMerge(t *testing.T) {
	tests := []struct {
		name string
		rows []RawPeriod
		want []string
	}{
		{
			name: "distinguishing word appended",
			rows: []RawPeriod{
				row(day, 9, "Period 3", "Maths 7A", "MA7A", "tsmith"),
				row(day, 9, "Period 3", "Maths 7B", "MA7B", "tsmith"),
			},
			want: []string{"Maths 7A, 7B"},
		},
		{
			name: "identical rows merge silently",
			rows: []RawPeriod{
				row(day, 9, "Period 3", "Maths 7A", "MA7A", "tsmith"),
				row(day, 9, "Period 3", "Maths 7A", "MA7A", "tsmith"),
			},
			want: []string{"Maths 7A"},
		},
		{
			name: "three concurrent classes",
			rows: []RawPeriod{
				row(day, 9, "Period 3", "Maths 7A", "MA7A", "tsmith"),
				row(day, 9, "Period 3", "Maths 7B", "MA7B", "tsmith"),
				row(day, 9, "Period 3", "Maths 7C", "MA7C", "tsmith"),
			},
			want: []string{"Maths 7A, 7B, 7C"},
		},
		{
			name: "non adjacent duplicates kept",
			rows: []RawPeriod{
				row(day, 9, "Period 3", "Maths 7A", "MA7A", ""),
				row(day, 10, "Period 4", "Science", "SCI", ""),
				row(day, 11, "Period 3", "Maths 7B", "MA7B", ""),
			},
			want: []string{"Maths 7A", "Science", "Maths 7B"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.rows, RoleStaff, testOpts, Lookups{}, at(day, 7, 0))
			var descs []string
			for _, p := range got.Periods {
				descs = append(descs, p.ClassDescription)
			}
			assert.Equal(t, tt.want, descs)
			assert.Equal(t, len(tt.want), got.NumPeriods)
		})
	}
}

func TestNormalize_progress(t *testing.T) {
	rows := []RawPeriod{{
		PeriodDescription: "Period 2",
		ClassDescription:  "Art",
		SortTime:          at(day, 10, 0),
		EndTime:           at(day, 11, 0),
	}}

	tests := []struct {
		name       string
		now        time.Time
		wantStatus string
		wantAmount int
	}{
		{name: "before", now: at(day, 9, 0), wantStatus: ProgressUpcoming, wantAmount: 0},
		{name: "at start", now: at(day, 10, 0), wantStatus: ProgressInProgress, wantAmount: 0},
		{name: "half way", now: at(day, 10, 30), wantStatus: ProgressInProgress, wantAmount: 50},
		{name: "floored", now: at(day, 10, 20), wantStatus: ProgressInProgress, wantAmount: 33},
		{name: "at end", now: at(day, 11, 0), wantStatus: ProgressComplete, wantAmount: 100},
		{name: "after", now: at(day, 11, 30), wantStatus: ProgressComplete, wantAmount: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(rows, RoleStudent, testOpts, Lookups{}, tt.now).Periods[0]
			if got.ProgressStatus != tt.wantStatus || got.ProgressAmount != tt.wantAmount {
				t.Errorf("failed! progress = %s/%d; want %s/%d",
					got.ProgressStatus, got.ProgressAmount, tt.wantStatus, tt.wantAmount)
			}
		})
	}
}

func TestNormalize_progressIsMonotonic(t *testing.T) {
	rows := []RawPeriod{row(day, 10, "Period 2", "Art", "ART", "")}
	last := -1
	for now := at(day, 9, 0); !now.After(at(day, 12, 0)); now = now.Add(time.Minute) {
		amount := Normalize(rows, RoleStudent, testOpts, Lookups{}, now).Periods[0].ProgressAmount
		if amount < last || amount < 0 || amount > 100 {
			t.Fatalf("failed! progress at %s = %d; previous %d", now.Format("15:04"), amount, last)
		}
		last = amount
	}
}

func TestNormalize_breaks(t *testing.T) {
	rows := []RawPeriod{
		row(day, 10, "Recess", "Recess", "", ""),
		row(day, 11, "Period 3", "Science", "SCI", ""),
		row(day, 12, "Lunch", "Lunch ", "", ""),
	}
	got := Normalize(rows, RoleStudent, testOpts, Lookups{}, at(day, 7, 0))

	require.Len(t, got.Periods, 3)
	assert.True(t, got.Periods[0].IsBreak)
	assert.Contains(t, got.Periods[0].ExtraHTMLClasses, "break")
	assert.False(t, got.Periods[1].IsBreak)
	assert.Empty(t, got.Periods[1].ExtraHTMLClasses)
	assert.True(t, got.Periods[2].IsBreak)
	assert.Equal(t, 2, got.NumBreaks)
	assert.Equal(t, 3, got.NumPeriods)
}

func TestNormalize_freePeriod(t *testing.T) {
	rows := []RawPeriod{row(day, 9, "Period 1", "", "", "")}
	got := Normalize(rows, RoleStudent, testOpts, Lookups{}, at(day, 7, 0))

	require.Len(t, got.Periods, 1)
	assert.Equal(t, "Free period", got.Periods[0].AltDescription)
	assert.False(t, got.Periods[0].IsBreak)
	assert.Empty(t, got.Periods[0].CourseLink)
}

func TestNormalize_staffGapSuppression(t *testing.T) {
	rows := []RawPeriod{
		row(day, 9, "Period 4", "", "", ""),
		row(day, 10, "Period 5", "Science 8B", "SCI8B", ""),
		row(day, 11, "Session 6", "", "", ""),
	}

	staff := Normalize(rows, RoleStaff, testOpts, Lookups{}, at(day, 7, 0))
	require.Len(t, staff.Periods, 2)
	assert.Equal(t, "Period 5", staff.Periods[0].PeriodDescription)
	assert.Equal(t, "Session 6", staff.Periods[1].PeriodDescription)
	assert.True(t, staff.IsStaff)
	assert.False(t, staff.IsStudent)

	student := Normalize(rows, RoleStudent, testOpts, Lookups{}, at(day, 7, 0))
	require.Len(t, student.Periods, 3)
	assert.Equal(t, "Free period", student.Periods[0].AltDescription)
	assert.True(t, student.IsStudent)
}

func TestNormalize_colourOrder(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{desc: "Applied Mathematics Extension", want: "#111"},
		{desc: "Maths Science Combined", want: "#111"},
		{desc: "SCIENCE 9", want: "#222"},
		{desc: "History", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			rows := []RawPeriod{row(day, 9, "Period 1", tt.desc, "X", "")}
			got := Normalize(rows, RoleStudent, testOpts, Lookups{}, at(day, 7, 0)).Periods[0]
			assert.Equal(t, tt.want, got.ClassColor)
		})
	}
}

func TestNormalize_courseLinkAndPhoto(t *testing.T) {
	lk := Lookups{
		Mappings: []CourseMapping{
			{ID: 1, ExtCode: "MA7A", TargetIDNumber: ""},
			{ID: 2, ExtCode: "MA7A", TargetIDNumber: "missing"},
			{ID: 3, ExtCode: "MA7A", TargetIDNumber: "MATH-7"},
			{ID: 4, ExtCode: "MA7A", TargetIDNumber: "MATH-7-OLD"},
		},
		Courses: map[string]Course{
			"MATH-7":     {ID: 42, IDNumber: "MATH-7", FullName: "Year 7 Mathematics"},
			"MATH-7-OLD": {ID: 7, IDNumber: "MATH-7-OLD", FullName: "Old Maths"},
		},
		UserIDs: map[string]int{"tsmith": 15},
	}
	rows := []RawPeriod{
		row(day, 9, "Period 1", "Maths 7A", "MA7A", "tsmith"),
		row(day, 10, "Period 2", "Art", "ART", "unknown"),
	}
	got := Normalize(rows, RoleStudent, testOpts, lk, at(day, 7, 0))

	require.Len(t, got.Periods, 2)
	assert.Equal(t, "Year 7 Mathematics", got.Periods[0].AltDescription)
	assert.Equal(t, "https://lms.test/course/view.php?id=42", got.Periods[0].CourseLink)
	assert.Equal(t, "https://lms.test/user/pix.php/15/f2.jpg", got.Periods[0].TeacherPhoto)
	assert.Empty(t, got.Periods[1].AltDescription)
	assert.Empty(t, got.Periods[1].CourseLink)
	assert.Empty(t, got.Periods[1].TeacherPhoto)
}

func TestNormalize_times(t *testing.T) {
	rows := []RawPeriod{{
		PeriodDescription: "Period 1",
		ClassDescription:  "English",
		SortTime:          at(day, 8, 5),
		EndTime:           at(day, 13, 45),
	}}
	got := Normalize(rows, RoleStudent, testOpts, Lookups{}, at(day, 7, 0)).Periods[0]

	assert.Equal(t, "8:05", got.StartTime)
	assert.Equal(t, "13:45", got.EndTime)
	assert.Equal(t, "2023-03-08 08:05:00", got.SortTime)
}
