package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestResolveDate(t *testing.T) {
	tests := []struct {
		name   string
		anchor string
		dir    Direction
		want   string
	}{
		{name: "initial keeps date", anchor: "2023-03-08", dir: Initial, want: "2023-03-08"},
		{name: "monday backward to friday", anchor: "2023-03-06", dir: Backward, want: "2023-03-03"},
		{name: "wednesday backward to tuesday", anchor: "2023-03-08", dir: Backward, want: "2023-03-07"},
		{name: "friday forward to monday", anchor: "2023-03-10", dir: Forward, want: "2023-03-13"},
		{name: "thursday forward to friday", anchor: "2023-03-09", dir: Forward, want: "2023-03-10"},
		{name: "across month end", anchor: "2023-03-31", dir: Forward, want: "2023-04-03"},
		{name: "across year start", anchor: "2024-01-01", dir: Backward, want: "2023-12-29"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(ResolveDate(date(tt.anchor), tt.dir)); got != tt.want {
				t.Errorf("failed! ResolveDate() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestResolveDate_neverLandsOnWeekend(t *testing.T) {
	d := date("2023-01-02") // monday
	for i := 0; i < 400; i++ {
		d = ResolveDate(d, Forward)
		wd := d.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("failed! forward step landed on %v (%s)", wd, FormatDate(d))
		}
	}
	for i := 0; i < 400; i++ {
		d = ResolveDate(d, Backward)
		wd := d.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("failed! backward step landed on %v (%s)", wd, FormatDate(d))
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{in: "-1", want: Initial},
		{in: "0", want: Backward},
		{in: "1", want: Forward},
		{in: " 1 ", want: Forward},
		{in: "2", wantErr: true},
		{in: "fwd", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if tt.wantErr {
				assert.Equal(t, ErrInvalidDirection, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTermWeek(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		termStart string
		want      int
	}{
		{name: "first day", date: "2023-01-30", termStart: "2023-01-30", want: 1},
		{name: "partial first week", date: "2023-02-03", termStart: "2023-02-01", want: 1},
		{name: "monday after midweek start", date: "2023-02-06", termStart: "2023-02-01", want: 2},
		{name: "sunday ends week", date: "2023-02-05", termStart: "2023-01-30", want: 1},
		{name: "tenth week", date: "2023-04-03", termStart: "2023-01-30", want: 10},
		{name: "before start", date: "2023-01-20", termStart: "2023-01-30", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TermWeek(date(tt.date), date(tt.termStart)); got != tt.want {
				t.Errorf("failed! TermWeek() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestInRange(t *testing.T) {
	start, end := date("2023-01-30"), date("2023-04-06")
	late := time.Date(2023, 4, 6, 23, 59, 0, 0, time.UTC)

	assert.True(t, InRange(start, start, end))
	assert.True(t, InRange(end, start, end))
	assert.True(t, InRange(late, start, end))
	assert.False(t, InRange(date("2023-01-29"), start, end))
	assert.False(t, InRange(date("2023-04-07"), start, end))
}

func TestDayLabel(t *testing.T) {
	assert.Equal(t, "Wednesday, 8 March 2023", DayLabel(date("2023-03-08")))
}
