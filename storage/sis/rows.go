package sis

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/myday/core/timetable"
)

// SIS procedures differ in column casing (PeriodDescription vs perioddescription),
// so rows are read as maps keyed by lower-cased column names.
type row map[string]interface{}

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

func scanRow(rows *sqlx.Rows) (row, error) {
	raw := make(map[string]interface{})
	if err := rows.MapScan(raw); err != nil {
		return nil, err
	}
	r := make(row, len(raw))
	for k, v := range raw {
		r[strings.ToLower(k)] = v
	}
	return r, nil
}

func (r row) str(col string) null.String {
	switch v := r[col].(type) {
	case nil:
		return null.String{}
	case string:
		return null.StringFrom(strings.TrimSpace(v))
	case []byte:
		return null.StringFrom(strings.TrimSpace(string(v)))
	case int64:
		return null.StringFrom(strconv.FormatInt(v, 10))
	case time.Time:
		return null.StringFrom(v.Format(timetable.RawDateTimeLayout))
	default:
		return null.StringFrom(strings.TrimSpace(fmt.Sprint(v)))
	}
}

// datetime reads a SIS wall-clock value and places it in loc.
func (r row) datetime(col string, loc *time.Location) null.Time {
	var t time.Time
	switch v := r[col].(type) {
	case time.Time:
		t = v
	case string, []byte:
		s := r.str(col).String
		for _, layout := range dateTimeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				t = parsed
				break
			}
		}
	}
	if t.IsZero() {
		return null.Time{}
	}
	y, m, d := t.Date()
	return null.TimeFrom(time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc))
}

func (r row) integer(col string) int {
	i, _ := strconv.Atoi(r.str(col).String)
	return i
}

func (r row) period(loc *time.Location) timetable.RawPeriod {
	return timetable.RawPeriod{
		Period:            r.str("period").String,
		SortTime:          r.datetime("sorttime", loc).Time,
		EndTime:           r.datetime("timetabledatetimeto", loc).Time,
		PeriodDescription: r.str("perioddescription").String,
		Room:              r.str("room").String,
		ClassDescription:  r.str("classdescription").String,
		ClassCode:         r.str("classcode").String,
		StaffID:           r.str("staffid").String,
		DefinitionDay:     r.str("definitionday").String,
	}
}

func (r row) termWindow(loc *time.Location) (timetable.TermWindow, bool) {
	start, end := r.datetime("startdate", loc), r.datetime("enddate", loc)
	if !start.Valid || !end.Valid {
		return timetable.TermWindow{}, false
	}
	return timetable.TermWindow{
		Start:        start.Time,
		End:          end.Time,
		FileSemester: r.str("filesemester").String,
	}, true
}

func (r row) mapping() timetable.CourseMapping {
	return timetable.CourseMapping{
		ID:             r.integer("id"),
		ExtCode:        r.str("extcode").String,
		TargetIDNumber: r.str("moodlecode").String,
	}
}
