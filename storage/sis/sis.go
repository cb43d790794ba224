// Package sis reads timetable rows, term dates and class mappings from the external
// student-information-system through its stored procedures.
package sis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	"github.com/pkg/errors"

	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/calendar"
	"github.com/trezcool/myday/core/timetable"
)

type source struct {
	db   *sqlx.DB
	conf core.SISConfig
	loc  *time.Location
}

var _ timetable.Source = (*source)(nil) // interface compliance check

// Open connects to the SIS. The config must have been validated: procedure and table
// names end up in query text.
func Open(ctx context.Context, conf core.SISConfig, loc *time.Location) (*source, error) {
	if err := core.Validate.Struct(conf); err != nil {
		return nil, core.NewConfigError("sis", err)
	}
	db, err := sqlx.Open(conf.Driver, conf.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "opening SIS database")
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "pinging SIS database")
	}
	return NewSource(db, conf, loc), nil
}

func NewSource(db *sqlx.DB, conf core.SISConfig, loc *time.Location) *source {
	if loc == nil {
		loc = time.Local
	}
	return &source{db: db, conf: conf, loc: loc}
}

func (src *source) Close() error {
	return src.db.Close()
}

func (src *source) Ping(ctx context.Context) error {
	return src.db.PingContext(ctx)
}

// callQuery renders a stored procedure call with n positional parameters for the driver.
func (src *source) callQuery(proc string, n int) string {
	params := make([]string, n)
	switch src.conf.Driver {
	case "sqlserver":
		for i := range params {
			params[i] = fmt.Sprintf("@p%d", i+1)
		}
		return strings.TrimSpace("EXEC " + proc + " " + strings.Join(params, ", "))
	default:
		for i := range params {
			params[i] = fmt.Sprintf("$%d", i+1)
		}
		return "SELECT * FROM " + proc + "(" + strings.Join(params, ", ") + ")"
	}
}

func (src *source) procFor(role timetable.Role) (string, error) {
	switch role {
	case timetable.RoleStudent:
		return src.conf.StudentProc, nil
	case timetable.RoleStaff:
		return src.conf.StaffProc, nil
	}
	return "", errors.Errorf("no timetable procedure for role %q", role)
}

func (src *source) FetchRawPeriods(ctx context.Context, userID string, role timetable.Role, date time.Time) ([]timetable.RawPeriod, error) {
	proc, err := src.procFor(role)
	if err != nil {
		return nil, err
	}
	rows, err := src.db.QueryxContext(ctx, src.callQuery(proc, 2), userID, calendar.FormatDate(date))
	if err != nil {
		return nil, errors.Wrapf(err, "calling %s", proc)
	}
	defer func() { _ = rows.Close() }()

	var periods []timetable.RawPeriod
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, errors.Wrapf(err, "scanning %s", proc)
		}
		periods = append(periods, r.period(src.loc))
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", proc)
	}
	return periods, nil
}

func (src *source) FetchTermWindow(ctx context.Context) (timetable.TermWindow, error) {
	if src.conf.TermProc == "" {
		return timetable.TermWindow{}, timetable.ErrTermNotFound
	}
	rows, err := src.db.QueryxContext(ctx, src.callQuery(src.conf.TermProc, 0))
	if err != nil {
		return timetable.TermWindow{}, errors.Wrapf(err, "calling %s", src.conf.TermProc)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return timetable.TermWindow{}, errors.Wrapf(err, "reading %s", src.conf.TermProc)
		}
		return timetable.TermWindow{}, timetable.ErrTermNotFound
	}
	r, err := scanRow(rows)
	if err != nil {
		return timetable.TermWindow{}, errors.Wrapf(err, "scanning %s", src.conf.TermProc)
	}
	window, ok := r.termWindow(src.loc)
	if !ok {
		return timetable.TermWindow{}, timetable.ErrTermNotFound
	}
	return window, nil
}

func (src *source) FetchCourseMapping(ctx context.Context, classCodes []string) ([]timetable.CourseMapping, error) {
	if src.conf.MappingTable == "" || len(classCodes) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf(
		"SELECT %s AS id, %s AS extcode, %s AS moodlecode FROM %s WHERE %s IN (?) ORDER BY %s",
		src.conf.MappingTableID, src.conf.MappingTableExtCode, src.conf.MappingTableMooCode,
		src.conf.MappingTable, src.conf.MappingTableExtCode, src.conf.MappingTableID,
	), classCodes)
	if err != nil {
		return nil, errors.Wrap(err, "building mapping query")
	}
	rows, err := src.db.QueryxContext(ctx, src.db.Rebind(query), args...)
	if err != nil {
		return nil, errors.Wrap(err, "selecting class mapping")
	}
	defer func() { _ = rows.Close() }()

	var mappings []timetable.CourseMapping
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning class mapping")
		}
		mappings = append(mappings, r.mapping())
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "reading class mapping")
	}
	return mappings, nil
}
