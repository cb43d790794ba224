package timetable

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/calendar"
)

const DefaultMaxProbeDays = 30

type (
	// Source is the external SIS holding timetable rows, term dates and class mappings.
	Source interface {
		FetchRawPeriods(ctx context.Context, userID string, role Role, date time.Time) ([]RawPeriod, error)
		// FetchTermWindow returns ErrTermNotFound when the SIS has no current term record.
		FetchTermWindow(ctx context.Context) (TermWindow, error)
		// FetchCourseMapping returns no mappings when no mapping table is configured.
		FetchCourseMapping(ctx context.Context, classCodes []string) ([]CourseMapping, error)
	}

	TermPosition struct {
		Number   string
		Week     int
		Day      string
		Finished bool
	}

	Navigator struct {
		src       Source
		log       core.Logger
		maxProbes int
	}
)

func NewNavigator(src Source, logger core.Logger, maxProbes int) *Navigator {
	if maxProbes <= 0 {
		maxProbes = DefaultMaxProbeDays
	}
	return &Navigator{src: src, log: logger, maxProbes: maxProbes}
}

// FetchPeriodsWithFallback fetches the rows of date (already resolved for dir).
// When navigating, empty days are skipped in the same direction, up to maxProbes further days;
// the day the rows were found on is returned with them.
func (n *Navigator) FetchPeriodsWithFallback(
	ctx context.Context,
	userID string,
	role Role,
	date time.Time,
	dir calendar.Direction,
) ([]RawPeriod, time.Time, error) {
	rows, err := n.src.FetchRawPeriods(ctx, userID, role, date)
	if err != nil {
		return nil, date, wrapUnavailable(err, "fetching raw periods")
	}
	if len(rows) > 0 {
		return rows, date, nil
	}
	if !dir.Probes() {
		return nil, date, ErrNoTimetable
	}

	for probe := 1; probe <= n.maxProbes; probe++ {
		if err := ctx.Err(); err != nil {
			return nil, date, wrapUnavailable(err, "probing for a school day")
		}
		date = calendar.ResolveDate(date, dir)
		rows, err = n.src.FetchRawPeriods(ctx, userID, role, date)
		if err != nil {
			return nil, date, wrapUnavailable(err, "fetching raw periods")
		}
		if len(rows) > 0 {
			return rows, date, nil
		}
	}
	return nil, date, ErrUnavailable
}

// TermPosition fetches the current term window and places date within it.
// Term details only exist for staff; any failure degrades to a finished term.
func (n *Navigator) TermPosition(ctx context.Context, role Role, date time.Time, periods []RawPeriod) TermPosition {
	if role != RoleStaff {
		return TermPosition{Finished: true}
	}
	window, err := n.src.FetchTermWindow(ctx)
	if err != nil {
		if errors.Cause(err) != ErrTermNotFound {
			n.log.Warn("fetching term window failed", err, map[string]interface{}{"date": calendar.FormatDate(date)})
		}
		return TermPosition{Finished: true}
	}
	return ComputeTermPosition(role, date, &window, periods)
}

// ComputeTermPosition returns the term number, week and cycle day of date.
// A nil window, a date outside it, or a non-staff role yield a finished term.
func ComputeTermPosition(role Role, date time.Time, window *TermWindow, periods []RawPeriod) TermPosition {
	if role != RoleStaff || window == nil || window.Start.IsZero() || window.End.IsZero() {
		return TermPosition{Finished: true}
	}
	if !calendar.InRange(date, window.Start, window.End) {
		return TermPosition{Finished: true}
	}

	pos := TermPosition{
		Number: window.FileSemester,
		Week:   calendar.TermWeek(date, window.Start),
	}
	if len(periods) > 0 {
		pos.Day = periods[0].DefinitionDay
	}
	return pos
}

func (p TermPosition) week() string {
	if p.Finished {
		return ""
	}
	return strconv.Itoa(p.Week)
}
