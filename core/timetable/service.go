package timetable

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/calendar"
)

var NowFunc = time.Now // mockable

type (
	// Directory is the host site's user and course registry.
	Directory interface {
		GetUser(ctx context.Context, username string) (User, error)
		IsMentor(ctx context.Context, mentor, mentee string) (bool, error)
		GetCoursesByIDNumber(ctx context.Context, idNumbers []string) ([]Course, error)
		GetUserIDs(ctx context.Context, usernames []string) (map[string]int, error)
	}

	// DirectoryAdmin registers host users, mentors and courses.
	DirectoryAdmin interface {
		SaveUser(ctx context.Context, usr User) (User, error)
		AddMentor(ctx context.Context, mentor, mentee string) error
		SaveCourse(ctx context.Context, course Course) (Course, error)
	}

	PreferenceStore interface {
		// GetPreference returns ErrNotFound when the preference was never set.
		GetPreference(ctx context.Context, userID, name string) (int, error)
		SetPreference(ctx context.Context, userID, name string, value int) error
	}

	Options struct {
		Title           string
		ShowProgressBar bool
		EndOfDay        calendar.ClockTime
		StudentRoles    []string
		StaffRoles      []string
		MaxProbeDays    int
		Location        *time.Location
		Normalize       NormalizeOptions
	}

	Service struct {
		src   Source
		dir   Directory
		prefs PreferenceStore
		nav   *Navigator
		log   core.Logger
		opts  Options
	}
)

// NewOptions builds service options from a validated config.
func NewOptions(conf *core.Config) (Options, error) {
	eod, err := calendar.ParseClockTime(conf.Timetable.EndOfDay)
	if err != nil {
		return Options{}, core.NewConfigError("timetable", err)
	}
	colours, err := ParseColourRules(conf.Timetable.Colours)
	if err != nil {
		return Options{}, core.NewConfigError("timetable", err)
	}
	return Options{
		Title:           conf.Timetable.Title,
		ShowProgressBar: conf.Timetable.ShowProgressBar,
		EndOfDay:        eod,
		StudentRoles:    conf.Timetable.StudentRoles,
		StaffRoles:      conf.Timetable.StaffRoles,
		MaxProbeDays:    conf.Timetable.MaxProbeDays,
		Location:        conf.Timetable.Location(),
		Normalize: NormalizeOptions{
			PeriodNames: conf.Timetable.PeriodNames,
			BreakNames:  conf.Timetable.BreakNames,
			Colours:     colours,
			BaseURL:     conf.Server.BaseURL,
		},
	}, nil
}

func NewService(src Source, dir Directory, prefs PreferenceStore, logger core.Logger, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Service{
		src:   src,
		dir:   dir,
		prefs: prefs,
		nav:   NewNavigator(src, logger, opts.MaxProbeDays),
		log:   logger,
		opts:  opts,
	}
}

func (svc *Service) now() time.Time {
	return NowFunc().In(svc.opts.Location)
}

// Location is the timezone timetable dates are interpreted in.
func (svc *Service) Location() *time.Location {
	return svc.opts.Location
}

// BuildInitialView builds the timetable a page opens with. target defaults to the viewer.
// ErrNoTimetable and the role/authorization errors mean the widget must not be shown.
func (svc *Service) BuildInitialView(ctx context.Context, viewer Viewer, target string, instanceID int) (*DisplayTimetable, error) {
	target = svc.target(viewer, target)
	role, err := svc.resolveRole(ctx, viewer, target)
	if err != nil {
		return nil, err
	}
	if err = svc.authorize(ctx, viewer, target); err != nil {
		return nil, err
	}

	date := calendar.OpeningDate(svc.now(), svc.opts.EndOfDay)
	req := Request{UserID: target, Role: role, Date: date, Direction: calendar.Initial, InstanceID: instanceID}
	return svc.build(ctx, viewer, req)
}

// Navigate steps one school day from currentDate in dir, skipping empty days.
func (svc *Service) Navigate(
	ctx context.Context,
	viewer Viewer,
	target string,
	role Role,
	instanceID int,
	dir calendar.Direction,
	currentDate time.Time,
) (*DisplayTimetable, error) {
	target = svc.target(viewer, target)
	resolved, err := svc.resolveRole(ctx, viewer, target)
	if err != nil {
		return nil, err
	}
	if role != "" && role != resolved {
		return nil, ErrNotAllowed
	}
	if err = svc.authorize(ctx, viewer, target); err != nil {
		return nil, err
	}

	date := calendar.ResolveDate(currentDate.In(svc.opts.Location), dir)
	req := Request{UserID: target, Role: resolved, Date: date, Direction: dir, InstanceID: instanceID}
	tt, err := svc.build(ctx, viewer, req)
	if errors.Cause(err) == ErrNoTimetable {
		// only the opening day may be empty without a message
		return nil, ErrUnavailable
	}
	if err != nil {
		return nil, err
	}
	tt.FromWS = true
	return tt, nil
}

func (svc *Service) build(ctx context.Context, viewer Viewer, req Request) (*DisplayTimetable, error) {
	rows, date, err := svc.nav.FetchPeriodsWithFallback(ctx, req.UserID, req.Role, req.Date, req.Direction)
	if err != nil {
		return nil, err
	}

	lk, err := svc.lookups(ctx, rows)
	if err != nil {
		return nil, err
	}
	term := svc.nav.TermPosition(ctx, req.Role, date, rows)
	norm := Normalize(rows, req.Role, svc.opts.Normalize, lk, svc.now())

	tt := &DisplayTimetable{
		InstanceID:   req.InstanceID,
		Role:         req.Role,
		User:         req.UserID,
		Date:         calendar.FormatDate(date),
		Hide:         svc.collapsedOrDefault(ctx, viewer.Username),
		FromWS:       req.Direction != calendar.Initial,
		Day:          calendar.DayLabel(date),
		TermFinished: term.Finished,
		Periods:      norm.Periods,
		Title:        svc.opts.Title,
		NumPeriods:   norm.NumPeriods,
		NumBreaks:    norm.NumBreaks,
		IsStaff:      norm.IsStaff,
		IsStudent:    norm.IsStudent,
	}
	if svc.opts.ShowProgressBar {
		tt.ShowProgressBar = 1
	}
	if !term.Finished {
		tt.TermNumber = term.Number
		tt.TermWeek = term.week()
		tt.TermDay = term.Day
	}
	return tt, nil
}

// lookups resolves class mappings from the SIS, and courses & teacher ids from the directory.
// Directory failures only cost links and photos.
func (svc *Service) lookups(ctx context.Context, rows []RawPeriod) (Lookups, error) {
	var lk Lookups

	classCodes := uniqueNonEmpty(rows, func(r RawPeriod) string { return r.ClassCode })
	if len(classCodes) > 0 {
		mappings, err := svc.src.FetchCourseMapping(ctx, classCodes)
		if err != nil {
			return lk, wrapUnavailable(err, "fetching course mapping")
		}
		lk.Mappings = mappings
	}

	var idNumbers []string
	seen := make(map[string]struct{})
	for _, m := range lk.Mappings {
		if _, ok := seen[m.TargetIDNumber]; !ok && m.TargetIDNumber != "" {
			seen[m.TargetIDNumber] = struct{}{}
			idNumbers = append(idNumbers, m.TargetIDNumber)
		}
	}
	if len(idNumbers) > 0 {
		courses, err := svc.dir.GetCoursesByIDNumber(ctx, idNumbers)
		if err != nil {
			svc.log.Warn("looking up mapped courses failed", err)
		}
		lk.Courses = make(map[string]Course, len(courses))
		for _, c := range courses {
			lk.Courses[c.IDNumber] = c
		}
	}

	staffIDs := uniqueNonEmpty(rows, func(r RawPeriod) string { return r.StaffID })
	if len(staffIDs) > 0 {
		ids, err := svc.dir.GetUserIDs(ctx, staffIDs)
		if err != nil {
			svc.log.Warn("looking up teacher ids failed", err)
		}
		lk.UserIDs = ids
	}
	return lk, nil
}

func (svc *Service) target(viewer Viewer, target string) string {
	if target = core.CleanString(target); target == "" {
		return viewer.Username
	}
	return target
}

func (svc *Service) resolveRole(ctx context.Context, viewer Viewer, target string) (Role, error) {
	roles := viewer.CampusRoles
	if !strings.EqualFold(target, viewer.Username) {
		usr, err := svc.dir.GetUser(ctx, target)
		if err != nil {
			if errors.Cause(err) == ErrNotFound {
				return "", ErrProfileNotSetUp
			}
			return "", errors.Wrap(err, "getting timetable user")
		}
		roles = usr.CampusRoles
	}
	return ClassifyRole(roles, svc.opts.StudentRoles, svc.opts.StaffRoles)
}

// authorize lets viewers see their own timetable, staff see anyone's and mentors see their mentees'.
func (svc *Service) authorize(ctx context.Context, viewer Viewer, target string) error {
	if strings.EqualFold(target, viewer.Username) {
		return nil
	}
	if role, err := ClassifyRole(viewer.CampusRoles, svc.opts.StudentRoles, svc.opts.StaffRoles); err == nil && role == RoleStaff {
		return nil
	}
	ok, err := svc.dir.IsMentor(ctx, viewer.Username, target)
	if err != nil {
		return errors.Wrap(err, "checking mentor")
	}
	if !ok {
		return ErrNotAllowed
	}
	return nil
}

// Collapsed returns the user's collapsed preference (1 when never set).
func (svc *Service) Collapsed(ctx context.Context, userID string) (int, error) {
	v, err := svc.prefs.GetPreference(ctx, userID, PrefCollapsed)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return DefaultCollapsed, nil
		}
		return DefaultCollapsed, errors.Wrap(err, "getting collapsed preference")
	}
	return v, nil
}

// SetCollapsed stores the owner's collapsed preference; last write wins.
func (svc *Service) SetCollapsed(ctx context.Context, owner Viewer, userID string, collapsed int) error {
	if userID = core.CleanString(userID); userID == "" {
		userID = owner.Username
	}
	if !strings.EqualFold(userID, owner.Username) {
		return ErrNotAllowed
	}
	if collapsed != 0 && collapsed != 1 {
		return core.NewValidationError(
			errors.New("invalid preference value"),
			core.FieldError{Field: "value", Error: "value must be 0 or 1"},
		)
	}
	if err := svc.prefs.SetPreference(ctx, owner.Username, PrefCollapsed, collapsed); err != nil {
		return errors.Wrap(err, "setting collapsed preference")
	}
	return nil
}

func (svc *Service) collapsedOrDefault(ctx context.Context, userID string) int {
	v, err := svc.Collapsed(ctx, userID)
	if err != nil {
		svc.log.Warn("reading collapsed preference failed", err)
	}
	return v
}

func uniqueNonEmpty(rows []RawPeriod, field func(RawPeriod) string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, r := range rows {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
