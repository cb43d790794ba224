package timetable

import "github.com/pkg/errors"

var (
	// ErrUnavailable is returned when the SIS cannot be reached or no day with periods was
	// found while navigating.
	ErrUnavailable = errors.New("Timetable data unavailable.")

	// ErrNoTimetable means the opening day has no periods; the widget is not shown at all.
	ErrNoTimetable = errors.New("no timetable for this day")

	ErrRoleUndetermined = errors.New("timetable role could not be determined")
	ErrProfileNotSetUp  = errors.New("user profile has no campus roles")
	ErrNotAllowed       = errors.New("not allowed to view this timetable")
	ErrTermNotFound     = errors.New("term information not found")
	ErrNotFound         = errors.New("not found")
)

// IsAbsent reports whether err means "render nothing" rather than a failure.
func IsAbsent(err error) bool {
	switch errors.Cause(err) {
	case ErrNoTimetable, ErrRoleUndetermined, ErrProfileNotSetUp, ErrNotAllowed:
		return true
	}
	return false
}

func IsUnavailable(err error) bool {
	return errors.Cause(err) == ErrUnavailable
}

// unavailable wraps a source failure so that errors.Cause yields ErrUnavailable
// while the message keeps the original failure for logs.
type unavailable struct {
	err error
}

func (u *unavailable) Error() string {
	return ErrUnavailable.Error() + ": " + u.err.Error()
}

func (u *unavailable) Cause() error  { return ErrUnavailable }
func (u *unavailable) Unwrap() error { return u.err }

func wrapUnavailable(err error, msg string) error {
	return &unavailable{err: errors.Wrap(err, msg)}
}
