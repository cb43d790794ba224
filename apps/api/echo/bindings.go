package echoapi

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/calendar"
	"github.com/trezcool/myday/core/timetable"
)

type (
	initialQuery struct {
		User       string `query:"user" json:"user"`
		InstanceID int    `query:"instanceid" json:"instanceid" validate:"min=0"`
	}

	navigateQuery struct {
		User       string `query:"user" json:"user"`
		Role       string `query:"role" json:"role" validate:"omitempty,oneof=student staff"`
		Nav        string `query:"nav" json:"nav" validate:"required,oneof=-1 0 1"`
		Date       string `query:"date" json:"date" validate:"required,datetime=2006-01-02"`
		InstanceID int    `query:"instanceid" json:"instanceid" validate:"min=0"`
	}

	collapsedBody struct {
		User  string `json:"user"`
		Value *int   `json:"value" validate:"required,min=0,max=1"`
	}

	navigateParams struct {
		target     string
		role       timetable.Role
		instanceID int
		dir        calendar.Direction
		date       time.Time
	}
)

func (q *navigateQuery) Bind(ctx echo.Context, loc *time.Location) (navigateParams, error) {
	if err := ctx.Bind(q); err != nil {
		return navigateParams{}, errors.Wrap(err, "binding navigate query")
	}
	if err := core.Validate.Struct(q); err != nil {
		return navigateParams{}, err
	}

	p := navigateParams{target: q.User, instanceID: q.InstanceID}
	var err error
	if p.dir, err = calendar.ParseDirection(q.Nav); err != nil {
		return navigateParams{}, core.NewValidationError(err, core.FieldError{Field: "nav", Error: err.Error()})
	}
	if p.date, err = calendar.ParseDate(q.Date, loc); err != nil {
		return navigateParams{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: "date must be formatted as YYYY-MM-DD"})
	}
	if q.Role != "" {
		if p.role, err = timetable.ParseRole(q.Role); err != nil {
			return navigateParams{}, core.NewValidationError(err, core.FieldError{Field: "role", Error: err.Error()})
		}
	}
	return p, nil
}

func (q *initialQuery) Bind(ctx echo.Context) error {
	if err := ctx.Bind(q); err != nil {
		return errors.Wrap(err, "binding timetable query")
	}
	return core.Validate.Struct(q)
}
