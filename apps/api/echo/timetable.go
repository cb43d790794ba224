package echoapi

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/timetable"
	"github.com/trezcool/myday/services/metrics"
)

type timetableApi struct {
	svc     *timetable.Service
	metrics *metrics.Metrics
}

func registerTimetableAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *timetable.Service, m *metrics.Metrics) {
	api := timetableApi{svc: svc, metrics: m}

	tg := g.Group("/timetable", jwt)
	tg.GET("", api.initial)
	tg.GET("/navigate", api.navigate)
	tg.GET("/html", api.html)

	g.GET("/mobile/timetable", api.mobile, jwt)

	pg := g.Group("/preferences", jwt)
	pg.GET("/collapsed", api.getCollapsed)
	pg.PUT("/collapsed", api.setCollapsed)
}

func (api *timetableApi) observe(endpoint string, err error) {
	if api.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case timetable.IsAbsent(err):
		outcome = "absent"
	case timetable.IsUnavailable(err):
		outcome = "unavailable"
	default:
		outcome = "error"
	}
	api.metrics.ObserveRequest(endpoint, outcome)
}

// load resolves the timetable asked for: the initial view, or a navigated one when `nav` is given.
func (api *timetableApi) load(ctx echo.Context, endpoint string) (*timetable.DisplayTimetable, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, err
	}

	var tt *timetable.DisplayTimetable
	if ctx.QueryParam("nav") == "" {
		var q initialQuery
		if err = q.Bind(ctx); err != nil {
			return nil, err
		}
		tt, err = api.svc.BuildInitialView(ctx.Request().Context(), claims.Viewer(), q.User, q.InstanceID)
	} else {
		var q navigateQuery
		p, bErr := q.Bind(ctx, api.svc.Location())
		if bErr != nil {
			return nil, bErr
		}
		tt, err = api.svc.Navigate(ctx.Request().Context(), claims.Viewer(), p.target, p.role, p.instanceID, p.dir, p.date)
	}
	api.observe(endpoint, err)
	return tt, err
}

// Handlers

func (api *timetableApi) initial(ctx echo.Context) error {
	tt, err := api.load(ctx, "initial")
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tt)
}

func (api *timetableApi) navigate(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	var q navigateQuery
	p, err := q.Bind(ctx, api.svc.Location())
	if err != nil {
		return err
	}

	tt, err := api.svc.Navigate(ctx.Request().Context(), claims.Viewer(), p.target, p.role, p.instanceID, p.dir, p.date)
	api.observe("navigate", err)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tt)
}

func (api *timetableApi) html(ctx echo.Context) error {
	tt, err := api.load(ctx, "html")
	if err != nil {
		return err
	}
	html, err := renderTimetable(tt)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"html": html})
}

type mobileTemplate struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

func (api *timetableApi) mobile(ctx echo.Context) error {
	tt, err := api.load(ctx, "mobile")
	if err != nil {
		if timetable.IsAbsent(err) {
			return ctx.JSON(http.StatusOK, echo.Map{"templates": []mobileTemplate{{ID: "timetable", HTML: " "}}})
		}
		return err
	}

	html, err := renderTimetable(tt)
	if err != nil {
		return err
	}
	data, err := json.Marshal(tt)
	if err != nil {
		return errors.Wrap(err, "encoding timetable")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"templates": []mobileTemplate{{ID: "timetable", HTML: html}},
		"otherdata": echo.Map{"timetable": string(data)},
	})
}

func (api *timetableApi) getCollapsed(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	v, err := api.svc.Collapsed(ctx.Request().Context(), claims.Username)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"name": timetable.PrefCollapsed, "value": v})
}

func (api *timetableApi) setCollapsed(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	var data collapsedBody
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to collapsedBody")
	}
	if err = core.Validate.Struct(&data); err != nil {
		return err
	}

	if err = api.svc.SetCollapsed(ctx.Request().Context(), claims.Viewer(), data.User, *data.Value); err != nil {
		if errors.Cause(err) == timetable.ErrNotAllowed {
			return errHttpForbidden
		}
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"name": timetable.PrefCollapsed, "value": *data.Value})
}
