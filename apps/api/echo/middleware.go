package echoapi

import (
	"github.com/labstack/echo/v4"
)

// noStore keeps timetables out of shared caches: they are per-user and change during the day.
func noStore(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		ctx.Response().Header().Set("Cache-Control", "no-store")
		return next(ctx)
	}
}
