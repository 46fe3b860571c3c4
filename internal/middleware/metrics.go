package middleware

import (
	"strconv"
	"time"

	"github.com/brightdesk/portal/pkg/monitoring"
	"github.com/labstack/echo/v4"
)

// Metrics records request counts and latency per route pattern.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			monitoring.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			monitoring.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
