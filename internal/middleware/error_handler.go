package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

var statusCodes = map[int]string{
	http.StatusBadRequest:          "invalid_input",
	http.StatusUnauthorized:        "unauthenticated",
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "not_found",
	http.StatusConflict:            "conflict",
	http.StatusBadGateway:          "analysis_failed",
	http.StatusInternalServerError: "internal",
}

// ErrorHandler renders every error as {"error": code, "message": ...}.
// Unknown errors become a generic 500 so internals never leak.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	errCode, ok := statusCodes[code]
	if !ok {
		errCode = "error"
	}

	_ = c.JSON(code, map[string]string{"error": errCode, "message": msg})
}
