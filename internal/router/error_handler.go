package router

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Marvellousz/Minimal/internal/validators"
)

// NewHTTPErrorHandler shapes every error into the API's response
// envelope. Unexpected failures are logged server-side and reduced to a
// generic message unless the server runs in development mode.
func NewHTTPErrorHandler(devMode bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *validators.ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "Validation failed",
				"errors":  ve.Fields,
			})
			return
		}

		code := http.StatusInternalServerError
		message := ""
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
		}

		if code >= http.StatusInternalServerError {
			c.Logger().Error(err)
			if !devMode {
				message = "Server error"
			}
		}
		if message == "" {
			message = http.StatusText(code)
		}

		_ = c.JSON(code, echo.Map{"success": false, "message": message})
	}
}
