package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/farecalendar/internal/fareerr"
	"github.com/dharmasatrya/farecalendar/internal/models"
)

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid_request",
		Message: message,
		Code:    http.StatusBadRequest,
	})
}

// errorJSON answers with the status the error kind maps to. Permission
// failures read as "location unavailable" rather than a generic error.
func errorJSON(c echo.Context, err error) error {
	status := fareerr.HTTPStatus(err)
	kind := fareerr.KindOf(err)

	message := err.Error()
	var fe *fareerr.Error
	if errors.As(err, &fe) && fe.Message != "" {
		message = fe.Message
	}
	if kind == fareerr.KindPermission {
		message = "location unavailable: " + message
	}

	return c.JSON(status, models.ErrorResponse{
		Error:   kind.String(),
		Message: message,
		Code:    status,
	})
}
