package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/inspection-case-backend/internal/service"
)

// writeError maps the service error taxonomy onto HTTP status codes.
// Internal errors pass the underlying message through and are logged.
func writeError(c echo.Context, log *logrus.Entry, op string, err error) error {
	status := http.StatusInternalServerError
	msg := err.Error()
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidRole):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateEmail):
		status, msg = http.StatusBadRequest, service.ErrDuplicateEmail.Error()
	case errors.Is(err, service.ErrAuthFailure):
		status, msg = http.StatusUnauthorized, service.ErrAuthFailure.Error()
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	default:
		log.WithField("operation", op).WithError(err).Error("request failed")
	}
	return c.JSON(status, echo.Map{"error": msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
