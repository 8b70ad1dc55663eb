package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stayspot/accommodation-booking/internal/service"
)

// serviceError translates the service layer's error taxonomy into an
// HTTP response.  Anything unrecognized becomes a 500 without leaking
// internals to the client.
func serviceError(c echo.Context, err error) error {
	var (
		notFound *service.NotFoundError
		conflict *service.ConflictError
		invalid  *service.InvalidInputError
		cfg      *service.ConfigError
		gateway  *service.GatewayError
	)
	switch {
	case errors.As(err, &notFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": notFound.Error()})
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": conflict.Error()})
	case errors.As(err, &invalid):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": invalid.Error()})
	case errors.As(err, &cfg):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment provider is not configured"})
	case errors.As(err, &gateway):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment provider is unavailable"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
