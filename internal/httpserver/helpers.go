package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jkx4r/techify/internal/mykafka"
	"github.com/jkx4r/techify/internal/service"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// mapError turns service sentinels into neutral JSON responses; nothing below
// the boundary ever reaches the client raw.
func mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorBody{Code: "not_found", Message: "not found"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, errorBody{Code: "forbidden", Message: "forbidden"})
	case errors.Is(err, service.ErrLimitReached):
		return c.JSON(http.StatusConflict, errorBody{Code: "limit_reached", Message: err.Error()})
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, errorBody{Code: "validation", Message: err.Error()})
	case errors.Is(err, service.ErrAnonymous):
		return c.JSON(http.StatusUnauthorized, errorBody{Code: "unauthorized", Message: "authentication required"})
	default:
		return c.JSON(http.StatusInternalServerError, errorBody{Code: "internal", Message: "internal error"})
	}
}

func paramUint(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%s must be a positive integer: %w", name, service.ErrValidation)
	}
	return uint(v), nil
}

func publish(c echo.Context, p *mykafka.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
