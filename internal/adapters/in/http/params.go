package http

import (
	"fmt"
	"time"

	"curbside/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

const serviceDateLayout = "2006-01-02"

func servicerFromHeader(ctx echo.Context) (kernel.UUID, error) {
	raw := ctx.Request().Header.Get(ServicerIDHeader)
	if raw == "" {
		return kernel.UUID{}, fmt.Errorf("%s header is required", ServicerIDHeader)
	}
	return kernel.UUIDFromString(raw)
}

func parseServiceDate(raw string) (kernel.ServiceDate, error) {
	if raw == "" {
		return kernel.ServiceDate{}, fmt.Errorf("date is required in %s format", serviceDateLayout)
	}

	day, err := time.Parse(serviceDateLayout, raw)
	if err != nil {
		return kernel.ServiceDate{}, fmt.Errorf("date must be in %s format: %w", serviceDateLayout, err)
	}
	return kernel.ServiceDateFromTime(day), nil
}

func parseServiceDateOrToday(raw string) (kernel.ServiceDate, error) {
	if raw == "" {
		return kernel.ServiceDateFromTime(time.Now()), nil
	}
	return parseServiceDate(raw)
}

func optionalUUID(raw *string) (*kernel.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	id, err := kernel.UUIDFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
