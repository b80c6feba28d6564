package http

import (
	"errors"
	"net/http"
	"time"

	"curbside/internal/core/application/usecases/commands"
	"curbside/internal/core/domain/model/job"
	"curbside/internal/core/domain/model/route"
	"curbside/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// errorResponse is the uniform error body. Code is the stable machine code
// from the domain error where one exists; Details carries hints like the
// instant a grace-periodized job becomes claimable.
type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// renderError translates a core error into an HTTP response. Business
// rejections surface as 409 or 422 so clients can tell a lost race from a
// malformed request.
func renderError(ctx echo.Context, err error) error {
	response := errorResponse{
		Code:    "internal",
		Message: err.Error(),
	}

	var coder errs.Coder
	if errors.As(err, &coder) {
		response.Code = coder.Code()
	}

	var graceErr *job.GracePeriodError
	if errors.As(err, &graceErr) {
		response.Details = map[string]string{
			"claimableAt": graceErr.ClaimableAt.Format(time.RFC3339),
		}
	}
	var tooEarlyErr *job.TooEarlyError
	if errors.As(err, &tooEarlyErr) {
		response.Details = map[string]string{
			"earliestDate": tooEarlyErr.EarliestDate.String(),
		}
	}

	return ctx.JSON(statusOf(err), response)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, errs.ErrConflict),
		errors.Is(err, job.ErrJobTaken),
		errors.Is(err, job.ErrJobUnavailable),
		errors.Is(err, job.ErrJobAlreadyRouted),
		errors.Is(err, commands.ErrActiveRouteExists):
		return http.StatusConflict

	case errors.Is(err, job.ErrGracePeriodActive),
		errors.Is(err, job.ErrTooEarly),
		errors.Is(err, job.ErrPaymentPending),
		errors.Is(err, job.ErrPaymentRequired),
		errors.Is(err, job.ErrInvalidTransition),
		errors.Is(err, route.ErrRouteNotPlanned),
		errors.Is(err, route.ErrRouteNotInProgress),
		errors.Is(err, route.ErrStopNotEnRoute),
		errors.Is(err, route.ErrStopAlreadyResolved):
		return http.StatusUnprocessableEntity

	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrJobDateMismatch),
		errors.Is(err, commands.ErrLocationTargetIsAmbiguous),
		errors.Is(err, route.ErrRouteHasNoStops),
		errors.Is(err, route.ErrDuplicateStops):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

func badRequest(ctx echo.Context, code, message string) error {
	return ctx.JSON(http.StatusBadRequest, errorResponse{Code: code, Message: message})
}
