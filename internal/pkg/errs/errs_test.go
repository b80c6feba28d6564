package errs_test

import (
	"errors"
	"testing"

	"curbside/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("jobId", "123")

		assert.Equal(t, "jobId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
		assert.Equal(t, "not_found", err.Code())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("jobId", "123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: jobId, ID is: 123 (cause: database connection failed)",
			err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("latitude")

		assert.Equal(t, "latitude", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: latitude", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("latitude", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: latitude (cause: invalid format)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("heading", 450, 0, 360)

		assert.Equal(t, "heading", err.ParamName)
		assert.Equal(t, 450, err.Value)
		assert.Equal(t, 0, err.Min)
		assert.Equal(t, 360, err.Max)
		assert.Equal(t, "value is invalid: 450 is heading, min value is 0, max value is 360", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitize_strips_newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestConflictError(t *testing.T) {
	t.Run("NewConflictError", func(t *testing.T) {
		err := errs.NewConflictError("job", "abc")

		assert.Equal(t, "job", err.ParamName)
		assert.Equal(t, "abc", err.ID)
		assert.Equal(t, "concurrent modification conflict: abc", err.Error())
		assert.Equal(t, errs.ErrConflict, err.Unwrap())
		assert.Equal(t, "conflict", err.Code())
	})

	t.Run("NewConflictErrorWithCause", func(t *testing.T) {
		cause := errors.New("zero rows affected")
		err := errs.NewConflictErrorWithCause("route", "r1", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Contains(t, err.Error(), "cause: zero rows affected")
	})
}

func TestForbiddenError(t *testing.T) {
	err := errs.NewForbiddenError("route", "servicer-1")

	assert.Equal(t, "route", err.ParamName)
	assert.Equal(t, "servicer-1", err.Actor)
	assert.Equal(t, errs.ErrForbidden, err.Unwrap())
	assert.Equal(t, "forbidden", err.Code())
}

func TestSentinelErrors(t *testing.T) {
	t.Run("error_messages_match_expectations", func(t *testing.T) {
		assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
		assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
		assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
		assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
		assert.Equal(t, "concurrent modification conflict", errs.ErrConflict.Error())
		assert.Equal(t, "actor does not own the resource", errs.ErrForbidden.Error())
	})
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	t.Run("errors_Is_works_with_custom_errors", func(t *testing.T) {
		require.ErrorIs(t, errs.NewObjectNotFoundError("jobId", "123"), errs.ErrObjectNotFound)
		require.ErrorIs(t, errs.NewValueIsInvalidError("lat"), errs.ErrValueIsInvalid)
		require.ErrorIs(t, errs.NewValueIsOutOfRangeError("heading", 450, 0, 360), errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, errs.NewValueIsRequiredError("servicerId"), errs.ErrValueIsRequired)
		require.ErrorIs(t, errs.NewConflictError("job", "abc"), errs.ErrConflict)
		require.ErrorIs(t, errs.NewForbiddenError("route", "s1"), errs.ErrForbidden)
	})

	t.Run("errors_As_extracts_code", func(t *testing.T) {
		var coder errs.Coder
		require.ErrorAs(t, error(errs.NewConflictError("job", "abc")), &coder)
		assert.Equal(t, "conflict", coder.Code())
	})
}
