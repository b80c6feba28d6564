package kernel

import (
	"time"

	"curbside/internal/pkg/errs"
)

// ErrServiceDateIsNotConstructed is returned when using a ServiceDate that
// was not created via NewServiceDate or ServiceDateFromTime.
var ErrServiceDateIsNotConstructed = errs.NewValueIsRequiredError(
	"ServiceDate must be created via NewServiceDate or ServiceDateFromTime")

// ServiceDate is a day-granularity calendar date, normalized to midnight UTC.
// Routes are keyed by (servicer, ServiceDate); jobs are scheduled for one.
// The zero value is invalid.
type ServiceDate struct {
	day time.Time
}

// NewServiceDate creates a ServiceDate for the given calendar day.
func NewServiceDate(year int, month time.Month, day int) ServiceDate {
	return ServiceDate{day: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ServiceDateFromTime truncates an instant to its UTC calendar day.
func ServiceDateFromTime(t time.Time) ServiceDate {
	u := t.UTC()
	return NewServiceDate(u.Year(), u.Month(), u.Day())
}

// Time returns the midnight-UTC instant that starts the day.
func (d ServiceDate) Time() time.Time {
	return d.day
}

// AddDays returns the date shifted by the given number of calendar days.
func (d ServiceDate) AddDays(days int) ServiceDate {
	return ServiceDate{day: d.day.AddDate(0, 0, days)}
}

// Before reports whether d falls strictly before other.
func (d ServiceDate) Before(other ServiceDate) bool {
	return d.day.Before(other.day)
}

// After reports whether d falls strictly after other.
func (d ServiceDate) After(other ServiceDate) bool {
	return d.day.After(other.day)
}

// IsEqual reports whether two dates name the same calendar day.
func (d ServiceDate) IsEqual(other ServiceDate) bool {
	return d.day.Equal(other.day)
}

// String renders the date as YYYY-MM-DD.
func (d ServiceDate) String() string {
	return d.day.Format("2006-01-02")
}

// Validate returns ErrServiceDateIsNotConstructed for the zero value.
func (d ServiceDate) Validate() error {
	if d.day.IsZero() {
		return ErrServiceDateIsNotConstructed
	}
	return nil
}
