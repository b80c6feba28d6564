package job

import (
	"fmt"

	"curbside/internal/pkg/errs"
)

// TimeWindow is the customer's scheduling hint for when the curbside pickup
// may happen. It is a typed attribute, never derived from display text.
//
// A night_before job becomes claimable one calendar day before its scheduled
// date, so servicers can fold it into the previous evening's route.
type TimeWindow int

const (
	// TimeWindowUnknown represents an invalid or undefined window.
	TimeWindowUnknown TimeWindow = iota

	// SameDay is the default: the job is claimable on its scheduled date.
	SameDay

	// NightBefore makes the job claimable one calendar day early.
	NightBefore
)

func getTimeWindowStrings() map[TimeWindow]string {
	return map[TimeWindow]string{
		TimeWindowUnknown: "unknown",
		SameDay:           "same_day",
		NightBefore:       "night_before",
	}
}

// ParseTimeWindow converts a wire-level name into a TimeWindow.
func ParseTimeWindow(s string) (TimeWindow, error) {
	for window, str := range getTimeWindowStrings() {
		if str == s && window != TimeWindowUnknown {
			return window, nil
		}
	}
	return TimeWindowUnknown, errs.NewValueIsInvalidErrorWithCause("timeWindow",
		fmt.Errorf("%q is not a valid time window", s))
}

// LeadDays returns how many calendar days before the scheduled date the job
// becomes claimable.
func (w TimeWindow) LeadDays() int {
	if w == NightBefore {
		return 1
	}
	return 0
}

// String returns the wire-level name of the window.
func (w TimeWindow) String() string {
	if str, ok := getTimeWindowStrings()[w]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects TimeWindowUnknown and out-of-range values.
func (w TimeWindow) Validate() error {
	if w <= TimeWindowUnknown || w > NightBefore {
		return errs.NewValueIsInvalidErrorWithCause("timeWindow",
			fmt.Errorf("%d is not a valid time window", w))
	}
	return nil
}
