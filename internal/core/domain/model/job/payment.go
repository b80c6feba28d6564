package job

import (
	"errors"
	"fmt"

	"curbside/internal/pkg/errs"
)

// PaymentStatus mirrors the payment service's verdict on a job. This core
// only reads it: charges and refunds are initiated elsewhere.
type PaymentStatus int

const (
	// PaymentUnknown represents an invalid or undefined payment status.
	PaymentUnknown PaymentStatus = iota

	// PaymentPending means the customer has not paid yet. Unpaid jobs are
	// invisible to claiming.
	PaymentPending

	// PaymentPaid means the charge settled. Completion requires this.
	PaymentPaid

	// PaymentRefunded means the charge was reversed after cancellation.
	PaymentRefunded
)

// ErrPaymentRequired classifies completion attempts on unpaid jobs.
var ErrPaymentRequired = errors.New("job is not paid")

// PaymentRequiredError reports an attempt to complete a job whose payment
// has not settled. A business precondition, never transient.
type PaymentRequiredError struct {
	PaymentStatus PaymentStatus
}

// NewPaymentRequiredError creates a PaymentRequiredError carrying the
// payment status that blocked completion.
func NewPaymentRequiredError(status PaymentStatus) *PaymentRequiredError {
	return &PaymentRequiredError{PaymentStatus: status}
}

func (e *PaymentRequiredError) Error() string {
	return fmt.Sprintf("%s: payment status is %s", ErrPaymentRequired, e.PaymentStatus)
}

func (e *PaymentRequiredError) Unwrap() error { return ErrPaymentRequired }

// Code returns the stable machine code for payment precondition failures.
func (e *PaymentRequiredError) Code() string { return "payment_required" }

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentUnknown:  "unknown",
		PaymentPending:  "pending_payment",
		PaymentPaid:     "paid",
		PaymentRefunded: "refunded",
	}
}

// IsPaid reports whether the charge has settled.
func (p PaymentStatus) IsPaid() bool {
	return p == PaymentPaid
}

// String returns the wire-level name of the payment status.
func (p PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[p]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects PaymentUnknown and any value outside the defined set.
func (p PaymentStatus) Validate() error {
	if p <= PaymentUnknown || p > PaymentRefunded {
		return errs.NewValueIsInvalidErrorWithCause("paymentStatus",
			fmt.Errorf("%d is not a valid payment status", p))
	}
	return nil
}
