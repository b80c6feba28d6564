package ports

import (
	"context"

	"curbside/internal/core/domain/model/kernel"
)

// Notification is a customer-facing push message about a job.
type Notification struct {
	UserID kernel.UUID
	Type   string
	Title  string
	Body   string
	JobID  kernel.UUID
	Meta   map[string]string
}

// Notifier delivers notifications to the external notification service.
// Delivery is best effort: callers log failures and move on, the state
// change that triggered the notification is never rolled back.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}
