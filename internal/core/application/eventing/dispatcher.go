// Package eventing fans domain events out to the realtime surface and the
// notification service after a command commits. Delivery is best effort by
// contract: the durable state change is the source of truth and a failed
// push must never roll it back, so failures here are logged and swallowed.
package eventing

import (
	"context"
	"fmt"
	"log/slog"

	"curbside/internal/core/domain/events"
	"curbside/internal/core/ports"
)

// Dispatcher routes committed domain events to their side channels: every
// event goes to the per-job realtime publisher, and lifecycle events that
// carry a customer identity additionally become push notifications.
//
// Queue position deltas and location pings ride the realtime channel only;
// the route aggregate does not know customer identities, and a push
// notification per GPS ping would be noise anyway.
type Dispatcher struct {
	publisher ports.EventPublisher
	notifier  ports.Notifier
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher over the realtime publisher and the
// notification service.
func NewDispatcher(publisher ports.EventPublisher, notifier ports.Notifier, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
	}
}

// Dispatch delivers a batch of committed events. Never returns an error:
// each failure is logged with the event name and affected job and the rest
// of the batch still goes out.
func (d *Dispatcher) Dispatch(ctx context.Context, evts ...events.DomainEvent) {
	for _, evt := range evts {
		if err := d.publisher.Publish(ctx, evt); err != nil {
			d.logger.Warn("realtime publish failed",
				"event", evt.EventName(),
				"jobId", evt.AffectedJobID().String(),
				"error", err)
		}

		notification, ok := notificationFor(evt)
		if !ok {
			continue
		}
		if err := d.notifier.Notify(ctx, notification); err != nil {
			d.logger.Warn("notification delivery failed",
				"event", evt.EventName(),
				"jobId", evt.AffectedJobID().String(),
				"error", err)
		}
	}
}

func notificationFor(evt events.DomainEvent) (ports.Notification, bool) {
	switch e := evt.(type) {
	case events.JobClaimed:
		return ports.Notification{
			UserID: e.CustomerID,
			Type:   e.EventName(),
			Title:  "Your service is booked",
			Body:   "A servicer accepted your job.",
			JobID:  e.JobID,
		}, true
	case events.JobStatusChanged:
		title, ok := statusTitles()[e.Status]
		if !ok {
			return ports.Notification{}, false
		}
		return ports.Notification{
			UserID: e.CustomerID,
			Type:   e.EventName(),
			Title:  title,
			Body:   fmt.Sprintf("Your job is now %s.", e.Status),
			JobID:  e.JobID,
			Meta:   map[string]string{"status": e.Status},
		}, true
	default:
		return ports.Notification{}, false
	}
}

// statusTitles lists the customer-visible transitions. Statuses absent here
// (confirmed rides the claim notification, in_progress is curb-side detail)
// stay realtime-only.
func statusTitles() map[string]string {
	return map[string]string{
		"en_route":  "Your servicer is on the way",
		"arrived":   "Your servicer has arrived",
		"completed": "Service completed",
		"cancelled": "Your job was cancelled",
		"no_show":   "We missed you today",
	}
}
