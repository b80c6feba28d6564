package ports

import (
	"context"

	"curbside/internal/core/domain/events"
)

// EventPublisher pushes domain events onto the realtime surface, addressed
// per job: only clients subscribed to the affected job receive the event.
// Publishing is fire and forget; a slow or absent subscriber must never
// block or fail the command that raised the event.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}
