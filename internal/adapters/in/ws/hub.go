// Package ws delivers domain events to connected customer and servicer apps
// over WebSocket. Subscriptions are per job: a connection opened for one job
// receives only that job's events, which keeps one customer's queue position
// and the servicer's GPS from leaking to anyone else.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"curbside/internal/core/domain/events"
	"curbside/internal/core/domain/model/kernel"

	"github.com/gorilla/websocket"
)

// Hub fans published events out to the connections subscribed to the
// affected job. It implements ports.EventPublisher.
type Hub struct {
	logger *slog.Logger

	mu          sync.RWMutex
	subscribers map[kernel.UUID]map[*Client]struct{}
	closed      bool
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:      logger,
		subscribers: make(map[kernel.UUID]map[*Client]struct{}),
	}
}

// envelope is the wire frame every subscriber receives.
type envelope struct {
	Event string `json:"event"`
	JobID string `json:"jobId"`
	Data  any    `json:"data,omitempty"`
}

// Publish sends the event to every connection subscribed to its job. A job
// with no subscribers is not an error; a subscriber too slow to drain its
// buffer is dropped rather than allowed to stall the rest.
func (h *Hub) Publish(_ context.Context, event events.DomainEvent) error {
	payload, err := json.Marshal(envelope{
		Event: event.EventName(),
		JobID: event.AffectedJobID().String(),
		Data:  eventData(event),
	})
	if err != nil {
		return err
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.subscribers[event.AffectedJobID()]))
	for client := range h.subscribers[event.AffectedJobID()] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		if !client.enqueue(payload) {
			h.logger.Warn("dropping slow websocket subscriber",
				"jobId", event.AffectedJobID().String())
			client.close()
		}
	}
	return nil
}

// Subscribe registers an upgraded connection for one job's events and starts
// its read and write pumps. The connection is owned by the hub from here on.
func (h *Hub) Subscribe(jobID kernel.UUID, conn *websocket.Conn) *Client {
	client := newClient(h, jobID, conn)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		client.close()
		return client
	}
	if h.subscribers[jobID] == nil {
		h.subscribers[jobID] = make(map[*Client]struct{})
	}
	h.subscribers[jobID][client] = struct{}{}
	h.mu.Unlock()

	go client.writePump()
	go client.readPump()
	return client
}

// SubscriberCount reports how many connections follow a job.
func (h *Hub) SubscriberCount(jobID kernel.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[jobID])
}

// Close drops every connection. Used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*Client, 0)
	for _, set := range h.subscribers {
		for client := range set {
			clients = append(clients, client)
		}
	}
	h.subscribers = make(map[kernel.UUID]map[*Client]struct{})
	h.mu.Unlock()

	for _, client := range clients {
		client.close()
	}
}

func (h *Hub) unsubscribe(jobID kernel.UUID, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subscribers[jobID]
	if !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.subscribers, jobID)
	}
}

// eventData maps an event to its client-facing payload. Identities beyond
// the servicer who claimed are deliberately absent from the wire.
func eventData(event events.DomainEvent) any {
	switch e := event.(type) {
	case events.JobClaimed:
		return map[string]any{
			"servicerId": e.ServicerID.String(),
			"at":         e.At.Format(time.RFC3339),
		}
	case events.JobStatusChanged:
		return map[string]any{
			"status": e.Status,
			"at":     e.At.Format(time.RFC3339),
		}
	case events.QueuePositionChanged:
		return map[string]any{
			"position": e.Position,
			"total":    e.Total,
			"at":       e.At.Format(time.RFC3339),
		}
	case events.LocationUpdated:
		return map[string]any{
			"latitude":   e.Ping.Point().Latitude(),
			"longitude":  e.Ping.Point().Longitude(),
			"heading":    e.Ping.Heading(),
			"speed":      e.Ping.Speed(),
			"recordedAt": e.Ping.RecordedAt().Format(time.RFC3339),
		}
	default:
		return nil
	}
}
