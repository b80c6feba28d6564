// Package notify implements the Notifier port against the external
// notification service's HTTP API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"curbside/internal/core/ports"
)

const defaultTimeout = 5 * time.Second

// notificationRequest is the wire shape of a push request.
type notificationRequest struct {
	UserID string            `json:"userId"`
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	JobID  string            `json:"jobId"`
	Meta   map[string]string `json:"meta,omitempty"`
}

// HTTPNotifier posts notifications to the notification service. Delivery is
// best effort; callers treat a returned error as a logging matter, never a
// rollback.
type HTTPNotifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPNotifier creates a notifier for the service at baseURL. A nil
// client falls back to one with a short timeout; a push that cannot be
// delivered quickly is not worth waiting for.
func NewHTTPNotifier(baseURL, apiKey string, client *http.Client) *HTTPNotifier {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPNotifier{baseURL: baseURL, apiKey: apiKey, client: client}
}

// Notify posts one notification. Non-2xx responses are returned as errors
// with the status code.
func (n *HTTPNotifier) Notify(ctx context.Context, notification ports.Notification) error {
	payload, err := json.Marshal(notificationRequest{
		UserID: notification.UserID.String(),
		Type:   notification.Type,
		Title:  notification.Title,
		Body:   notification.Body,
		JobID:  notification.JobID.String(),
		Meta:   notification.Meta,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		n.baseURL+"/notifications", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("notification service returned %d", resp.StatusCode)
	}
	return nil
}
