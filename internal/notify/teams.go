// Package notify posts lifecycle events to a Teams-style chat webhook.
// Delivery is best-effort everywhere it is used; callers treat failures as
// warnings.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/RobertsBrothersCoach/rbc-envops/internal/errors"
)

// Status is the tri-state outcome shown on a notification card.
type Status string

const (
	StatusSuccess  Status = "Success"
	StatusWarnings Status = "Success with warnings"
	StatusFailure  Status = "Failure"
)

// ThemeColor returns the card accent for a status.
func (s Status) ThemeColor() string {
	switch s {
	case StatusSuccess:
		return "00B294"
	case StatusWarnings:
		return "FFB900"
	default:
		return "D13438"
	}
}

// Event is one lifecycle notification.
type Event struct {
	Title       string
	Environment string
	Status      Status
	Details     string
	RunID       string
}

// card is the MessageCard payload the webhook expects.
type card struct {
	Type       string    `json:"@type"`
	Context    string    `json:"@context"`
	ThemeColor string    `json:"themeColor"`
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	Sections   []section `json:"sections,omitempty"`
}

type section struct {
	Facts []fact `json:"facts"`
}

type fact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Notifier posts events to a single webhook URL.
type Notifier struct {
	url    string
	client *http.Client
	now    func() time.Time
}

// NewNotifier returns a notifier for the given webhook URL. An empty URL is
// allowed; Send then reports ErrWebhookURLNotSet so callers can log and
// move on.
func NewNotifier(url string) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
		now:    time.Now,
	}
}

// Send posts one event. Any non-2xx response is an error.
func (n *Notifier) Send(ctx context.Context, event Event) error {
	if n.url == "" {
		return apperrors.ErrWebhookURLNotSet
	}

	payload := card{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		ThemeColor: event.Status.ThemeColor(),
		Title:      event.Title,
		Text:       event.Details,
		Sections: []section{{
			Facts: []fact{
				{Name: "Environment", Value: event.Environment},
				{Name: "Status", Value: string(event.Status)},
				{Name: "Run", Value: event.RunID},
				{Name: "Timestamp", Value: n.now().UTC().Format(time.RFC3339)},
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
