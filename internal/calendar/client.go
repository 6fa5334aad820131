package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const eventsURLFormat = "https://www.googleapis.com/calendar/v3/calendars/%s/events"

// Client talks to the Google Calendar events API for a single calendar.
type Client struct {
	Token      string
	CalendarID string
	HTTPClient *http.Client
}

func NewClient(token, calendarID string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("calendar: access token is required")
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{
		Token:      token,
		CalendarID: calendarID,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type eventDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type eventReminderOverride struct {
	Method  string `json:"method"`
	Minutes int    `json:"minutes"`
}

type eventReminders struct {
	UseDefault bool                    `json:"useDefault"`
	Overrides  []eventReminderOverride `json:"overrides"`
}

type eventPayload struct {
	Summary     string         `json:"summary"`
	Description string         `json:"description,omitempty"`
	Start       eventDateTime  `json:"start"`
	End         eventDateTime  `json:"end"`
	Reminders   eventReminders `json:"reminders"`
}

type eventResponse struct {
	ID       string `json:"id"`
	HTMLLink string `json:"htmlLink"`
}

// CreateEvent inserts a one hour event starting at the given time and returns
// its web link. Reminders are an email an hour before and a popup fifteen
// minutes before.
func (c *Client) CreateEvent(ctx context.Context, summary, description string, start time.Time) (string, error) {
	tz := start.Location().String()
	payload := eventPayload{
		Summary:     summary,
		Description: description,
		Start:       eventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: tz},
		End:         eventDateTime{DateTime: start.Add(time.Hour).Format(time.RFC3339), TimeZone: tz},
		Reminders: eventReminders{
			Overrides: []eventReminderOverride{
				{Method: "email", Minutes: 60},
				{Method: "popup", Minutes: 15},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("calendar: encoding event: %w", err)
	}

	url := fmt.Sprintf(eventsURLFormat, c.CalendarID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("calendar: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calendar: creating event: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("calendar: reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("calendar: event creation failed with status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var out eventResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("calendar: decoding response: %w", err)
	}
	return out.HTMLLink, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
