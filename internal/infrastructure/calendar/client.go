package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/taskdeck/backend/domain"
)

// Config points the client at a separately-authenticated Google account:
// an OAuth client secrets file plus a previously obtained token.
type Config struct {
	CredentialsFile string
	TokenFile       string
	CalendarID      string
	Timezone        string
}

// Client inserts task events into a Google calendar.
type Client struct {
	srv        *gcal.Service
	calendarID string
	timezone   string
}

// NewClient builds the Calendar service from the stored credentials and token.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	secrets, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", cfg.CredentialsFile, err)
	}

	oauthCfg, err := google.ConfigFromJSON(secrets, gcal.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file: %w", err)
	}

	token, err := readToken(cfg.TokenFile)
	if err != nil {
		return nil, err
	}

	srv, err := gcal.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("unable to build calendar service: %w", err)
	}

	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	timezone := cfg.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	return &Client{
		srv:        srv,
		calendarID: calendarID,
		timezone:   timezone,
	}, nil
}

// InsertTaskEvent creates a one-hour event ending at the task's due time.
// Every call inserts a new event; there is no lookup or update of events
// created by earlier calls.
func (c *Client) InsertTaskEvent(ctx context.Context, task *domain.Task) (*gcal.Event, error) {
	event, err := BuildEvent(task, c.timezone)
	if err != nil {
		return nil, err
	}
	return c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
}

// BuildEvent converts a task into the calendar event shape: summary is the
// title, the event spans the hour leading up to the due time in the fixed timezone.
func BuildEvent(task *domain.Task, timezone string) (*gcal.Event, error) {
	if task == nil || !task.HasDueDate() {
		return nil, fmt.Errorf("task has no due date")
	}
	if timezone == "" {
		timezone = "UTC"
	}

	end := *task.DueDate
	start := end.Add(-time.Hour)

	return &gcal.Event{
		Summary:     task.Title,
		Description: task.Description,
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: timezone,
		},
	}, nil
}

func readToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read token file %s: %w", path, err)
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("unable to decode token file %s: %w", path, err)
	}
	return token, nil
}
