package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/backend/domain"
)

func TestBuildEvent(t *testing.T) {
	due := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	task := &domain.Task{
		ID:          "task-1",
		Title:       "Quarterly review",
		Description: "Prepare slides",
		DueDate:     &due,
	}

	event, err := BuildEvent(task, "Europe/Berlin")
	require.NoError(t, err)

	assert.Equal(t, "Quarterly review", event.Summary)
	assert.Equal(t, "Prepare slides", event.Description)
	assert.Equal(t, due.Add(-time.Hour).Format(time.RFC3339), event.Start.DateTime)
	assert.Equal(t, due.Format(time.RFC3339), event.End.DateTime)
	assert.Equal(t, "Europe/Berlin", event.Start.TimeZone)
	assert.Equal(t, "Europe/Berlin", event.End.TimeZone)
}

func TestBuildEventDefaultsTimezone(t *testing.T) {
	due := time.Now().Add(2 * time.Hour)
	event, err := BuildEvent(&domain.Task{Title: "x", DueDate: &due}, "")
	require.NoError(t, err)
	assert.Equal(t, "UTC", event.Start.TimeZone)
}

func TestBuildEventRequiresDueDate(t *testing.T) {
	_, err := BuildEvent(&domain.Task{Title: "No deadline"}, "UTC")
	assert.Error(t, err)

	_, err = BuildEvent(nil, "UTC")
	assert.Error(t, err)
}
