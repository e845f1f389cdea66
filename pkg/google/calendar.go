package google

import (
	"fmt"
	"log"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/tasktrack/pkg/index"
	"github.com/harrisonrobin/tasktrack/pkg/model"
)

// CalendarClient is a Google Calendar API client.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	index      *index.EventIndex
}

// NewCalendarClient creates a new Google Calendar client.
func NewCalendarClient(srv *calendar.Service, calendarID string, idx *index.EventIndex) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID, index: idx}
}

// SyncEvent creates a new event or patches the existing one for task.
func (c *CalendarClient) SyncEvent(task model.Task, now time.Time) (*calendar.Event, error) {
	event, err := ConvertTaskToEvent(task, now)
	if err != nil {
		return nil, err
	}

	var existingEvent *calendar.Event
	if c.index != nil {
		if eventID := c.index.Get(task.ID); eventID != "" {
			existingEvent, err = c.srv.Events.Get(c.calendarID, eventID).Do()
			if err != nil || existingEvent.Status == "cancelled" {
				existingEvent = nil
			} else if id, ok := TaskIDFromEvent(existingEvent); !ok || id != task.ID {
				// Stale mapping; the event belongs to something else now.
				existingEvent = nil
			}
		}
	}

	if existingEvent == nil {
		existingEvent, err = c.GetEventByTaskID(task.ID)
		if err != nil {
			return nil, fmt.Errorf("error searching for event: %w", err)
		}
	}

	if existingEvent != nil {
		patch, err := EventNeedsUpdate(existingEvent, event)
		if err != nil {
			log.Printf("could not compare task %s with its calendar event: %v", task.ID, err)
			return nil, err
		}
		if patch == nil {
			if c.index != nil {
				c.index.Set(task.ID, existingEvent.Id)
			}
			return existingEvent, nil
		}
		updatedEvent, err := c.PatchEvent(existingEvent.Id, patch)
		if err == nil && c.index != nil {
			c.index.Set(task.ID, updatedEvent.Id)
		}
		return updatedEvent, err
	}

	createdEvent, err := c.srv.Events.Insert(c.calendarID, event).Do()
	if err == nil && c.index != nil {
		c.index.Set(task.ID, createdEvent.Id)
	}
	return createdEvent, err
}

// PatchEvent performs a partial update on an event.
func (c *CalendarClient) PatchEvent(eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Do()
}

// DeleteEvent deletes an event from the calendar.
func (c *CalendarClient) DeleteEvent(eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Do()
}

// GetEventByTaskID searches for the event carrying taskID in its private properties.
func (c *CalendarClient) GetEventByTaskID(taskID string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", TaskIDProperty, taskID)).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}
