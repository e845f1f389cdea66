package google

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/tasktrack/pkg/model"
)

// TaskIDProperty is the private extended property that links an event to its task.
const TaskIDProperty = "tasktrack_id"

const defaultDuration = 30 * time.Minute

// priorityColors maps task priority to a Calendar color id
// (11 tomato, 6 tangerine, 5 banana, 2 sage, 8 graphite).
var priorityColors = map[int]string{
	5: "11",
	4: "6",
	3: "5",
	2: "2",
	1: "8",
}

// Summary renders the event title: ✓ completed, ✗ cancelled, ‣ in progress,
// ! overdue.
func Summary(task model.Task, now time.Time) string {
	prefix := ""
	switch {
	case task.Status == model.StatusCompleted:
		prefix = "✓"
	case task.Status == model.StatusCancelled:
		prefix = "✗"
	case task.IsOverdue(now):
		prefix = "!"
	case task.Status == model.StatusInProgress:
		prefix = "‣"
	}
	if prefix == "" {
		return task.Title
	}
	return fmt.Sprintf("%s %s", prefix, task.Title)
}

// ConvertTaskToEvent builds the calendar event for a task with a due date.
// The event ends at the due date and starts defaultDuration earlier.
func ConvertTaskToEvent(task model.Task, now time.Time) (*calendar.Event, error) {
	if task.DueDate == nil {
		return nil, fmt.Errorf("task %s has no due date", task.ID)
	}

	end := *task.DueDate
	start := end.Add(-defaultDuration)

	var descBuilder strings.Builder
	if len(task.Tags) > 0 {
		for _, tag := range task.Tags {
			descBuilder.WriteString(fmt.Sprintf("#%s ", tag))
		}
		descBuilder.WriteString("\n\n")
	}
	if task.Description != "" {
		descBuilder.WriteString(task.Description)
		descBuilder.WriteString("\n\n")
	}
	descBuilder.WriteString(fmt.Sprintf("Status: %s\n", task.Status))
	descBuilder.WriteString(fmt.Sprintf("Priority: %d\n", task.Priority))
	descBuilder.WriteString(fmt.Sprintf("ID: %s\n", task.ID))

	colorID, ok := priorityColors[task.Priority]
	if !ok {
		colorID = "1"
	}

	event := &calendar.Event{
		Summary: Summary(task, now),
		ColorId: colorID,
		Start: &calendar.EventDateTime{
			DateTime: start.UTC().Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: end.UTC().Format(time.RFC3339),
		},
		Description: descBuilder.String(),
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				TaskIDProperty: task.ID,
			},
		},
	}
	return event, nil
}

// EventNeedsUpdate returns a patch holding the fields of target that differ
// from existing, or nil when nothing changed.
func EventNeedsUpdate(existing, target *calendar.Event) (*calendar.Event, error) {
	patch := &calendar.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		needsUpdate = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		needsUpdate = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		needsUpdate = true
	}

	sameTime, err := sameDateTime(existing.Start, target.Start)
	if err != nil {
		return nil, err
	}
	sameEnd, err := sameDateTime(existing.End, target.End)
	if err != nil {
		return nil, err
	}
	if !sameTime || !sameEnd {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch, nil
	}
	return nil, nil
}

func sameDateTime(a, b *calendar.EventDateTime) (bool, error) {
	if a == nil || b == nil || a.DateTime == "" || b.DateTime == "" {
		return a != nil && b != nil && a.DateTime == b.DateTime, nil
	}
	at, err := time.Parse(time.RFC3339, a.DateTime)
	if err != nil {
		return false, err
	}
	bt, err := time.Parse(time.RFC3339, b.DateTime)
	if err != nil {
		return false, err
	}
	return at.Equal(bt), nil
}

// TaskIDFromEvent returns the task id stored on an event.
func TaskIDFromEvent(event *calendar.Event) (string, bool) {
	if event == nil || event.ExtendedProperties == nil {
		return "", false
	}
	id, ok := event.ExtendedProperties.Private[TaskIDProperty]
	return id, ok && id != ""
}
