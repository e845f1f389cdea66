package taskwarrior

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/tasktrack/pkg/model"
)

const (
	PENDING   = "pending"
	COMPLETED = "completed"
	WAITING   = "waiting"
	DELETED   = "deleted"
	RECURRING = "recurring"
)

type CustomTime struct {
	time.Time
}

const taskwarriorTimeLayout = "20060102T150405Z" // YYYYMMDDTHHMMSSZ, 'Z' indicates UTC

// UnmarshalJSON implements the json.Unmarshaler interface for CustomTime.
func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "0" {
		ct.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(taskwarriorTimeLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse Taskwarrior time string '%s': %w", s, err)
	}
	ct.Time = t
	return nil
}

// MarshalJSON implements the json.Marshaler interface for CustomTime.
func (ct CustomTime) MarshalJSON() ([]byte, error) {
	if ct.Time.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ct.Time.Format(taskwarriorTimeLayout) + `"`), nil
}

type Annotation struct {
	Description string      `json:"description"`
	Entry       *CustomTime `json:"entry"`
}

// Task is one entry of `task export`.
type Task struct {
	UUID        string       `json:"uuid"`
	Description string       `json:"description"`
	Due         *CustomTime  `json:"due,omitempty"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority,omitempty"`
	Project     string       `json:"project,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Start       *CustomTime  `json:"start,omitempty"`
}

// priorityLevels maps taskwarrior's H/M/L onto the 1..5 scale. Tasks
// without a priority sit just above L.
var priorityLevels = map[string]int{
	"H": 5,
	"M": 3,
	"L": 1,
	"":  2,
}

// ToDraft converts t into a task ready for store import. The store assigns
// a new id; the taskwarrior uuid is kept as a "tw:" tag.
func (t Task) ToDraft() (model.Task, error) {
	priority, ok := priorityLevels[strings.ToUpper(t.Priority)]
	if !ok {
		return model.Task{}, fmt.Errorf("task %s: unknown priority %q", t.UUID, t.Priority)
	}

	var status model.Status
	switch t.Status {
	case PENDING, WAITING, RECURRING, "":
		status = model.StatusPending
		if t.Start != nil && !t.Start.IsZero() {
			status = model.StatusInProgress
		}
	case COMPLETED:
		status = model.StatusCompleted
	case DELETED:
		status = model.StatusCancelled
	default:
		return model.Task{}, fmt.Errorf("task %s: unknown status %q", t.UUID, t.Status)
	}

	var desc strings.Builder
	if t.Project != "" {
		desc.WriteString(fmt.Sprintf("Project: %s\n", t.Project))
	}
	for _, ann := range t.Annotations {
		desc.WriteString(fmt.Sprintf("‣ %s\n", ann.Description))
	}

	tags := append([]string{}, t.Tags...)
	if t.UUID != "" {
		tags = append(tags, "tw:"+t.UUID)
	}

	draft := model.Task{
		Title:       t.Description,
		Description: strings.TrimSpace(desc.String()),
		Priority:    priority,
		Status:      status,
		Tags:        tags,
	}
	if t.Due != nil && !t.Due.IsZero() {
		due := t.Due.Time
		draft.DueDate = &due
	}
	return draft, nil
}
