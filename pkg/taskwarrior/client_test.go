package taskwarrior

import (
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/tasktrack/pkg/model"
)

func TestParseTask(t *testing.T) {
	input := `{
		"uuid": "f45a05b3-c12e-42e5-9c9c-333333333333",
		"description": "Buy milk",
		"status": "pending",
		"priority": "H",
		"due": "20230101T120000Z",
		"project": "Groceries",
		"tags": ["buy", "food"],
		"annotations": [
			{"entry": "20230101T120500Z", "description": "Don't forget almond milk"}
		]
	}`

	client := NewClient()
	task, err := client.ParseTask(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTask failed: %v", err)
	}

	if task.UUID != "f45a05b3-c12e-42e5-9c9c-333333333333" {
		t.Errorf("Expected UUID f45a05b3-c12e-42e5-9c9c-333333333333, got %s", task.UUID)
	}
	if task.Description != "Buy milk" {
		t.Errorf("Expected Description 'Buy milk', got '%s'", task.Description)
	}
	if task.Project != "Groceries" {
		t.Errorf("Expected Project 'Groceries', got '%s'", task.Project)
	}
	if len(task.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %d", len(task.Tags))
	}
	if len(task.Annotations) != 1 {
		t.Errorf("Expected 1 annotation, got %d", len(task.Annotations))
	}
	expectedDue, _ := time.Parse(time.RFC3339, "2023-01-01T12:00:00Z")
	if !task.Due.Time.Equal(expectedDue) {
		t.Errorf("Expected Due %v, got %v", expectedDue, task.Due.Time)
	}

	draft, err := task.ToDraft()
	if err != nil {
		t.Fatalf("ToDraft failed: %v", err)
	}
	if draft.Title != "Buy milk" {
		t.Errorf("Expected Title 'Buy milk', got '%s'", draft.Title)
	}
	if draft.Priority != 5 {
		t.Errorf("Expected priority 5 for H, got %d", draft.Priority)
	}
	if draft.Status != model.StatusPending {
		t.Errorf("Expected pending, got %s", draft.Status)
	}
	if draft.DueDate == nil || !draft.DueDate.Equal(expectedDue) {
		t.Errorf("Expected DueDate %v, got %v", expectedDue, draft.DueDate)
	}
	if !strings.Contains(draft.Description, "Project: Groceries") || !strings.Contains(draft.Description, "almond milk") {
		t.Errorf("Expected project and annotation in description, got: %s", draft.Description)
	}
	if len(draft.Tags) != 3 || draft.Tags[2] != "tw:f45a05b3-c12e-42e5-9c9c-333333333333" {
		t.Errorf("Expected tags plus tw: uuid tag, got %v", draft.Tags)
	}
}

func TestParseTasksArrayAndStream(t *testing.T) {
	client := NewClient()

	array := `[{"uuid":"1","description":"a","status":"pending"},{"uuid":"2","description":"b","status":"completed"}]`
	tasks, err := client.ParseTasks(strings.NewReader(array))
	if err != nil {
		t.Fatalf("ParseTasks(array) failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(tasks))
	}

	stream := "{\"uuid\":\"1\",\"description\":\"a\",\"status\":\"pending\"}\n{\"uuid\":\"2\",\"description\":\"b\",\"status\":\"deleted\"}\n"
	tasks, err = client.ParseTasks(strings.NewReader(stream))
	if err != nil {
		t.Fatalf("ParseTasks(stream) failed: %v", err)
	}
	if len(tasks) != 2 || tasks[1].Status != DELETED {
		t.Fatalf("Unexpected tasks: %+v", tasks)
	}

	if _, err := client.ParseTasks(strings.NewReader(`{"uuid":`)); err == nil {
		t.Error("Expected error for truncated input")
	}
}

func TestToDraftStatusAndPriority(t *testing.T) {
	started := &CustomTime{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cases := []struct {
		in       Task
		status   model.Status
		priority int
	}{
		{Task{Status: PENDING}, model.StatusPending, 2},
		{Task{Status: WAITING, Priority: "l"}, model.StatusPending, 1},
		{Task{Status: PENDING, Start: started, Priority: "M"}, model.StatusInProgress, 3},
		{Task{Status: COMPLETED}, model.StatusCompleted, 2},
		{Task{Status: DELETED}, model.StatusCancelled, 2},
	}
	for _, tc := range cases {
		d, err := tc.in.ToDraft()
		if err != nil {
			t.Fatalf("ToDraft(%+v) failed: %v", tc.in, err)
		}
		if d.Status != tc.status || d.Priority != tc.priority {
			t.Errorf("ToDraft(%+v) = (%s, %d), want (%s, %d)", tc.in, d.Status, d.Priority, tc.status, tc.priority)
		}
	}

	if _, err := (Task{Status: "bogus"}).ToDraft(); err == nil {
		t.Error("Expected error for unknown status")
	}
	if _, err := (Task{Status: PENDING, Priority: "X"}).ToDraft(); err == nil {
		t.Error("Expected error for unknown priority")
	}
}

func TestDraftsSkipsRecurringTemplates(t *testing.T) {
	export := `[
{"uuid":"parent","description":"Water plants","status":"recurring","recur":"weekly","due":"20300101T090000Z"},
{"uuid":"child","description":"Water plants","status":"pending","parent":"parent","due":"20300101T090000Z"},
{"uuid":"other","description":"Pay rent","status":"pending"}
]`
	tasks, err := NewClient().ParseTasks(strings.NewReader(export))
	if err != nil {
		t.Fatalf("ParseTasks failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("Expected 3 parsed tasks, got %d", len(tasks))
	}

	drafts, err := Drafts(tasks)
	if err != nil {
		t.Fatalf("Drafts failed: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("Expected recurring template to be skipped, got %d drafts", len(drafts))
	}
	if drafts[0].Title != "Water plants" || drafts[0].Status != model.StatusPending {
		t.Errorf("Unexpected first draft: %+v", drafts[0])
	}
	found := false
	for _, tag := range drafts[0].Tags {
		if tag == "tw:child" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected the pending instance to be imported, got tags %v", drafts[0].Tags)
	}
}
