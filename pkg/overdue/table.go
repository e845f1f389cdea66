package overdue

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/harrisonrobin/tasktrack/pkg/config"
	"github.com/harrisonrobin/tasktrack/pkg/model"
	"github.com/harrisonrobin/tasktrack/pkg/util"
)

// FileName is the table file inside the config directory.
const FileName = "pending_tasks.json"

// Entry is an open task whose calendar event still shows it as on time.
type Entry struct {
	TaskID  string    `json:"task_id"`
	EventID string    `json:"event_id"`
	Title   string    `json:"title"`
	Due     time.Time `json:"due"`
}

// Table tracks dated open tasks until their due date passes.
type Table struct {
	Entries map[string]Entry `json:"entries"`
	Path    string           `json:"-"`
	dirty   bool
}

// NewTable opens the table in the tasktrack config directory.
func NewTable() (*Table, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return NewTableAt(filepath.Join(dir, FileName))
}

// NewTableAt opens the table stored at path. A missing file is an empty table.
func NewTableAt(path string) (*Table, error) {
	t := &Table{
		Path:    path,
		Entries: make(map[string]Entry),
	}
	if err := t.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return t, nil
}

func (t *Table) Load() error {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return err
	}
	var loaded Table
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}
	if loaded.Entries == nil {
		loaded.Entries = make(map[string]Entry)
	}
	t.Entries = loaded.Entries
	t.dirty = false
	return nil
}

func (t *Table) Save() error {
	if !t.dirty {
		return nil
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	if err := util.WriteFileAtomic(t.Path, data, 0600); err != nil {
		return err
	}
	t.dirty = false
	return nil
}

// Update tracks task while it is open, dated and not yet overdue at now.
// Any other task is removed.
func (t *Table) Update(task model.Task, eventID string, now time.Time) {
	open := task.Status == model.StatusPending || task.Status == model.StatusInProgress
	if !open || task.DueDate == nil || !task.DueDate.After(now) {
		t.Remove(task.ID)
		return
	}

	entry := Entry{
		TaskID:  task.ID,
		EventID: eventID,
		Title:   task.Title,
		Due:     *task.DueDate,
	}
	old, exists := t.Entries[task.ID]
	if !exists || !old.Due.Equal(entry.Due) || old.EventID != entry.EventID || old.Title != entry.Title {
		t.Entries[task.ID] = entry
		t.dirty = true
	}
}

func (t *Table) Remove(taskID string) {
	if _, exists := t.Entries[taskID]; exists {
		delete(t.Entries, taskID)
		t.dirty = true
	}
}

// Sweep returns entries that have become overdue (Due < now) and removes them.
// Entries come back ordered by due date.
func (t *Table) Sweep(now time.Time) []Entry {
	var swept []Entry
	for id, entry := range t.Entries {
		if entry.Due.Before(now) {
			swept = append(swept, entry)
			delete(t.Entries, id)
			t.dirty = true
		}
	}
	sort.Slice(swept, func(i, j int) bool {
		if swept[i].Due.Equal(swept[j].Due) {
			return swept[i].TaskID < swept[j].TaskID
		}
		return swept[i].Due.Before(swept[j].Due)
	})
	return swept
}
