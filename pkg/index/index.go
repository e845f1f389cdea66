package index

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/harrisonrobin/tasktrack/pkg/config"
	"github.com/harrisonrobin/tasktrack/pkg/util"
)

// FileName is the index file inside the config directory.
const FileName = "events.json"

// EventIndex maps task ids to calendar event ids.
type EventIndex struct {
	Mappings map[string]string `json:"mappings"`
	Path     string            `json:"-"`
	mu       sync.RWMutex
	dirty    bool
}

// NewEventIndex opens the index in the tasktrack config directory.
func NewEventIndex() (*EventIndex, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return NewEventIndexAt(filepath.Join(dir, FileName))
}

// NewEventIndexAt opens the index stored at path. A missing file is an empty index.
func NewEventIndexAt(path string) (*EventIndex, error) {
	idx := &EventIndex{
		Mappings: make(map[string]string),
		Path:     path,
	}
	if err := idx.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return idx, nil
}

func (idx *EventIndex) Load() error {
	data, err := os.ReadFile(idx.Path)
	if err != nil {
		return err
	}
	mappings := make(map[string]string)
	if err := json.Unmarshal(data, &mappings); err != nil {
		return err
	}
	if mappings == nil {
		mappings = make(map[string]string)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.Mappings = mappings
	idx.dirty = false
	return nil
}

// Save writes the index if it changed since the last load or save.
func (idx *EventIndex) Save() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.dirty {
		return nil
	}

	data, err := json.Marshal(idx.Mappings)
	if err != nil {
		return err
	}
	if err := util.WriteFileAtomic(idx.Path, data, 0600); err != nil {
		return err
	}
	idx.dirty = false
	return nil
}

func (idx *EventIndex) Get(taskID string) string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.Mappings[taskID]
}

func (idx *EventIndex) Set(taskID, eventID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.Mappings[taskID] != eventID {
		idx.Mappings[taskID] = eventID
		idx.dirty = true
	}
}

func (idx *EventIndex) Remove(taskID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, exists := idx.Mappings[taskID]; exists {
		delete(idx.Mappings, taskID)
		idx.dirty = true
	}
}

// Len returns the number of mapped tasks.
func (idx *EventIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.Mappings)
}

// TaskIDs returns the mapped task ids in sorted order.
func (idx *EventIndex) TaskIDs() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ids := make([]string, 0, len(idx.Mappings))
	for id := range idx.Mappings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
