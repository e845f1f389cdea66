package snapshot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/harrisonrobin/tasktrack/pkg/model"
)

// ErrNotFound is returned by Load when no snapshot has been written yet.
var ErrNotFound = errors.New("snapshot not found")

// Adapter reads and writes the full set of tasks to durable storage.
// Save must replace the previous snapshot atomically.
type Adapter interface {
	Load(ctx context.Context) (map[string]model.Task, error)
	Save(ctx context.Context, tasks map[string]model.Task) error
}

// Supported backend names for Open.
const (
	BackendJSON   = "json"
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Open returns the adapter for backend stored at path. An empty backend is
// inferred from the file extension.
func Open(backend, path string) (Adapter, error) {
	if backend == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".db", ".sqlite", ".sqlite3":
			backend = BackendSQLite
		case ".yaml", ".yml":
			backend = BackendYAML
		default:
			backend = BackendJSON
		}
	}

	switch backend {
	case BackendJSON:
		return NewFile(path, JSONCodec{}), nil
	case BackendYAML:
		return NewFile(path, YAMLCodec{}), nil
	case BackendSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", backend)
	}
}

// document is the on-disk shape shared by the file codecs.
type document struct {
	Version int                   `json:"version" yaml:"version"`
	Tasks   map[string]model.Task `json:"tasks" yaml:"tasks"`
}

const documentVersion = 1

// validate checks every loaded record so a corrupt snapshot never reaches the store.
func validate(tasks map[string]model.Task) error {
	for key, t := range tasks {
		if t.ID == "" {
			t.ID = key
		}
		if t.ID != key {
			return fmt.Errorf("task keyed %q carries id %q", key, t.ID)
		}
		if !model.ValidPriority(t.Priority) {
			return fmt.Errorf("task %s: priority %d out of range", key, t.Priority)
		}
		if !t.Status.Valid() {
			return fmt.Errorf("task %s: unknown status %q", key, t.Status)
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
		tasks[key] = t
	}
	return nil
}
