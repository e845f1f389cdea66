package store

import (
	"fmt"

	"github.com/harrisonrobin/tasktrack/pkg/model"
)

// Import adds drafts as new tasks with fresh ids and a single save. Draft ids
// and creation times are ignored; an empty draft status means pending. Every
// draft is validated before anything is inserted, so a bad draft leaves the
// store untouched.
func (s *Store) Import(drafts []model.Task) ([]model.Task, error) {
	for i, d := range drafts {
		if !model.ValidPriority(d.Priority) {
			return nil, fmt.Errorf("draft %d (%q): %w: got %d", i, d.Title, ErrInvalidPriority, d.Priority)
		}
		if d.Status != "" && !d.Status.Valid() {
			return nil, fmt.Errorf("draft %d (%q): %w: %q", i, d.Title, ErrInvalidStatus, d.Status)
		}
	}
	if len(drafts) == 0 {
		return []model.Task{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	created := make([]model.Task, 0, len(drafts))
	for _, d := range drafts {
		id, err := s.uniqueIDLocked()
		if err != nil {
			s.rollbackLocked(created)
			return nil, err
		}

		task := d.Clone()
		task.ID = id
		task.CreatedAt = now
		if task.Status == "" {
			task.Status = model.StatusPending
		}

		s.tasks[id] = task
		s.order = append(s.order, id)
		created = append(created, task.Clone())
	}
	s.saveLocked()

	return created, nil
}

func (s *Store) rollbackLocked(created []model.Task) {
	for _, t := range created {
		delete(s.tasks, t.ID)
	}
	s.order = s.order[:len(s.order)-len(created)]
}
