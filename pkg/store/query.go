package store

import (
	"strings"

	"github.com/harrisonrobin/tasktrack/pkg/model"
)

// GetTasksByPriority returns open tasks with priority >= min. Only completed
// tasks are excluded; cancelled ones are kept.
func (s *Store) GetTasksByPriority(min int) []model.Task {
	return s.filter(func(t model.Task) bool {
		return t.Priority >= min && t.Status != model.StatusCompleted
	})
}

// GetOverdueTasks returns tasks whose due date has passed and that are not completed.
func (s *Store) GetOverdueTasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overdueLocked()
}

func (s *Store) overdueLocked() []model.Task {
	now := s.now()
	return s.filterLocked(func(t model.Task) bool { return t.IsOverdue(now) })
}

// SearchTasks matches query case-insensitively against title, description and tags.
func (s *Store) SearchTasks(query string) []model.Task {
	q := strings.ToLower(query)
	return s.filter(func(t model.Task) bool {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			return true
		}
		for _, tag := range t.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	})
}

// Statistics is a point-in-time count of the store.
type Statistics struct {
	Total    int                  `json:"total"`
	ByStatus map[model.Status]int `json:"by_status"`
	Overdue  int                  `json:"overdue"`
}

// AsMap flattens the counts into "total", one key per status, and "overdue".
func (st Statistics) AsMap() map[string]int {
	m := map[string]int{
		"total":   st.Total,
		"overdue": st.Overdue,
	}
	for _, status := range model.Statuses {
		m[string(status)] = st.ByStatus[status]
	}
	return m
}

// GetTaskStatistics counts tasks by their current status. Every status has an
// entry, and the overdue count uses the same rule as GetOverdueTasks.
func (s *Store) GetTaskStatistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Statistics{
		Total:    len(s.tasks),
		ByStatus: make(map[model.Status]int, len(model.Statuses)),
	}
	for _, status := range model.Statuses {
		st.ByStatus[status] = 0
	}
	for _, t := range s.tasks {
		st.ByStatus[t.Status]++
	}
	st.Overdue = len(s.overdueLocked())
	return st
}
