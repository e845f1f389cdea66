package store

import (
	"testing"
	"time"

	"github.com/harrisonrobin/tasktrack/pkg/model"
)

func mustCreate(t *testing.T, s *Store, title string, priority int, due *time.Time, tags ...string) model.Task {
	t.Helper()
	task, err := s.CreateTask(title, title+" description", priority, due, tags)
	if err != nil {
		t.Fatalf("CreateTask(%q) err=%v", title, err)
	}
	return task
}

func mustSetStatus(t *testing.T, s *Store, id string, status model.Status) {
	t.Helper()
	if ok, err := s.UpdateTaskStatus(id, status); err != nil || !ok {
		t.Fatalf("UpdateTaskStatus(%s, %s) ok=%v err=%v", id, status, ok, err)
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func sameIDs(got []model.Task, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestGetTasksByPriority(t *testing.T) {
	s, _ := newTestStore(t)
	p5 := mustCreate(t, s, "p5", 5, nil)
	p4a := mustCreate(t, s, "p4a", 4, nil)
	p4b := mustCreate(t, s, "p4b", 4, nil)
	mustCreate(t, s, "p3", 3, nil)
	mustCreate(t, s, "p2", 2, nil)
	mustSetStatus(t, s, p4b.ID, model.StatusCompleted)

	got := s.GetTasksByPriority(4)
	if !sameIDs(got, p5.ID, p4a.ID) {
		t.Errorf("GetTasksByPriority(4)=%v, want [%s %s]", ids(got), p5.ID, p4a.ID)
	}
}

func TestGetTasksByPriority_KeepsCancelled(t *testing.T) {
	s, _ := newTestStore(t)
	c := mustCreate(t, s, "cancelled", 5, nil)
	mustSetStatus(t, s, c.ID, model.StatusCancelled)

	if got := s.GetTasksByPriority(1); !sameIDs(got, c.ID) {
		t.Errorf("GetTasksByPriority(1)=%v, want [%s]", ids(got), c.ID)
	}
	if got := s.GetTasksByPriority(6); len(got) != 0 {
		t.Errorf("GetTasksByPriority(6)=%v, want empty", ids(got))
	}
}

func TestGetOverdueTasks(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)
	s, _ := newTestStore(t, WithClock(fixedClock(now)))

	inProgress := mustCreate(t, s, "in progress", 3, &past)
	completed := mustCreate(t, s, "completed", 3, &past)
	cancelled := mustCreate(t, s, "cancelled", 3, &past)
	mustCreate(t, s, "future", 3, &future)
	mustCreate(t, s, "no due date", 3, nil)

	mustSetStatus(t, s, inProgress.ID, model.StatusInProgress)
	mustSetStatus(t, s, completed.ID, model.StatusCompleted)
	mustSetStatus(t, s, cancelled.ID, model.StatusCancelled)

	got := s.GetOverdueTasks()
	if !sameIDs(got, inProgress.ID, cancelled.ID) {
		t.Errorf("GetOverdueTasks()=%v, want [%s %s]", ids(got), inProgress.ID, cancelled.ID)
	}
}

func TestSearchTasks(t *testing.T) {
	s, _ := newTestStore(t)
	byTitle, _ := s.CreateTask("Implement Authentication", "", 3, nil, nil)
	byDesc, _ := s.CreateTask("Session cleanup", "expire stale AUTH tokens", 3, nil, nil)
	byTag, _ := s.CreateTask("Rotate keys", "", 3, nil, []string{"security", "oauth"})
	s.CreateTask("Unrelated", "nothing here", 3, nil, []string{"misc"})

	got := s.SearchTasks("auth")
	if !sameIDs(got, byTitle.ID, byDesc.ID, byTag.ID) {
		t.Errorf("SearchTasks(auth)=%v, want [%s %s %s]", ids(got), byTitle.ID, byDesc.ID, byTag.ID)
	}

	if got := s.SearchTasks("AUTHENTICATION"); !sameIDs(got, byTitle.ID) {
		t.Errorf("SearchTasks(AUTHENTICATION)=%v, want [%s]", ids(got), byTitle.ID)
	}
	if got := s.SearchTasks("zzz"); len(got) != 0 {
		t.Errorf("SearchTasks(zzz)=%v, want empty", ids(got))
	}
	if got := s.SearchTasks(""); len(got) != 4 {
		t.Errorf("SearchTasks(\"\") len=%d, want 4", len(got))
	}
}

func TestGetTaskStatistics(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	s, _ := newTestStore(t, WithClock(fixedClock(now)))

	st := s.GetTaskStatistics()
	if st.Total != 0 || st.Overdue != 0 || len(st.ByStatus) != len(model.Statuses) {
		t.Errorf("empty store stats=%+v", st)
	}

	a := mustCreate(t, s, "a", 1, &past)
	b := mustCreate(t, s, "b", 2, &past)
	c := mustCreate(t, s, "c", 3, nil)
	mustCreate(t, s, "d", 4, nil)
	mustSetStatus(t, s, a.ID, model.StatusInProgress)
	mustSetStatus(t, s, b.ID, model.StatusCompleted)
	mustSetStatus(t, s, c.ID, model.StatusCancelled)

	st = s.GetTaskStatistics()
	if st.Total != 4 {
		t.Errorf("Total=%d, want 4", st.Total)
	}
	want := map[model.Status]int{
		model.StatusPending:    1,
		model.StatusInProgress: 1,
		model.StatusCompleted:  1,
		model.StatusCancelled:  1,
	}
	sum := 0
	for status, n := range want {
		if st.ByStatus[status] != n {
			t.Errorf("ByStatus[%s]=%d, want %d", status, st.ByStatus[status], n)
		}
		sum += st.ByStatus[status]
	}
	if sum != st.Total {
		t.Errorf("bucket sum=%d, want %d", sum, st.Total)
	}
	if st.Overdue != len(s.GetOverdueTasks()) || st.Overdue != 1 {
		t.Errorf("Overdue=%d, want 1", st.Overdue)
	}

	m := st.AsMap()
	if m["total"] != 4 || m["overdue"] != 1 || m["in_progress"] != 1 || m["cancelled"] != 1 {
		t.Errorf("AsMap()=%v", m)
	}
}

func TestStatisticsFollowLiveStatus(t *testing.T) {
	s, _ := newTestStore(t)
	task := mustCreate(t, s, "t", 3, nil)

	if got := s.GetTaskStatistics().ByStatus[model.StatusPending]; got != 1 {
		t.Fatalf("pending=%d, want 1", got)
	}
	mustSetStatus(t, s, task.ID, model.StatusCompleted)

	st := s.GetTaskStatistics()
	if st.ByStatus[model.StatusPending] != 0 || st.ByStatus[model.StatusCompleted] != 1 {
		t.Errorf("stats did not follow status change: %+v", st.ByStatus)
	}
}
