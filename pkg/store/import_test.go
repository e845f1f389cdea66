package store

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/tasktrack/pkg/model"
	"github.com/harrisonrobin/tasktrack/pkg/orgmode"
)

func TestImport(t *testing.T) {
	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	s, a := newTestStore(t, WithClock(fixedClock(now)))
	existing := mustCreate(t, s, "existing", 2, nil)

	drafts := []model.Task{
		{ID: "ignored", Title: "one", Priority: 5, Tags: []string{"x"}},
		{Title: "two", Priority: 1, Status: model.StatusCompleted},
	}
	created, err := s.Import(drafts)
	if err != nil {
		t.Fatalf("Import err=%v", err)
	}
	if len(created) != 2 {
		t.Fatalf("len=%d, want 2", len(created))
	}
	if created[0].ID == "ignored" || created[0].ID == "" {
		t.Errorf("draft id was kept: %q", created[0].ID)
	}
	if created[0].Status != model.StatusPending || created[1].Status != model.StatusCompleted {
		t.Errorf("statuses=%s,%s", created[0].Status, created[1].Status)
	}
	if !created[0].CreatedAt.Equal(now) {
		t.Errorf("CreatedAt=%v, want %v", created[0].CreatedAt, now)
	}
	if !sameIDs(s.ListTasks(), existing.ID, created[0].ID, created[1].ID) {
		t.Errorf("order=%v", ids(s.ListTasks()))
	}
	if a.saveCount() != 2 {
		t.Errorf("saves=%d, want 2 (one create, one import)", a.saveCount())
	}
}

func TestImport_ValidatesEverythingFirst(t *testing.T) {
	s, a := newTestStore(t)

	_, err := s.Import([]model.Task{
		{Title: "ok", Priority: 3},
		{Title: "bad", Priority: 9},
	})
	if !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("err=%v, want %v", err, ErrInvalidPriority)
	}

	_, err = s.Import([]model.Task{
		{Title: "ok", Priority: 3},
		{Title: "bad", Priority: 3, Status: "archived"},
	})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err=%v, want %v", err, ErrInvalidStatus)
	}

	if s.Len() != 0 || a.saveCount() != 0 {
		t.Errorf("Len()=%d saves=%d, want 0 0", s.Len(), a.saveCount())
	}
}

func TestImport_RollsBackOnIDExhaustion(t *testing.T) {
	s, a := newTestStore(t, WithIDGenerator(sequenceIDs("only")))

	_, err := s.Import([]model.Task{{Title: "a", Priority: 1}, {Title: "b", Priority: 1}})
	if !errors.Is(err, ErrIDCollision) {
		t.Fatalf("err=%v, want %v", err, ErrIDCollision)
	}
	if s.Len() != 0 || len(s.ListTasks()) != 0 || a.saveCount() != 0 {
		t.Errorf("partial import left behind: len=%d saves=%d", s.Len(), a.saveCount())
	}
}

func TestImport_OrgDrafts(t *testing.T) {
	s, _ := newTestStore(t)
	drafts, err := orgmode.Parse(strings.NewReader("* TODO [#A] Ship authentication :auth:\n* DONE Tidy up\n"))
	if err != nil {
		t.Fatalf("Parse err=%v", err)
	}
	if _, err := s.Import(drafts); err != nil {
		t.Fatalf("Import err=%v", err)
	}

	if got := s.SearchTasks("auth"); len(got) != 1 || got[0].Priority != 5 {
		t.Errorf("SearchTasks(auth)=%+v", got)
	}
	if got := s.GetTaskStatistics().ByStatus[model.StatusCompleted]; got != 1 {
		t.Errorf("completed=%d, want 1", got)
	}
}
