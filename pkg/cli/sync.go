package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/tasktrack/pkg/google"
	"github.com/harrisonrobin/tasktrack/pkg/index"
	"github.com/harrisonrobin/tasktrack/pkg/model"
	"github.com/harrisonrobin/tasktrack/pkg/overdue"
)

// eventMirror is the part of google.CalendarClient used by sync.
type eventMirror interface {
	SyncEvent(task model.Task, now time.Time) (*calendar.Event, error)
	PatchEvent(eventID string, patch *calendar.Event) (*calendar.Event, error)
	DeleteEvent(eventID string) error
}

type syncResult struct {
	Synced  int
	Failed  int
	Flagged int
	Removed int
}

func (a *app) syncCmd() *cobra.Command {
	var calendarName string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror dated tasks to Google Calendar",
		Long: `Create or update one calendar event per task with a due date. Events of
tasks that became overdue since the last sync are marked with "!".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, cfg, done, err := a.openStore(ctx, cmd)
			if err != nil {
				return err
			}
			defer done()

			if calendarName == "" {
				calendarName = cfg.Calendar
			}

			evtIndex, err := index.NewEventIndex()
			if err != nil {
				log.Printf("Warning: failed to initialize event index: %v", err)
				evtIndex = nil
			}
			sweepTable, err := overdue.NewTable()
			if err != nil {
				log.Printf("Warning: failed to initialize overdue sweep table: %v", err)
				sweepTable = nil
			}

			gClient, err := google.NewClient(ctx, calendarName, evtIndex)
			if err != nil {
				return fmt.Errorf("error creating Google Calendar client: %w", err)
			}

			res := syncTasks(gClient, s.ListTasks(), evtIndex, sweepTable, time.Now())

			if evtIndex != nil {
				if err := evtIndex.Save(); err != nil {
					log.Printf("Warning: failed to save event index: %v", err)
				}
			}
			if sweepTable != nil {
				if err := sweepTable.Save(); err != nil {
					log.Printf("Warning: failed to save sweep table: %v", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d tasks to %q (%d failed, %d newly overdue, %d removed).\n",
				res.Synced, calendarName, res.Failed, res.Flagged, res.Removed)
			if evtIndex != nil && a.verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "Event index maps %d tasks\n", evtIndex.Len())
			}
			if res.Failed > 0 {
				return fmt.Errorf("%d tasks could not be synced", res.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&calendarName, "calendar", "", "Google Calendar name to sync with (overrides config)")
	return cmd
}

// syncTasks sweeps the overdue table, upserts an event for every dated task,
// and deletes events of indexed tasks that are no longer in the store. idx
// and table may be nil.
func syncTasks(mirror eventMirror, tasks []model.Task, idx *index.EventIndex, table *overdue.Table, now time.Time) syncResult {
	var res syncResult

	byID := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	if table != nil {
		for _, e := range table.Sweep(now) {
			task, ok := byID[e.TaskID]
			if !ok || !task.IsOverdue(now) || task.Status == model.StatusCancelled {
				continue
			}
			patch := &calendar.Event{Summary: google.Summary(task, now)}
			if _, err := mirror.PatchEvent(e.EventID, patch); err != nil {
				log.Printf("Sweep: error patching event %s: %v", e.EventID, err)
				continue
			}
			res.Flagged++
		}
	}

	for _, task := range tasks {
		if task.DueDate == nil {
			continue
		}
		event, err := mirror.SyncEvent(task, now)
		if err != nil {
			log.Printf("Error syncing task %s: %v", task.ID, err)
			res.Failed++
			continue
		}
		res.Synced++
		if table != nil {
			table.Update(task, event.Id, now)
		}
	}

	if idx != nil {
		for _, id := range idx.TaskIDs() {
			if _, ok := byID[id]; ok {
				continue
			}
			if err := mirror.DeleteEvent(idx.Get(id)); err != nil {
				log.Printf("Error deleting event for removed task %s: %v", id, err)
				continue
			}
			idx.Remove(id)
			if table != nil {
				table.Remove(id)
			}
			res.Removed++
		}
	}
	return res
}
