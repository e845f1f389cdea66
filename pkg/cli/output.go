package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/harrisonrobin/tasktrack/pkg/model"
)

const dueLayout = "2006-01-02 15:04"

// dueLayouts are accepted by --due, tried in order.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	dueLayout,
	"2006-01-02",
}

// parseDue reads a due date in local time unless the value carries an offset.
func parseDue(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid due date %q (use YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC3339)", value)
}

// printTasks writes tasks as JSON lines or as an aligned table.
func printTasks(w io.Writer, tasks []model.Task, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		for _, t := range tasks {
			if err := enc.Encode(t); err != nil {
				return err
			}
		}
		return nil
	}

	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRI\tSTATUS\tDUE\tTITLE\tTAGS")
	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Local().Format(dueLayout)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n", t.ID, t.Priority, t.Status, due, t.Title, strings.Join(t.Tags, ","))
	}
	return tw.Flush()
}

func printTask(w io.Writer, t model.Task, asJSON bool) error {
	return printTasks(w, []model.Task{t}, asJSON)
}
