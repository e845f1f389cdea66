package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/tasktrack/pkg/model"
)

func (a *app) addCmd() *cobra.Command {
	var (
		description string
		priority    int
		due         string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a pending task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate, err := parseDue(due)
			if err != nil {
				return err
			}

			s, _, done, err := a.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer done()

			task, err := s.CreateTask(args[0], description, priority, dueDate, tags)
			if err != nil {
				return err
			}
			if err := printTask(cmd.OutOrStdout(), task, a.jsonOutput); err != nil {
				return err
			}
			return persisted(s)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().IntVarP(&priority, "priority", "p", 3, "Priority from 1 (lowest) to 5 (highest)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC3339)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tag (repeatable)")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var minPriority int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in creation order",
		Long: `List every task in creation order.

With --min-priority, only tasks at or above that priority that are not
completed are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, done, err := a.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer done()

			tasks := s.ListTasks()
			if cmd.Flags().Changed("min-priority") {
				tasks = s.GetTasksByPriority(minPriority)
			}
			return printTasks(cmd.OutOrStdout(), tasks, a.jsonOutput)
		},
	}

	cmd.Flags().IntVar(&minPriority, "min-priority", model.MinPriority, "Only open tasks with at least this priority")
	return cmd
}

func (a *app) statusCmd() *cobra.Command {
	statuses := make([]string, len(model.Statuses))
	for i, st := range model.Statuses {
		statuses[i] = string(st)
	}

	return &cobra.Command{
		Use:       "status <id> <status>",
		Short:     "Change a task's status",
		Args:      cobra.ExactArgs(2),
		ValidArgs: statuses,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := model.ParseStatus(args[1])
			if err != nil {
				return err
			}

			s, _, done, err := a.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer done()

			found, err := s.UpdateTaskStatus(args[0], status)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("task %s not found", args[0])
			}

			task, _ := s.GetTask(args[0])
			if err := printTask(cmd.OutOrStdout(), task, a.jsonOutput); err != nil {
				return err
			}
			return persisted(s)
		},
	}
}

func (a *app) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find tasks whose title, description or tags contain query (case-insensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, done, err := a.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer done()
			return printTasks(cmd.OutOrStdout(), s.SearchTasks(args[0]), a.jsonOutput)
		},
	}
}

func (a *app) overdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List tasks past their due date that are not completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, done, err := a.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer done()
			return printTasks(cmd.OutOrStdout(), s.GetOverdueTasks(), a.jsonOutput)
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, done, err := a.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer done()

			stats := s.GetTaskStatistics().AsMap()
			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return json.NewEncoder(out).Encode(stats)
			}

			keys := make([]string, 0, len(stats))
			for k := range stats {
				if k != "total" && k != "overdue" {
					keys = append(keys, k)
				}
			}
			sort.Strings(keys)
			keys = append([]string{"total"}, append(keys, "overdue")...)

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, k := range keys {
				fmt.Fprintf(tw, "%s\t%d\n", k, stats[k])
			}
			return tw.Flush()
		},
	}
}
