package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/tasktrack/pkg/model"
	"github.com/harrisonrobin/tasktrack/pkg/orgmode"
	"github.com/harrisonrobin/tasktrack/pkg/taskwarrior"
)

func (a *app) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import tasks from Taskwarrior or Org-mode",
	}
	cmd.AddCommand(a.importTaskwarriorCmd())
	cmd.AddCommand(a.importOrgCmd())
	return cmd
}

func (a *app) importTaskwarriorCmd() *cobra.Command {
	var fromTask bool

	cmd := &cobra.Command{
		Use:   "taskwarrior [file|-] [-- filter...]",
		Short: "Import a Taskwarrior JSON export",
		Long: `Import the output of "task export". Read it from a file, from stdin with "-",
or run Taskwarrior directly with --from-task (remaining arguments are passed
as the filter).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := taskwarrior.NewClient()

			var (
				twTasks []taskwarrior.Task
				err     error
			)
			switch {
			case fromTask:
				twTasks, err = client.GetTasks(args)
			case len(args) == 1 && args[0] != "-":
				twTasks, err = readTaskwarriorFile(client, args[0])
			case len(args) == 0 || args[0] == "-":
				twTasks, err = client.ParseTasks(cmd.InOrStdin())
			default:
				return fmt.Errorf("expected one file argument, got %d", len(args))
			}
			if err != nil {
				return err
			}

			drafts, err := taskwarrior.Drafts(twTasks)
			if err != nil {
				return err
			}
			return a.importDrafts(cmd, drafts)
		},
	}

	cmd.Flags().BoolVar(&fromTask, "from-task", false, "Run 'task export' instead of reading a file")
	return cmd
}

func readTaskwarriorFile(client *taskwarrior.Client, path string) ([]taskwarrior.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return client.ParseTasks(f)
}

func (a *app) importOrgCmd() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "org <file>...",
		Short: "Import TODO headlines from Org-mode files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts, err := orgmode.ParseFiles(args)
			if err != nil {
				return err
			}
			if tag != "" {
				drafts = orgmode.FilterTasks(drafts, tag)
			}
			return a.importDrafts(cmd, drafts)
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Only import headlines carrying this tag")
	return cmd
}

// importDrafts adds drafts to the store in one step and reports the result.
func (a *app) importDrafts(cmd *cobra.Command, drafts []model.Task) error {
	s, _, done, err := a.openStore(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer done()

	created, err := s.Import(drafts)
	if err != nil {
		return fmt.Errorf("import failed, no tasks were added: %w", err)
	}

	out := cmd.OutOrStdout()
	if a.jsonOutput {
		if err := printTasks(out, created, true); err != nil {
			return err
		}
	} else {
		reportImport(out, len(created))
	}
	return persisted(s)
}

func reportImport(w io.Writer, n int) {
	if n == 1 {
		fmt.Fprintln(w, "Imported 1 task.")
		return
	}
	fmt.Fprintf(w, "Imported %d tasks.\n", n)
}
