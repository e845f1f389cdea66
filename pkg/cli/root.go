package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/tasktrack/pkg/config"
	"github.com/harrisonrobin/tasktrack/pkg/snapshot"
	"github.com/harrisonrobin/tasktrack/pkg/store"
)

// app holds the global flags shared by every subcommand.
type app struct {
	configPath string
	storePath  string
	backend    string
	jsonOutput bool
	verbose    bool
}

// NewRootCmd builds the tasktrack command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tasktrack",
		Short: "Track tasks with priorities, statuses and due dates",
		Long: `tasktrack keeps a local task list with priorities from 1 (lowest) to 5 (highest).

Tasks are stored in a JSON, YAML or SQLite snapshot and can be mirrored to a
Google Calendar with "tasktrack sync".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.config/tasktrack/config.json)")
	root.PersistentFlags().StringVar(&a.storePath, "store", "", "Task snapshot path (overrides config)")
	root.PersistentFlags().StringVar(&a.backend, "backend", "", "Snapshot backend: json, yaml or sqlite (overrides config)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Print tasks as JSON lines")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")

	root.AddCommand(a.addCmd())
	root.AddCommand(a.listCmd())
	root.AddCommand(a.statusCmd())
	root.AddCommand(a.searchCmd())
	root.AddCommand(a.overdueCmd())
	root.AddCommand(a.statsCmd())
	root.AddCommand(a.importCmd())
	root.AddCommand(a.syncCmd())
	root.AddCommand(a.authCmd())
	root.AddCommand(a.configCmd())

	return root
}

// Execute runs the root command.
func Execute(version string) error {
	root := NewRootCmd()
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// loadConfig reads the config file and applies flag overrides.
func (a *app) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFrom(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if a.storePath != "" {
		cfg.StorePath = a.storePath
	}
	if a.backend != "" {
		cfg.Backend = a.backend
	}
	return cfg, nil
}

func (a *app) saveConfig(cfg *config.Config) error {
	if a.configPath != "" {
		return config.SaveTo(a.configPath, cfg)
	}
	return config.Save(cfg)
}

func (a *app) logger(cmd *cobra.Command) *log.Logger {
	if !a.verbose {
		// Warnings are always shown; routine progress only with -v.
		return log.New(cmd.ErrOrStderr(), "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
}

// openStore loads the configured snapshot into a Store. The returned func
// releases the backend.
func (a *app) openStore(ctx context.Context, cmd *cobra.Command) (*store.Store, *config.Config, func(), error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	adapter, err := snapshot.Open(cfg.Backend, cfg.StorePath)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		if c, ok := adapter.(io.Closer); ok {
			if err := c.Close(); err != nil {
				log.Printf("Warning: closing task store: %v", err)
			}
		}
	}

	s := store.New(ctx, adapter,
		store.WithPersistTimeout(cfg.PersistTimeout),
		store.WithLogger(a.logger(cmd)),
	)
	if a.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Loaded %d tasks from %s\n", s.Len(), cfg.StorePath)
	}
	return s, cfg, closeFn, nil
}

// persisted reports a failed save after a mutating command. The change
// itself already happened in memory and was printed.
func persisted(s *store.Store) error {
	if err := s.LastPersistErr(); err != nil {
		return fmt.Errorf("changes were not saved: %w", err)
	}
	return nil
}
