package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/tasktrack/pkg/snapshot"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change tasktrack settings",
	}
	cmd.AddCommand(a.configShowCmd())
	cmd.AddCommand(a.configSetCmd())
	return cmd
}

func (a *app) configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]string{
				"store_path":      cfg.StorePath,
				"backend":         cfg.Backend,
				"calendar":        cfg.Calendar,
				"persist_timeout": cfg.PersistTimeout.String(),
			})
		},
	}
}

func (a *app) configSetCmd() *cobra.Command {
	var calendarName, timeout string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Persist settings to the config file",
		Long: `Persist settings to the config file. Besides --calendar and --timeout, the
global --store and --backend flags are saved when given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file := &app{configPath: a.configPath}
			cfg, err := file.loadConfig()
			if err != nil {
				return err
			}

			changed := false
			if cmd.Flags().Changed("calendar") {
				cfg.Calendar = calendarName
				changed = true
			}
			if cmd.Flags().Changed("backend") {
				switch a.backend {
				case snapshot.BackendJSON, snapshot.BackendYAML, snapshot.BackendSQLite:
				default:
					return fmt.Errorf("unknown snapshot backend %q", a.backend)
				}
				cfg.Backend = a.backend
				changed = true
			}
			if cmd.Flags().Changed("store") {
				cfg.StorePath = a.storePath
				changed = true
			}
			if cmd.Flags().Changed("timeout") {
				d, err := time.ParseDuration(timeout)
				if err != nil {
					return fmt.Errorf("invalid timeout: %w", err)
				}
				if d <= 0 {
					return fmt.Errorf("timeout must be positive, got %s", d)
				}
				cfg.PersistTimeout = d
				changed = true
			}
			if !changed {
				return fmt.Errorf("nothing to set; pass --calendar, --timeout, --store or --backend")
			}

			if err := a.saveConfig(cfg); err != nil {
				return fmt.Errorf("error saving config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration saved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&calendarName, "calendar", "", "Default Google Calendar name")
	cmd.Flags().StringVar(&timeout, "timeout", "", "Persist timeout, e.g. 5s")
	return cmd
}
