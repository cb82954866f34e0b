package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qforge/qforge/internal/config"
	"github.com/qforge/qforge/internal/scheduler"
	"github.com/qforge/qforge/internal/seeder"
	"github.com/qforge/qforge/internal/writer"
)

// NewRootCmd builds the qforge command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "qforge",
		Short:         "Query/mutation factory discovery and artifact generation",
		Long:          "qforge scans a tree of query and mutation factories and regenerates\nper-namespace key tables, a root key table, and a root manifest.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("root", config.DefaultRoot, "directory tree to scan")
	flags.String("ext", config.DefaultExt, "source file extension")
	flags.Duration("debounce", config.DefaultDebounce, "settle window before a scheduled regeneration pass runs")
	flags.Bool("verbose", false, "enable verbose output")
	flags.Bool("quiet", false, "only show errors")

	root.AddCommand(newGenerateCmd(), newWatchCmd(), newCleanCmd())
	return root
}

// newGenerateCmd runs a single regeneration pass.
func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Run one regeneration pass and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			diag := cfg.Diagnostics()
			layout, err := cfg.Layout()
			if err != nil {
				return err
			}

			diag.Section("qforge")
			generator := NewGenerator(layout, diag)
			if err := generator.RunPass(cmd.Context()); err != nil {
				diag.Error("generation failed: %v", err)
				return err
			}

			summary := generator.Summary()
			diag.Summary("Generation complete", map[string]interface{}{
				"Namespaces":      summary.Namespaces,
				"Queries":         summary.Queries,
				"Mutations":       summary.Mutations,
				"Files written":   summary.FilesWritten,
				"Files unchanged": summary.FilesUnchanged,
				"Parse issues":    summary.ParseIssues,
			})
			return nil
		},
	}
}

// newWatchCmd runs the change-driven regeneration loop until interrupted.
func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the tree and regenerate on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			diag := cfg.Diagnostics()
			layout, err := cfg.Layout()
			if err != nil {
				return err
			}

			generator := NewGenerator(layout, diag)
			sched := scheduler.New(layout, generator, seeder.New(layout), writer.New(layout), diag, cfg.Debounce)
			sched.OnReload(func() {
				diag.Progress("artifacts regenerated; full reload required")
			})

			watcher, err := scheduler.NewWatcher(sched)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// The initial pass brings artifacts in line with whatever
			// changed while qforge was not running.
			sched.RequestInitialPass()

			if err := watcher.Start(ctx); err != nil {
				return err
			}
			diag.Section("qforge")
			diag.Info("watching %s", layout.Root)

			<-ctx.Done()
			diag.Info("shutting down")
			watcher.Stop()
			return nil
		},
	}
}

// newCleanCmd removes all generated artifacts.
func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove all generated artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			diag := cfg.Diagnostics()
			layout, err := cfg.Layout()
			if err != nil {
				return err
			}

			removed, err := NewCleaner(layout).Clean()
			if err != nil {
				diag.Error("clean failed: %v", err)
				return err
			}
			for _, path := range removed {
				diag.List("removed %s", path)
			}
			diag.Success("removed %d generated files", len(removed))
			return nil
		},
	}
}
