package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/omar4-4mohsen/dates-monitor/internal/app"
	configapp "github.com/omar4-4mohsen/dates-monitor/internal/application/config"
	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
)

// NewRunCommand creates the run command: the long-running monitor.
func NewRunCommand(build ContainerFunc) *cobra.Command {
	var opts app.MonitorOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch the appointment form and alert subscribers",
		Long: "Runs the check loop, the Telegram bot listener and the health endpoint " +
			"until interrupted. With --once a single cycle runs and its outcome is printed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			container, err := build(ctx)
			if err != nil {
				return err
			}
			defer container.Close()

			if err := configapp.Validate(container.Config); err != nil {
				return fmt.Errorf("invalid configuration (%s): %w", container.ConfigLoader.Path(), err)
			}
			monitor, err := container.NewMonitor(opts)
			if err != nil {
				return err
			}
			if opts.Once {
				return runOnce(ctx, cmd.OutOrStdout(), monitor)
			}
			return monitor.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&opts.Once, "once", false, "Run a single check cycle and print the outcome")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Log alerts instead of sending them")
	return cmd
}

func runOnce(ctx context.Context, out io.Writer, monitor *app.Monitor) error {
	outcome, err := monitor.RunOnce(ctx)
	if err != nil && ctx.Err() != nil {
		fmt.Fprintln(out, msgCheckInterrupted)
		return nil
	}
	renderOutcome(out, outcome, monitor.Scheduler.Stats())
	return err
}

func renderOutcome(out io.Writer, outcome domain.CheckOutcome, stats domain.MonitorStats) {
	fmt.Fprintf(out, "Outcome:  %s\n", outcome.Kind())
	if ce := outcome.Failure(); ce != nil {
		fmt.Fprintf(out, "Reason:   %s\n", ce.Reason)
		fmt.Fprintf(out, "Detail:   %v\n", ce)
	}
	if outcome.Kind() == domain.OutcomeAppointmentFound {
		fmt.Fprintf(out, "URL:      %s\n", outcome.EntryURL())
		fmt.Fprintf(out, "Snapshot: %s\n", humanize.Bytes(uint64(len(outcome.Snapshot()))))
	}
	if stats.LastDuration > 0 {
		fmt.Fprintf(out, "Duration: %s\n", stats.LastDuration.Round(time.Millisecond))
	}
}
