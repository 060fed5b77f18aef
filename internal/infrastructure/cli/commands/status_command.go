package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/omar4-4mohsen/dates-monitor/internal/app"
	"github.com/omar4-4mohsen/dates-monitor/internal/application/subscription"
)

// NewStatusCommand prints a configuration summary and the subscriber count.
func NewStatusCommand(build ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize what is being watched and who gets alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd.Context())
			if err != nil {
				return err
			}
			defer container.Close()

			store, err := container.Store()
			if err != nil {
				return fmt.Errorf("open subscriber store: %w", err)
			}
			// Counted as alerts are addressed: the operator is a recipient too.
			registry := subscription.NewRegistry(store, container.Config.Telegram.OperatorID, container.Logger)
			if err := registry.Load(cmd.Context()); err != nil {
				return err
			}
			displayStatus(cmd.OutOrStdout(), container, registry.Count())
			return nil
		},
	}
}

func displayStatus(out io.Writer, c *app.Container, subscribers int) {
	cfg := c.Config
	fmt.Fprintf(out, "Config:        %s\n", c.ConfigLoader.Path())
	fmt.Fprintf(out, "Target:        %s\n", cfg.Target.EntryURL)
	fmt.Fprintf(out, "Service:       %q, %d Next steps\n", cfg.Target.ServiceKeyword, cfg.Target.Steps)
	fmt.Fprintf(out, "Interval:      %s\n", cfg.Schedule.Interval)
	if cfg.Schedule.RestartEvery > 0 {
		fmt.Fprintf(out, "Restart every: %s checks\n", humanize.Comma(int64(cfg.Schedule.RestartEvery)))
	} else {
		fmt.Fprintln(out, "Restart every: disabled")
	}
	fmt.Fprintf(out, "Browser:       %s (headless=%t)\n", cfg.Browser.Driver, cfg.Browser.Headless)
	fmt.Fprintf(out, "Subscribers:   %s (%s backend)\n", humanize.Comma(int64(subscribers)), cfg.Subscribers.Backend)
	fmt.Fprintf(out, "Operator:      %s\n", operatorLabel(c))
	fmt.Fprintf(out, "Bot token:     %s\n", presence(c.Telegram != nil, cfg.Telegram.TokenEnv))
	if cfg.Health.Enabled {
		fmt.Fprintf(out, "Health:        %s%s\n", cfg.Health.Addr, cfg.Health.Path)
	} else {
		fmt.Fprintln(out, "Health:        disabled")
	}
}

func operatorLabel(c *app.Container) string {
	if c.Config.Telegram.OperatorID == 0 {
		return "not set"
	}
	return c.Config.Telegram.OperatorID.String()
}

func presence(ok bool, env string) string {
	if ok {
		return "set (" + env + ")"
	}
	return "missing (" + env + ")"
}
