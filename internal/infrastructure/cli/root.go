// Package cli exposes the datesmon command tree.
package cli

import (
	"context"
	"sync"

	"github.com/spf13/cobra"

	"github.com/omar4-4mohsen/dates-monitor/internal/app"
	"github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// NewRootCmd wires the cobra root command. The container is built lazily by
// the first subcommand that needs it, after flags are parsed.
func NewRootCmd(opts Options) *cobra.Command {
	build := lazyContainer(&opts)

	root := &cobra.Command{
		Use:   "datesmon",
		Short: "datesmon - appointment slot monitor",
		Long: "datesmon walks an appointment booking form on a schedule and alerts " +
			"Telegram subscribers when bookable slots appear.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Config file (default ~/.datesmon/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "Enable debug logging")

	root.AddCommand(commands.NewInitCommand(build))
	root.AddCommand(commands.NewRunCommand(build))
	root.AddCommand(commands.NewStatusCommand(build))
	root.AddCommand(commands.NewSubscribersCommand(build))
	root.AddCommand(commands.NewDoctorCommand(build))
	root.AddCommand(commands.NewConfigCommand(build))
	root.AddCommand(commands.NewVersionCommand())
	return root
}

func lazyContainer(opts *Options) commands.ContainerFunc {
	var (
		once      sync.Once
		container *app.Container
		err       error
	)
	return func(ctx context.Context) (*app.Container, error) {
		once.Do(func() {
			container, err = app.BuildContainer(ctx, app.Options{
				ConfigPath: opts.ConfigPath,
				Verbose:    opts.Verbose,
			})
		})
		return container, err
	}
}
