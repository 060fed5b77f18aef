package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/omar4-4mohsen/dates-monitor/internal/app"
	configapp "github.com/omar4-4mohsen/dates-monitor/internal/application/config"
	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/cli/helpers"
	configinfra "github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/config"
)

const msgInitCancelled = "Init cancelled."

// NewInitCommand walks the user through the settings that differ per deployment.
func NewInitCommand(build ContainerFunc) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively write the monitor configuration",
		Long: `Asks for the form to watch, the alert channel and the subscriber store,
then writes ~/.datesmon/config.yaml. Everything else keeps its default and can
be changed later with 'datesmon config set' or 'datesmon config edit'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, build, func(c *app.Container) error {
				return runInitWizard(cmd, c, force)
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite a customized config without prompting")
	return cmd
}

func runInitWizard(cmd *cobra.Command, container *app.Container, force bool) error {
	loader, err := helpers.GetConfigLoader(container)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	if !force && isCustomized(cmd.Context(), loader) {
		question := fmt.Sprintf("%s has custom settings. Overwrite?", loader.Path())
		if !helpers.PromptForYesNo(out, reader, question, false) {
			fmt.Fprintln(out, msgInitCancelled)
			return nil
		}
	}

	cfg := promptForSettings(out, reader, configinfra.Defaults())
	if err := configapp.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := helpers.SaveConfigWithValidation(container, cfg); err != nil {
		return err
	}

	displayCompletionInstructions(out, loader.Path(), cfg)
	return nil
}

// isCustomized reports whether the file differs from the defaults.
// Environment overrides are not part of the file and do not count.
func isCustomized(ctx context.Context, loader *configinfra.FileLoader) bool {
	current, err := loader.LoadFile(ctx)
	if err != nil {
		return true
	}
	return !cmp.Equal(configinfra.Defaults(), current)
}

func promptForSettings(out io.Writer, reader *bufio.Reader, cfg domain.Config) domain.Config {
	fmt.Fprintln(out, "Target form:")
	cfg.Target.EntryURL = helpers.PromptForString(out, reader, "  Entry URL", cfg.Target.EntryURL)
	cfg.Target.ServiceKeyword = helpers.PromptForString(out, reader, "  Service keyword", cfg.Target.ServiceKeyword)
	cfg.Target.Steps = helpers.PromptForInt(out, reader, "  Next clicks before the slot page", cfg.Target.Steps)
	cfg.Schedule.Interval = helpers.PromptForDuration(out, reader, "  Check interval", cfg.Schedule.Interval)

	fmt.Fprintln(out, "Alerts:")
	operator := helpers.PromptForString(out, reader, "  Operator chat id (0 = none)", cfg.Telegram.OperatorID.String())
	if id, err := domain.ParseRecipientID(operator); err == nil {
		cfg.Telegram.OperatorID = id
	} else {
		fmt.Fprintf(out, "  ignoring invalid chat id %q\n", operator)
	}
	cfg.Telegram.TokenEnv = helpers.PromptForString(out, reader, "  Bot token env var", cfg.Telegram.TokenEnv)

	fmt.Fprintln(out, "Runtime:")
	cfg.Browser.Driver = helpers.PromptForChoice(out, reader, "  Browser driver",
		[]string{domain.DriverChromedp, domain.DriverPlaywright}, cfg.Browser.Driver)
	cfg.Subscribers.Backend = helpers.PromptForChoice(out, reader, "  Subscriber store",
		[]string{domain.BackendFile, domain.BackendSQLite, domain.BackendRedis}, cfg.Subscribers.Backend)
	switch cfg.Subscribers.Backend {
	case domain.BackendSQLite:
		cfg.Subscribers.Path = configinfra.DefaultSubscriberPath(domain.BackendSQLite)
	case domain.BackendRedis:
		cfg.Subscribers.RedisAddr = helpers.PromptForString(out, reader, "  Redis address", cfg.Subscribers.RedisAddr)
	}
	cfg.Health.Enabled = helpers.PromptForYesNo(out, reader, "  Serve health endpoint", cfg.Health.Enabled)
	return cfg
}

func displayCompletionInstructions(out io.Writer, configPath string, cfg domain.Config) {
	fmt.Fprintf(out, "\n✓ Configuration written: %s\n\n", configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  1. export %s=<bot token from @BotFather>\n", cfg.Telegram.TokenEnv)
	fmt.Fprintln(out, "  2. datesmon doctor")
	fmt.Fprintln(out, "  3. datesmon run --once --dry-run")
	fmt.Fprintln(out, "  4. datesmon run")
}
