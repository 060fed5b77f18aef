package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/omar4-4mohsen/dates-monitor/internal/app"
	configapp "github.com/omar4-4mohsen/dates-monitor/internal/application/config"
	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/cli/helpers"
	configinfra "github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(build ContainerFunc) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the monitor configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, build, func(c *app.Container) error {
				return showConfiguration(cmd.Context(), cmd.OutOrStdout(), c)
			})
		},
	}

	configCmd.AddCommand(
		newConfigShowCommand(build),
		newConfigPathCommand(build),
		newConfigGetCommand(build),
		newConfigSetCommand(build),
		newConfigEditCommand(build),
		newConfigValidateCommand(build),
		newConfigResetCommand(build),
		newConfigDiffCommand(build),
		newConfigMarkersCommand(build),
	)

	return configCmd
}

func newConfigShowCommand(build ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show full configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, build, func(c *app.Container) error {
				return showConfiguration(cmd.Context(), cmd.OutOrStdout(), c)
			})
		},
	}
}

func newConfigPathCommand(build ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, build, func(c *app.Container) error {
				loader, err := helpers.GetConfigLoader(c)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), loader.Path())
				return nil
			})
		},
	}
}

func newConfigGetCommand(build ContainerFunc) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a specific configuration value",
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				return errors.New(ErrKeyRequired)
			}
			return withContainer(cmd, build, func(c *app.Container) error {
				return getConfigurationValue(cmd.Context(), cmd.OutOrStdout(), c, key)
			})
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Key path (e.g., schedule.interval)")
	return cmd
}

func newConfigSetCommand(build ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value (value accepts YAML syntax)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := strings.Join(args[1:], " ")
			return withContainer(cmd, build, func(c *app.Container) error {
				return setConfigurationValue(c, key, value)
			})
		},
	}
}

func newConfigEditCommand(build ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, build, editConfigurationInEditor)
		},
	}
}

func newConfigValidateCommand(build ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, build, func(c *app.Container) error {
				cfg, err := c.ConfigProvider.Load(cmd.Context())
				if err != nil {
					return fmt.Errorf("configuration validation failed: %w", err)
				}
				if err := configapp.Validate(cfg); err != nil {
					return fmt.Errorf("configuration validation failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
				return nil
			})
		},
	}
}

func newConfigResetCommand(build ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, build, func(c *app.Container) error {
				return resetConfigurationToDefaults(cmd.OutOrStdout(), c)
			})
		},
	}
}

func newConfigDiffCommand(build ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show diff versus default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, build, func(c *app.Container) error {
				return showConfigurationDiff(cmd.Context(), cmd.OutOrStdout(), c)
			})
		},
	}
}

// showConfiguration displays the full configuration in YAML format
func showConfiguration(ctx context.Context, out io.Writer, container *app.Container) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

// getConfigurationValue prints the effective value of one dotted key
func getConfigurationValue(ctx context.Context, out io.Writer, container *app.Container, keyPath string) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := configinfra.Lookup(cfg, keyPath)
	if err != nil {
		return err
	}

	fmt.Fprint(out, string(data))
	return nil
}

// setConfigurationValue writes one dotted key into the config file
func setConfigurationValue(container *app.Container, keyPath string, value string) error {
	parsedValue, err := helpers.ParseYAMLValue(value)
	if err != nil {
		return fmt.Errorf("failed to parse value: %w", err)
	}
	return helpers.EditConfigFile(container, func(doc *configinfra.Document, _ domain.Config) error {
		return doc.Set(keyPath, parsedValue)
	})
}

// editConfigurationInEditor opens the configuration file in the user's editor
func editConfigurationInEditor(container *app.Container) error {
	loader, err := helpers.GetConfigLoader(container)
	if err != nil {
		return err
	}

	editorCommand := getEditorCommand()
	cmd := exec.Command(editorCommand, loader.Path())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editorCommand, err)
	}

	return nil
}

// resetConfigurationToDefaults resets the configuration to default values
func resetConfigurationToDefaults(out io.Writer, container *app.Container) error {
	loader, err := helpers.GetConfigLoader(container)
	if err != nil {
		return err
	}

	if _, err := loader.Backup(); err != nil {
		return fmt.Errorf("failed to back up configuration: %w", err)
	}
	if _, err := loader.Reset(); err != nil {
		return fmt.Errorf("failed to reset configuration: %w", err)
	}

	fmt.Fprintf(out, "Configuration reset at %s\n", loader.Path())
	return nil
}

// showConfigurationDiff shows the difference between current and default configuration
func showConfigurationDiff(ctx context.Context, out io.Writer, container *app.Container) error {
	currentConfig, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load current configuration: %w", err)
	}

	diff := cmp.Diff(configinfra.Defaults(), currentConfig)
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}

	fmt.Fprintln(out, diff)
	return nil
}

func getEditorCommand() string {
	if editor := os.Getenv(envKeyEditor); editor != "" {
		return editor
	}
	return defaultEditor
}

// withContainer builds the container and hands it to fn.
func withContainer(cmd *cobra.Command, build ContainerFunc, fn func(*app.Container) error) error {
	container, err := build(cmd.Context())
	if err != nil {
		return err
	}
	return fn(container)
}
