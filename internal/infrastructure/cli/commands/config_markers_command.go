package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omar4-4mohsen/dates-monitor/internal/app"
	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/cli/helpers"
	configinfra "github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/config"
)

const markersKey = "error_markers"

// newConfigMarkersCommand manages the texts that identify an error page.
func newConfigMarkersCommand(build ContainerFunc) *cobra.Command {
	markersCmd := &cobra.Command{
		Use:   "markers",
		Short: "List or edit the error-page text markers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, build, func(c *app.Container) error {
				return listMarkers(cmd, c)
			})
		},
	}

	markersCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List configured markers",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd, build, func(c *app.Container) error {
					return listMarkers(cmd, c)
				})
			},
		},
		&cobra.Command{
			Use:   "add <marker>...",
			Short: "Add markers (matched case-insensitively)",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd, build, func(c *app.Container) error {
					return editMarkers(c, args, (*domain.Config).AddErrorMarker)
				})
			},
		},
		&cobra.Command{
			Use:   "remove <marker>...",
			Short: "Remove markers",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd, build, func(c *app.Container) error {
					return editMarkers(c, args, (*domain.Config).RemoveErrorMarker)
				})
			},
		},
	)
	return markersCmd
}

func listMarkers(cmd *cobra.Command, container *app.Container) error {
	cfg, err := container.ConfigProvider.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	for _, marker := range cfg.ErrorMarkers {
		fmt.Fprintln(cmd.OutOrStdout(), marker)
	}
	return nil
}

func editMarkers(container *app.Container, markers []string, apply func(*domain.Config, string) error) error {
	return helpers.EditConfigFile(container, func(doc *configinfra.Document, current domain.Config) error {
		for _, marker := range markers {
			if err := apply(&current, marker); err != nil {
				return err
			}
		}
		return doc.Set(markersKey, current.ErrorMarkers)
	})
}
