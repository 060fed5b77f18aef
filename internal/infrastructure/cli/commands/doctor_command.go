package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(build ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose config, subscriber store, bot token and browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd.Context())
			if err != nil {
				return err
			}
			defer container.Close()

			report, err := container.Doctor().Run(cmd.Context())
			displayDoctorReport(cmd.OutOrStdout(), report)
			if err != nil {
				return fmt.Errorf("diagnostics completed with errors: %w", err)
			}
			if report.HasErrors() {
				return fmt.Errorf("diagnostics found problems")
			}
			return nil
		},
	}
}

// displayDoctorReport displays the health check report
func displayDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details)
	}
}
