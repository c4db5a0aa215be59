package cmd

import (
	"fmt"

	"github.com/pegsh/pegsh/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the honeypot event log.",
}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Show a report of events.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var report logger.Report
		return printEventSummary(cmd, report.Update, &report)
	},
}

var bugsCommand = &cobra.Command{
	Use:   "bugs",
	Short: "Show events that point at gaps in the sandbox.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		report := logger.NewBugReport()
		return printEventSummary(cmd, report.Update, report)
	},
}

var sessionsCommand = &cobra.Command{
	Use:   "sessions",
	Short: "Show a per-session breakdown of events.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var report logger.InteractionReport
		return printEventSummary(cmd, report.Update, &report)
	},
}

// printEventSummary feeds the application log through update and prints
// the resulting structure as YAML.
func printEventSummary(cmd *cobra.Command, update func(le *logger.LogEntry), result interface{}) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	fd, err := config.ReadAppLog()
	if err != nil {
		return err
	}
	defer fd.Close()

	if err := logger.ReadJSONLinesLog(fd, update); err != nil {
		return err
	}

	out, err := yaml.Marshal(result)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	return nil
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)
	eventsCmd.AddCommand(bugsCommand)
	eventsCmd.AddCommand(sessionsCommand)
}
