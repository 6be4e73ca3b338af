// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Courage-7/DocumentScrapper/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect the run history",
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past acquisition runs, most recent first",
	RunE:  runReportList,
}

var reportShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one saved acquisition report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportShow,
}

func init() {
	reportCmd.PersistentFlags().String("reports-dir", defaultReportsDir, "directory holding the run history database")
	reportShowCmd.Flags().String("format", defaultReportFormat, "report output: table, text, or json")

	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
	rootCmd.AddCommand(reportCmd)
}

func openRunStore(cmd *cobra.Command) (*report.Store, error) {
	reportsDir, _ := cmd.Flags().GetString("reports-dir")
	store, err := report.NewStore(reportsDir)
	if err != nil {
		return nil, fmt.Errorf("opening run history: %w", err)
	}
	return store, nil
}

func runReportList(cmd *cobra.Command, _ []string) error {
	store, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run", "Class", "Requested", "State", "Discovered", "Downloaded", "Pass", "Fail"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.RunID, r.ClassID, r.RequestedAt.Format("2006-01-02 15:04:05"),
			r.State, r.TotalDiscovered, r.TotalDownloaded, r.TotalPass, r.TotalFail,
		})
	}
	t.Render()
	return nil
}

func runReportShow(cmd *cobra.Command, args []string) error {
	store, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	rep, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	return report.Render(format, rep, os.Stdout)
}
