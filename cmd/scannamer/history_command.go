package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"scannamer/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recent runs, or the per-file outcomes of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled in configuration")
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if len(args) == 1 {
				return printRunFiles(cmd, store, args[0])
			}
			return printRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}

func printRuns(cmd *cobra.Command, store *history.Store, limit int) error {
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		mode := "rename"
		if run.DryRun {
			mode = "dry run"
		}
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.Provider + "/" + run.Model,
			mode,
			fmt.Sprintf("%d", run.Processed),
			fmt.Sprintf("%d", run.Failed),
			fmt.Sprintf("%d", run.TotalTokens),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(),
		renderTable([]string{"Run", "Started", "Model", "Mode", "Processed", "Failed", "Tokens"}, rows, 5, 6, 7))
	return nil
}

func printRunFiles(cmd *cobra.Command, store *history.Store, runID string) error {
	records, err := store.FilesForRun(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No records for run %s\n", runID)
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		detail := record.NewName
		if record.Error != "" {
			detail = record.Error
		}
		rows = append(rows, []string{
			record.OldName,
			record.Status,
			detail,
			fmt.Sprintf("%d", record.TotalTokens),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(),
		renderTable([]string{"File", "Status", "Result", "Tokens"}, rows, 4))
	return nil
}
