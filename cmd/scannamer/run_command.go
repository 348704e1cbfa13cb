package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"scannamer/internal/drive"
	"scannamer/internal/history"
	"scannamer/internal/logging"
	"scannamer/internal/pipeline"
	"scannamer/internal/prompts"
	"scannamer/internal/services/llm"
)

const summaryDurationUnit = 10 * time.Millisecond

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		folderFlag   string
		providerFlag string
		modelFlag    string
		promptsFlag  string
		dryRun       bool
		sample       bool
		noOCR        bool
		maxTokens    int
		limit        int64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Rename generic scanned PDFs in a Drive folder",
		Long: `Run lists the PDFs in a Drive folder, picks the ones whose names look like
generic scanner output, asks the configured model for a descriptive name for
each, and renames them in place. Use --dry-run to preview without renaming.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if providerFlag != "" {
				cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(providerFlag))
				if _, ok := cfg.LLM.Providers[cfg.LLM.Provider]; !ok {
					return fmt.Errorf("unknown provider %q", cfg.LLM.Provider)
				}
			}
			if modelFlag != "" {
				cfg.LLM.Model = strings.TrimSpace(modelFlag)
			}
			if maxTokens > 0 {
				cfg.LLM.MaxTokens = maxTokens
			}

			folderID := strings.TrimSpace(folderFlag)
			if folderID == "" {
				folderID = cfg.Drive.FolderID
			}
			if folderID == "" {
				return errors.New("no folder specified: pass --folder or set drive.folder_id")
			}

			logger, err := buildLogger(cfg)
			if err != nil {
				return err
			}

			lock := flock.New(filepath.Join(cfg.Paths.DataDir, "scannamer.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return errors.New("another scannamer run is already in progress")
			}
			defer func() { _ = lock.Unlock() }()

			runCtx := cmd.Context()

			client, err := llm.New(runCtx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if closer, ok := client.(io.Closer); ok {
					_ = closer.Close()
				}
			}()

			promptSpec, err := prompts.Load(promptsFlag)
			if err != nil {
				return err
			}

			storage, err := drive.NewClient(runCtx, cfg.Drive.CredentialsFile, cfg.Drive.TokenFile, logger)
			if err != nil {
				return err
			}

			var store *history.Store
			if cfg.History.Enabled {
				store, err = history.Open(cfg.History.Path)
				if err != nil {
					logger.Warn("history disabled for this run", logging.Error(err))
					store = nil
				} else {
					defer func() { _ = store.Close() }()
				}
			}

			files, err := storage.ListPDFs(runCtx, folderID, limit)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No PDF files found in folder.")
				return nil
			}

			processor := pipeline.NewProcessor(pipeline.Options{
				Config:  cfg,
				Storage: storage,
				Client:  client,
				Prompts: promptSpec,
				Logger:  logger,
				DryRun:  dryRun,
				NoOCR:   noOCR,
			})
			runner := pipeline.NewRunner(pipeline.RunnerOptions{
				Processor: processor,
				Store:     store,
				Logger:    logger,
				Sample:    sample,
			})

			summary, runErr := runner.Run(runCtx, folderID, files)
			printSummary(cmd.OutOrStdout(), summary, client, dryRun)
			return runErr
		},
	}

	cmd.Flags().StringVar(&folderFlag, "folder", "", "Drive folder ID to process")
	cmd.Flags().StringVar(&providerFlag, "provider", "", "LLM provider override (xai, openai, anthropic, google)")
	cmd.Flags().StringVar(&modelFlag, "model", "", "Model override")
	cmd.Flags().StringVar(&promptsFlag, "prompts", "", "Path to a TOML prompts file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report suggested names without renaming")
	cmd.Flags().BoolVar(&sample, "sample", false, "Stop after the first processed file")
	cmd.Flags().BoolVar(&noOCR, "no-ocr", false, "Skip text extraction and always upload the PDF")
	cmd.Flags().IntVar(&maxTokens, "tokens", 0, "Max completion tokens override")
	cmd.Flags().Int64Var(&limit, "limit", 0, "Maximum number of files to list (0 = API default)")

	return cmd
}

func printSummary(out io.Writer, summary pipeline.Summary, client llm.Client, dryRun bool) {
	rows := make([][]string, 0, len(summary.Outcomes))
	for _, outcome := range summary.Outcomes {
		detail := outcome.NewName
		if outcome.Status == pipeline.StatusSkipped || outcome.Status == pipeline.StatusFailed {
			detail = outcome.Reason
		}
		rows = append(rows, []string{
			outcome.OldName,
			string(outcome.Status),
			detail,
			fmt.Sprintf("%d", outcome.Usage.Total),
		})
	}
	fmt.Fprintln(out, renderTable([]string{"File", "Status", "Result", "Tokens"}, rows, 4))

	verb := "renamed"
	count := summary.Renamed
	if dryRun {
		verb = "would rename"
		count = summary.DryRun
	}
	fmt.Fprintf(out, "\n%s %d file(s), skipped %d, failed %d in %s\n",
		strings.ToUpper(verb[:1])+verb[1:], count, summary.Skipped, summary.Failed,
		summary.Duration.Round(summaryDurationUnit))
	fmt.Fprintf(out, "Token usage (%s/%s): prompt %d, completion %d, total %d\n",
		client.Provider(), client.Model(),
		summary.Usage.Prompt, summary.Usage.Completion, summary.Usage.Total)
}
