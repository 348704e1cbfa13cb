package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"scannamer/internal/drive"
	"scannamer/internal/history"
	"scannamer/internal/logging"
	"scannamer/internal/services"
	"scannamer/internal/services/llm"
)

// Summary aggregates the outcomes of one batch run.
type Summary struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Renamed   int
	DryRun    int
	Skipped   int
	Failed    int
	Outcomes  []Outcome
	Usage     llm.TokenUsage
}

// Processed returns the number of files that reached the model.
func (s Summary) Processed() int {
	return s.Renamed + s.DryRun + s.Failed
}

// Runner drives the processor across a folder's candidates with per-file
// fault isolation: one bad document never stops the batch.
type Runner struct {
	processor *Processor
	store     *history.Store
	logger    *slog.Logger
	sample    bool
}

// RunnerOptions wires a Runner. Store is optional.
type RunnerOptions struct {
	Processor *Processor
	Store     *history.Store
	Logger    *slog.Logger
	// Sample stops the run after the first file that reaches the model.
	Sample bool
}

// NewRunner constructs a Runner.
func NewRunner(opts RunnerOptions) *Runner {
	return &Runner{
		processor: opts.Processor,
		store:     opts.Store,
		logger:    logging.NewComponentLogger(opts.Logger, "runner"),
		sample:    opts.Sample,
	}
}

// Run processes every candidate in order. It returns an error only for fatal
// conditions that invalidate the rest of the batch, such as configuration
// failures; per-file failures are recorded in the summary and the run
// continues.
func (r *Runner) Run(ctx context.Context, folderID string, files []drive.CandidateFile) (Summary, error) {
	summary := Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("starting run",
		logging.Int("candidates", len(files)),
		logging.Bool("dry_run", r.processor.dryRun))

	var fatal error
	for _, file := range files {
		if ctx.Err() != nil {
			fatal = ctx.Err()
			break
		}

		fileCtx := services.WithFile(ctx, file.ID, file.Name)
		outcome := r.processSafe(fileCtx, file)
		summary.Outcomes = append(summary.Outcomes, outcome)

		switch outcome.Status {
		case StatusRenamed:
			summary.Renamed++
		case StatusDryRun:
			summary.DryRun++
		case StatusSkipped:
			summary.Skipped++
		case StatusFailed:
			summary.Failed++
			logging.WithContext(fileCtx, r.logger).Error("file failed", logging.Error(outcome.Err))
		}
		r.recordFile(fileCtx, summary.RunID, outcome)

		if outcome.Err != nil && services.IsFatal(outcome.Err) {
			fatal = outcome.Err
			break
		}
		if r.sample && outcome.Status != StatusSkipped {
			logger.Info("sample mode, stopping after first processed file")
			break
		}
	}

	summary.Duration = time.Since(summary.StartedAt)
	summary.Usage = r.processor.client.AccumulatedUsage()
	r.recordRun(ctx, folderID, summary)

	logger.Info("run complete",
		logging.Int("renamed", summary.Renamed),
		logging.Int("dry_run", summary.DryRun),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Int("total_tokens", summary.Usage.Total))
	return summary, fatal
}

// processSafe converts a panic in the per-file flow into a failed outcome.
func (r *Runner) processSafe(ctx context.Context, file drive.CandidateFile) (outcome Outcome) {
	defer func() {
		if recovered := recover(); recovered != nil {
			outcome = Outcome{
				FileID:  file.ID,
				OldName: file.Name,
				Status:  StatusFailed,
				Reason:  fmt.Sprintf("panic: %v", recovered),
				Err:     fmt.Errorf("panic while processing %s: %v", file.ID, recovered),
			}
		}
	}()
	return r.processor.Process(ctx, file)
}

func (r *Runner) recordFile(ctx context.Context, runID string, outcome Outcome) {
	if r.store == nil {
		return
	}
	record := history.FileRecord{
		RunID:       runID,
		FileID:      outcome.FileID,
		OldName:     outcome.OldName,
		NewName:     outcome.NewName,
		Status:      string(outcome.Status),
		TotalTokens: outcome.Usage.Total,
	}
	if outcome.Err != nil {
		record.Error = outcome.Err.Error()
	} else if outcome.Reason != "" && outcome.Status != StatusRenamed && outcome.Status != StatusDryRun {
		record.Error = outcome.Reason
	}
	if err := r.store.RecordFile(ctx, record); err != nil {
		logging.WithContext(ctx, r.logger).Warn("history record failed", logging.Error(err))
	}
}

func (r *Runner) recordRun(ctx context.Context, folderID string, summary Summary) {
	if r.store == nil {
		return
	}
	run := history.Run{
		ID:               summary.RunID,
		StartedAt:        summary.StartedAt,
		FinishedAt:       summary.StartedAt.Add(summary.Duration),
		Provider:         r.processor.client.Provider(),
		Model:            r.processor.client.Model(),
		FolderID:         folderID,
		DryRun:           r.processor.dryRun,
		Processed:        summary.Processed(),
		Failed:           summary.Failed,
		Skipped:          summary.Skipped,
		PromptTokens:     summary.Usage.Prompt,
		CompletionTokens: summary.Usage.Completion,
		TotalTokens:      summary.Usage.Total,
	}
	if err := r.store.RecordRun(ctx, run); err != nil {
		logging.WithContext(ctx, r.logger).Warn("history record failed", logging.Error(err))
	}
}
