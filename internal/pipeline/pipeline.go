// Package pipeline implements the per-document naming flow and the batch
// runner that drives it across a Drive folder.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"scannamer/internal/config"
	"scannamer/internal/drive"
	"scannamer/internal/extract"
	"scannamer/internal/logging"
	"scannamer/internal/naming"
	"scannamer/internal/pdfinfo"
	"scannamer/internal/prompts"
	"scannamer/internal/services"
	"scannamer/internal/services/llm"
)

// Storage abstracts the Drive operations the pipeline needs.
type Storage interface {
	ListPDFs(ctx context.Context, folderID string, limit int64) ([]drive.CandidateFile, error)
	Download(ctx context.Context, fileID, destPath string) error
	Rename(ctx context.Context, fileID, newName string) error
}

// PDFTools abstracts the local PDF primitives.
type PDFTools interface {
	PageCount(path string) (int, error)
	ExtractText(path string, maxPages int) (string, error)
	WritePages(src, dst string, pages int) error
}

// LocalPDF implements PDFTools with the pdfinfo package.
type LocalPDF struct{}

func (LocalPDF) PageCount(path string) (int, error) { return pdfinfo.PageCount(path) }

func (LocalPDF) ExtractText(path string, maxPages int) (string, error) {
	return pdfinfo.ExtractText(path, maxPages)
}

func (LocalPDF) WritePages(src, dst string, pages int) error {
	return pdfinfo.WritePages(src, dst, pages)
}

// Status classifies the outcome of one document.
type Status string

const (
	StatusRenamed Status = "renamed"
	StatusDryRun  Status = "dry_run"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome is the result of processing one candidate file.
type Outcome struct {
	FileID  string
	OldName string
	NewName string
	Status  Status
	Reason  string
	Err     error
	Usage   llm.TokenUsage
}

// Options wires a Processor.
type Options struct {
	Config  *config.Config
	Storage Storage
	PDF     PDFTools
	Client  llm.Client
	Prompts prompts.Spec
	Logger  *slog.Logger
	DryRun  bool
	NoOCR   bool
	TempDir string
}

// Processor runs the naming flow for a single document.
type Processor struct {
	cfg     *config.Config
	storage Storage
	pdf     PDFTools
	client  llm.Client
	prompts prompts.Spec
	logger  *slog.Logger
	dryRun  bool
	noOCR   bool
	tempDir string
}

// NewProcessor constructs a Processor from options. Storage and Client are
// required; PDF defaults to the local implementation.
func NewProcessor(opts Options) *Processor {
	pdfTools := opts.PDF
	if pdfTools == nil {
		pdfTools = LocalPDF{}
	}
	tempDir := opts.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Processor{
		cfg:     opts.Config,
		storage: opts.Storage,
		pdf:     pdfTools,
		client:  opts.Client,
		prompts: opts.Prompts,
		logger:  logging.NewComponentLogger(opts.Logger, "pipeline"),
		dryRun:  opts.DryRun,
		noOCR:   opts.NoOCR,
		tempDir: tempDir,
	}
}

var pageMarker = regexp.MustCompile(`(?m)^--- Page \d+ ---$`)

// hasUsableText reports whether extracted text contains anything beyond page
// markers and whitespace. Marker-only output means an image-only scan.
func hasUsableText(text string) bool {
	stripped := pageMarker.ReplaceAllString(text, "")
	return strings.TrimSpace(stripped) != ""
}

// Process runs the full naming flow for one file. All failures are captured
// in the returned Outcome; temp files are removed on every path.
func (p *Processor) Process(ctx context.Context, file drive.CandidateFile) Outcome {
	outcome := Outcome{FileID: file.ID, OldName: file.Name}
	logger := logging.WithContext(ctx, p.logger)

	if !naming.IsCandidate(file.Name, p.cfg.Naming.GenericPatterns) {
		outcome.Status = StatusSkipped
		outcome.Reason = "filename is not generic scanner output"
		logger.Debug("skipping file", logging.String("reason", outcome.Reason))
		return outcome
	}

	workDir, err := os.MkdirTemp(p.tempDir, "scannamer-*")
	if err != nil {
		return p.fail(outcome, "create temp directory", err)
	}
	defer func() {
		if removeErr := os.RemoveAll(workDir); removeErr != nil {
			logger.Warn("temp cleanup failed", logging.Error(removeErr))
		}
	}()

	localPath := filepath.Join(workDir, "original.pdf")
	if err := p.storage.Download(ctx, file.ID, localPath); err != nil {
		return p.fail(outcome, "download", err)
	}

	pageCount, err := p.pdf.PageCount(localPath)
	if err != nil {
		logger.Warn("page count failed, processing document untruncated", logging.Error(err))
		pageCount = 0
	}

	if p.noOCR && !p.client.SupportsPDFUpload() {
		outcome.Status = StatusFailed
		outcome.Err = p.pdfCapabilityError("strategy",
			fmt.Sprintf("--no-ocr requires PDF input but model %s cannot accept it", p.client.Model()))
		outcome.Reason = outcome.Err.Error()
		return outcome
	}

	strategy := extract.Select(pageCount, p.cfg.PDF.MaxPagesBeforeExtraction,
		p.cfg.PDF.ExtractionPages, p.noOCR)
	logger.Debug("selected strategy",
		logging.String("strategy", strategy.Kind.String()),
		logging.Int("pages", pageCount))

	request, err := p.buildRequest(logger, workDir, localPath, strategy, pageCount)
	if err != nil {
		return p.fail(outcome, "prepare content", err)
	}

	result, err := p.client.Analyze(ctx, request)
	if err != nil {
		return p.fail(outcome, "analyze", err)
	}
	outcome.Usage = result.Usage

	sanitized := naming.Sanitize(result.SuggestedName, p.cfg.Naming.MaxFilenameLength)
	if sanitized == "" {
		outcome.Status = StatusFailed
		outcome.Reason = fmt.Sprintf("model suggestion %q is unusable after sanitization", result.SuggestedName)
		outcome.Err = services.Wrap(services.ErrTransient, "pipeline", "sanitize", outcome.Reason, nil)
		return outcome
	}

	newName := sanitized + p.cfg.Naming.Extension
	outcome.NewName = newName
	if strings.EqualFold(newName, file.Name) {
		outcome.Status = StatusSkipped
		outcome.Reason = "suggested name matches current name"
		return outcome
	}

	if p.dryRun {
		outcome.Status = StatusDryRun
		logger.Info("dry run, would rename",
			logging.String("new_name", newName),
			logging.Int("tokens", result.Usage.Total))
		return outcome
	}

	if err := p.storage.Rename(ctx, file.ID, newName); err != nil {
		return p.fail(outcome, "rename", err)
	}
	outcome.Status = StatusRenamed
	logger.Info("renamed file",
		logging.String("new_name", newName),
		logging.Int("tokens", result.Usage.Total))
	return outcome
}

// buildRequest turns the selected strategy into a model request, falling back
// from text extraction to PDF upload when the document has no extractable
// text.
func (p *Processor) buildRequest(logger *slog.Logger, workDir, localPath string, strategy extract.Strategy, pageCount int) (llm.Request, error) {
	if strategy.IsUpload() {
		pdfBytes, err := p.readUpload(logger, workDir, localPath, strategy)
		if err != nil {
			return llm.Request{}, err
		}
		return llm.Request{PDF: pdfBytes, Prompts: p.prompts}, nil
	}

	maxPages := strategy.Pages
	text, err := p.pdf.ExtractText(localPath, maxPages)
	if err != nil {
		return llm.Request{}, fmt.Errorf("extract text: %w", err)
	}
	if hasUsableText(text) {
		return llm.Request{Text: text, Prompts: p.prompts}, nil
	}

	if !p.client.SupportsPDFUpload() {
		return llm.Request{}, p.pdfCapabilityError("fallback",
			fmt.Sprintf("document has no extractable text and model %s cannot accept PDF input", p.client.Model()))
	}
	fallback := extract.UploadFallback(pageCount, p.cfg.PDF.MaxPagesBeforeExtraction,
		p.cfg.PDF.ExtractionPages)
	logger.Info("no extractable text, falling back to PDF upload",
		logging.String("strategy", fallback.Kind.String()))

	pdfBytes, err := p.readUpload(logger, workDir, localPath, fallback)
	if err != nil {
		return llm.Request{}, err
	}
	return llm.Request{PDF: pdfBytes, Prompts: p.prompts}, nil
}

func (p *Processor) readUpload(logger *slog.Logger, workDir, localPath string, strategy extract.Strategy) ([]byte, error) {
	uploadPath := localPath
	if strategy.Kind == extract.KindTruncatedUpload {
		trimmedPath := filepath.Join(workDir, "trimmed.pdf")
		if err := p.pdf.WritePages(localPath, trimmedPath, strategy.Pages); err != nil {
			logger.Warn("trim failed, uploading full document", logging.Error(err))
		} else {
			uploadPath = trimmedPath
		}
	}
	pdfBytes, err := os.ReadFile(uploadPath)
	if err != nil {
		return nil, fmt.Errorf("read upload content: %w", err)
	}
	return pdfBytes, nil
}

// pdfCapabilityError wraps a PDF capability mismatch, listing the provider's
// PDF-capable models so the operator knows what to switch to.
func (p *Processor) pdfCapabilityError(operation, message string) error {
	if provider, ok := p.cfg.LLM.Providers[p.client.Provider()]; ok && len(provider.PDFModels) > 0 {
		message += "; PDF-capable models: " + strings.Join(provider.PDFModels, ", ")
	}
	return services.Wrap(services.ErrUnsupportedModel, "pipeline", operation, message, nil)
}

func (p *Processor) fail(outcome Outcome, operation string, err error) Outcome {
	outcome.Status = StatusFailed
	outcome.Err = err
	outcome.Reason = operation + ": " + err.Error()
	return outcome
}
