// Package pipeline orchestrates one processing run: scan the inbox, extract
// an invoice from each document, validate its totals and export the batch to
// the workbook. Runs are isolated per file, so one unreadable or unparseable
// document never aborts the batch.
package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"invoice-processing-service/internal/docai"
	"invoice-processing-service/internal/extraction"
	"invoice-processing-service/internal/ingest"
	"invoice-processing-service/internal/models"
	"invoice-processing-service/internal/reconciler"
	apperrors "invoice-processing-service/pkg/errors"
	"invoice-processing-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkbookWriter renders a batch of invoices to a file on disk.
type WorkbookWriter interface {
	Write(invoices []*models.Invoice, path string) error
}

// Config controls a pipeline run.
type Config struct {
	// InboxDir is scanned for supported documents. Created if absent.
	InboxDir string

	// OutputPath is the workbook the batch is exported to.
	OutputPath string

	// Tolerance for the totals validation. Non-positive falls back to the
	// validator default.
	Tolerance decimal.Decimal

	// DryRun logs a preview of the export rows instead of writing the
	// workbook.
	DryRun bool

	// Assembler configures header defaults and VAT-rate inference.
	Assembler extraction.AssemblerConfig
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		InboxDir:   "Skopiowane_faktury",
		OutputPath: "Szablon_Faktury_AI_v4.xlsx",
		Tolerance:  reconciler.DefaultTolerance,
		Assembler:  extraction.DefaultAssemblerConfig(),
	}
}

// Summary reports the outcome of one run.
type Summary struct {
	RunID     string `json:"run_id"`
	Scanned   int    `json:"scanned"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
	Output    string `json:"output,omitempty"`
	DryRun    bool   `json:"dry_run"`
}

// Pipeline wires the extraction provider, validator and exporter together.
type Pipeline struct {
	config   Config
	provider docai.Provider
	fallback docai.Provider
	writer   WorkbookWriter
	logger   logger.Logger
}

// New creates a pipeline. A nil provider means extraction runs on the
// deterministic stub from the start rather than as a fallback.
func New(cfg Config, provider docai.Provider, writer WorkbookWriter, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	fallback := docai.NewStubProvider()
	if provider == nil {
		provider = fallback
	}
	return &Pipeline{
		config:   cfg,
		provider: provider,
		fallback: fallback,
		writer:   writer,
		logger:   log.WithComponent("pipeline"),
	}
}

// RunOnce processes every supported document currently in the inbox and
// exports the batch. Per-file failures are logged and counted but do not
// fail the run; the run itself fails only on inbox or export errors.
func (p *Pipeline) RunOnce(ctx context.Context) (*Summary, error) {
	runID := uuid.New().String()
	log := p.logger.WithField("run_id", runID)

	paths, err := ingest.ListDocuments(p.config.InboxDir)
	if err != nil {
		return nil, err
	}

	summary := &Summary{RunID: runID, Scanned: len(paths), DryRun: p.config.DryRun}
	if len(paths) == 0 {
		log.WithField("inbox", p.config.InboxDir).Info("No documents to process")
		return summary, nil
	}

	tracker := logger.NewBatchTracker(log, "process_inbox", len(paths))
	invoices := make([]*models.Invoice, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		inv, err := p.processFile(ctx, path, log)
		if err != nil {
			log.WithError(err).WithField("file", path).Error("Document failed")
			tracker.Failure()
			summary.Failed++
			continue
		}
		invoices = append(invoices, inv)
		tracker.Success()
		summary.Processed++
	}
	tracker.Complete()

	if p.config.DryRun {
		p.logPreview(log, invoices)
		return summary, nil
	}

	if err := p.writer.Write(invoices, p.config.OutputPath); err != nil {
		return nil, err
	}
	summary.Output = p.config.OutputPath
	return summary, nil
}

// RunLoop runs the pipeline immediately and then once per interval until the
// context is cancelled. Run errors are logged and the loop keeps going, so a
// transient provider outage does not stop the watcher.
func (p *Pipeline) RunLoop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	p.logger.WithField("interval", interval.String()).Info("Starting processing loop")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := p.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.WithError(err).Error("Run failed")
		}

		select {
		case <-ctx.Done():
			p.logger.Info("Processing loop stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Pipeline) processFile(ctx context.Context, path string, log logger.Logger) (*models.Invoice, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.FileError(apperrors.CodeFileNotFound, path, err)
	}

	mimeType, ok := ingest.MIMEType(path)
	if !ok {
		return nil, apperrors.ExtractionError(apperrors.CodeInvalidFormat, path, nil)
	}

	doc, err := p.provider.ProcessDocument(ctx, content, mimeType)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		log.WithError(err).WithField("file", path).Warn("Provider failed, using stub extraction")
		doc, err = p.fallback.ProcessDocument(ctx, content, mimeType)
		if err != nil {
			return nil, apperrors.ExtractionError(apperrors.CodeProviderUnavailable, path, err)
		}
	}

	source := filepath.Base(path)
	inv := extraction.AssembleInvoice(doc, source, p.config.Assembler)
	if err := inv.Validate(); err != nil {
		return nil, apperrors.ExtractionError(apperrors.CodeMissingField, path, err)
	}

	result := reconciler.ValidateTotals(reconciler.FromInvoice(inv), p.config.Tolerance)
	fileLog := log.WithFields(logger.Fields{"file": path, "invoice": inv.Number})
	if result.OK {
		fileLog.Info("Totals reconciled")
	} else {
		fileLog.WithField("discrepancies", result.Messages()).Warn("Totals mismatch")
	}
	return inv, nil
}

// logPreview emits the export rows as JSON instead of writing the workbook.
func (p *Pipeline) logPreview(log logger.Logger, invoices []*models.Invoice) {
	type preview struct {
		Headers [][]interface{} `json:"headers"`
		Items   [][]interface{} `json:"items"`
	}
	pv := preview{}
	for _, inv := range invoices {
		pv.Headers = append(pv.Headers, inv.HeaderRow())
		for _, li := range inv.LineItems {
			pv.Items = append(pv.Items, inv.ItemRow(li))
		}
	}
	encoded, err := json.Marshal(pv)
	if err != nil {
		log.WithError(err).Warn("Preview encoding failed")
		return
	}
	log.WithFields(logger.Fields{
		"invoices": len(invoices),
		"rows":     string(encoded),
	}).Info("Dry run, workbook not written")
}
