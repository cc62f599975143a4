// Command intake-batch runs a directory (or single file) of intake documents
// through OCR, classification and schema-constrained field extraction, and
// writes the combined batch result plus optional side outputs.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/joseph-ayodele/legal-intake/constants"
	"github.com/joseph-ayodele/legal-intake/internal/cache"
	"github.com/joseph-ayodele/legal-intake/internal/common"
	"github.com/joseph-ayodele/legal-intake/internal/export"
	"github.com/joseph-ayodele/legal-intake/internal/extract"
	"github.com/joseph-ayodele/legal-intake/internal/ingest"
	"github.com/joseph-ayodele/legal-intake/internal/llm/openai"
	"github.com/joseph-ayodele/legal-intake/internal/metrics"
	"github.com/joseph-ayodele/legal-intake/internal/ocr"
	"github.com/joseph-ayodele/legal-intake/internal/pipeline"
	"github.com/joseph-ayodele/legal-intake/internal/snippet"
)

var (
	flagConfig   string
	flagInput    string
	flagOutput   string
	flagJSONL    string
	flagXLSX     string
	flagPerFile  bool
	flagWorkers  int
	flagModel    string
	flagCache    string
	flagMaxLines int
	flagMaxChars int
	flagTimeout  time.Duration
	flagRedact   bool
	flagAuditRaw bool
	flagMetrics  string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "intake-batch",
	Short: "Batch field extraction for legal and medical intake documents",
	Long: `intake-batch OCRs scanned intake documents, classifies each one
(medical record, pleading, police report, transcript, EOB, imaging report),
and extracts structured fields through a schema-constrained LLM call with
caching, rate limiting and optional PII redaction.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flagConfig, "config", "", "YAML config file (flags override)")
	f.StringVarP(&flagInput, "input", "i", "", "input file or directory (required)")
	f.StringVarP(&flagOutput, "output", "o", "", "combined batch JSON path (required)")
	f.StringVar(&flagJSONL, "jsonl", "", "per-document JSONL stream path")
	f.StringVar(&flagXLSX, "xlsx", "", "XLSX batch summary path")
	f.BoolVar(&flagPerFile, "per-file", false, "write one <stem>.extracted.json per document")
	f.IntVar(&flagWorkers, "workers", 0, "worker count (default: CPU count)")
	f.StringVar(&flagModel, "model", "", "extraction model name")
	f.StringVar(&flagCache, "cache", "", "cache location: dir, *.db, or redis:// (empty disables)")
	f.IntVar(&flagMaxLines, "max-lines", 0, "snippet line budget")
	f.IntVar(&flagMaxChars, "max-chars", 0, "snippet character budget")
	f.DurationVar(&flagTimeout, "timeout", 0, "per-request extraction timeout")
	f.BoolVar(&flagRedact, "redact", false, "mask SSNs, phone numbers and emails in outputs")
	f.BoolVar(&flagAuditRaw, "audit-raw", false, "include a capped raw OCR preview per document")
	f.StringVar(&flagMetrics, "metrics-addr", "", "Prometheus scrape address, e.g. :9102")
	f.BoolVar(&flagVerbose, "verbose", false, "debug logging")
}

func run(ctx context.Context) error {
	cfg, err := common.LoadConfig(flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cfg)
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mets *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		mets = metrics.New(nil)
		metrics.Serve(cfg.Metrics.Addr, logger)
	}

	store, err := cache.Open(cfg.Cache.Location)
	if err != nil {
		return common.WrapError(err, "open cache")
	}

	files, err := ingest.Enumerate(cfg.Input.Path, nil)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return common.NewAppError("INPUT", "no matching documents found", common.ErrInvalidInput)
	}
	logger.Info("batch.enumerated", "stage", constants.StageEnumerated, "documents", len(files))

	limiter := rate.NewLimiter(rate.Every(cfg.LLM.MinRequestInterval), 1)
	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, limiter, logger)

	acquirer := extract.NewOCRAcquirer(ocr.NewExtractor(ocr.Config{
		Pdftotext: cfg.OCR.Pdftotext,
		Pdftoppm:  cfg.OCR.Pdftoppm,
		Tesseract: cfg.OCR.Tesseract,
		Language:  cfg.OCR.Language,
		DPI:       cfg.OCR.DPI,
		MaxPages:  cfg.OCR.MaxPages,
	}, logger))

	sink, err := pipeline.NewSink(pipeline.SinkConfig{
		JSONLPath: cfg.Output.JSONLPath,
		PerFile:   cfg.Output.PerFile,
		Progress:  os.Stdout,
	}, mets, logger)
	if err != nil {
		return err
	}

	orch := &pipeline.Orchestrator{
		Processor: &pipeline.Processor{
			Acquirer:  acquirer,
			Extractor: client,
			Store:     store,
			Limits:    snippet.Limits{MaxLines: cfg.Snippet.MaxLines, MaxChars: cfg.Snippet.MaxChars},
			Redact:    cfg.Redact,
			AuditRaw:  cfg.AuditRawOCR,
			Metrics:   mets,
			Logger:    logger,
		},
		Workers: cfg.Workers,
		Model:   cfg.LLM.Model,
		Sink:    sink,
		Logger:  logger,
	}

	result, runErr := orch.Run(ctx, files)

	if err := pipeline.WriteBatch(cfg.Output.Path, result); err != nil {
		return err
	}
	if cfg.Output.XLSXPath != "" {
		b, err := export.BatchXLSX(result, logger)
		if err != nil {
			return common.WrapError(err, "render xlsx summary")
		}
		if err := os.WriteFile(cfg.Output.XLSXPath, b, 0o644); err != nil {
			return common.WrapError(err, "write xlsx summary")
		}
	}

	fmt.Printf("processed=%d ok=%d errors=%d -> %s\n",
		result.Stats.Processed, result.Stats.OK, result.Stats.Errors, cfg.Output.Path)
	return runErr
}

func applyFlags(cfg *common.Config) {
	if flagInput != "" {
		cfg.Input.Path = flagInput
	}
	if flagOutput != "" {
		cfg.Output.Path = flagOutput
	}
	if flagJSONL != "" {
		cfg.Output.JSONLPath = flagJSONL
	}
	if flagXLSX != "" {
		cfg.Output.XLSXPath = flagXLSX
	}
	if flagPerFile {
		cfg.Output.PerFile = true
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	if flagModel != "" {
		cfg.LLM.Model = flagModel
	}
	if flagCache != "" {
		cfg.Cache.Location = flagCache
	}
	if flagMaxLines > 0 {
		cfg.Snippet.MaxLines = flagMaxLines
	}
	if flagMaxChars > 0 {
		cfg.Snippet.MaxChars = flagMaxChars
	}
	if flagTimeout > 0 {
		cfg.LLM.Timeout = flagTimeout
	}
	if flagRedact {
		cfg.Redact = true
	}
	if flagAuditRaw {
		cfg.AuditRawOCR = true
	}
	if flagMetrics != "" {
		cfg.Metrics.Addr = flagMetrics
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
