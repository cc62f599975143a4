package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joseph-ayodele/legal-intake/constants"
	"github.com/joseph-ayodele/legal-intake/internal/common"
	"github.com/joseph-ayodele/legal-intake/internal/metrics"
)

// Sink serializes everything workers emit: collected results, the optional
// JSONL stream, optional per-file JSON documents, and progress lines. One
// mutex guards all of it so interleaved workers cannot corrupt an output.
type Sink struct {
	mu      sync.Mutex
	results []DocResult
	errors  []DocError

	jsonl    io.WriteCloser // nil disables the stream
	perFile  bool
	outDir   string
	progress io.Writer

	metrics *metrics.Metrics
	logger  *slog.Logger
}

// SinkConfig selects the sink's destinations.
type SinkConfig struct {
	JSONLPath string
	PerFile   bool
	OutDir    string    // directory for per-file results; defaults next to source
	Progress  io.Writer // nil disables progress lines
}

// NewSink opens the configured destinations. An unopenable destination is a
// batch-fatal condition: better to fail before the first external call.
func NewSink(cfg SinkConfig, m *metrics.Metrics, logger *slog.Logger) (*Sink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sink{
		perFile:  cfg.PerFile,
		outDir:   cfg.OutDir,
		progress: cfg.Progress,
		metrics:  m,
		logger:   logger,
	}
	if cfg.JSONLPath != "" {
		f, err := os.Create(cfg.JSONLPath)
		if err != nil {
			return nil, common.NewAppError("OUTPUT", "open jsonl stream", common.ErrBatchFatal)
		}
		s.jsonl = f
	}
	return s, nil
}

// Record stores one successful result and fans it out to the side outputs.
func (s *Sink) Record(index, total int, res DocResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = append(s.results, res)
	if s.metrics != nil {
		s.metrics.DocsProcessed.WithLabelValues("ok").Inc()
	}
	s.logger.Debug("sink.persisted", "stage", constants.StagePersisted, "source", res.Source)
	s.printProgress(index, total, res.Source, "OK")

	if s.jsonl != nil {
		line := map[string]any{
			"ok":         true,
			"source":     res.Source,
			"doc_type":   res.DocType,
			"page_count": res.PageCount,
			"data":       res.Data,
		}
		if err := s.writeJSONL(line); err != nil {
			return err
		}
	}
	if s.perFile {
		if err := s.writePerFile(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordError stores one per-document failure.
func (s *Sink) RecordError(index, total int, source string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errors = append(s.errors, DocError{Source: source, Error: err.Error()})
	if s.metrics != nil {
		s.metrics.DocsProcessed.WithLabelValues("error").Inc()
	}
	s.logger.Warn("sink.document_failed", "stage", constants.StageFailed, "source", source, "error", err)
	s.printProgress(index, total, source, "ERR")

	if s.jsonl != nil {
		_ = s.writeJSONL(map[string]any{
			"ok":     false,
			"source": source,
			"error":  err.Error(),
		})
	}
}

// Finish closes the stream outputs and assembles the batch result. Results
// are re-sorted by source so output order is stable regardless of worker
// scheduling.
func (s *Sink) Finish(model string) BatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.jsonl != nil {
		if err := s.jsonl.Close(); err != nil {
			s.logger.Warn("sink.jsonl_close_failed", "error", err)
		}
		s.jsonl = nil
	}

	sort.Slice(s.results, func(i, j int) bool { return s.results[i].Source < s.results[j].Source })
	sort.Slice(s.errors, func(i, j int) bool { return s.errors[i].Source < s.errors[j].Source })

	var snippetChars int
	for _, r := range s.results {
		snippetChars += r.CharsUsed
	}
	stats := Stats{
		Processed: len(s.results) + len(s.errors),
		OK:        len(s.results),
		Errors:    len(s.errors),
	}
	if len(s.results) > 0 {
		stats.AvgSnippetChars = float64(snippetChars) / float64(len(s.results))
	}
	return BatchResult{
		GeneratedAt: time.Now().UTC(),
		Model:       model,
		Documents:   s.results,
		Errors:      s.errors,
		Stats:       stats,
	}
}

// WriteBatch writes the combined batch JSON to path.
func WriteBatch(path string, result BatchResult) error {
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode batch result: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return common.NewAppError("OUTPUT", "write batch result", common.ErrBatchFatal)
	}
	return nil
}

func (s *Sink) writeJSONL(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode jsonl line: %w", err)
	}
	if _, err := s.jsonl.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write jsonl line: %w", err)
	}
	return nil
}

func (s *Sink) writePerFile(res DocResult) error {
	base := filepath.Base(res.Source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	dir := s.outDir
	if dir == "" {
		dir = filepath.Dir(res.Source)
	}
	path := filepath.Join(dir, stem+".extracted.json")

	b, err := json.MarshalIndent(res.Data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode per-file result: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (s *Sink) printProgress(index, total int, source, status string) {
	if s.progress == nil {
		return
	}
	fmt.Fprintf(s.progress, "[%d/%d] %s -> %s\n", index+1, total, filepath.Base(source), status)
}
