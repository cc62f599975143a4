// Package pipeline runs intake documents through text acquisition,
// classification, snippet selection, cached extraction, merge and redaction,
// then fans the per-document results into batch outputs.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/joseph-ayodele/legal-intake/constants"
	"github.com/joseph-ayodele/legal-intake/internal/cache"
	"github.com/joseph-ayodele/legal-intake/internal/classify"
	"github.com/joseph-ayodele/legal-intake/internal/common"
	"github.com/joseph-ayodele/legal-intake/internal/extract"
	"github.com/joseph-ayodele/legal-intake/internal/llm"
	"github.com/joseph-ayodele/legal-intake/internal/merge"
	"github.com/joseph-ayodele/legal-intake/internal/metrics"
	"github.com/joseph-ayodele/legal-intake/internal/redact"
	"github.com/joseph-ayodele/legal-intake/internal/snippet"
)

const (
	maxClassifyChars = 40000 // full-text cap for classification
	maxRawPreview    = 4000  // audit preview cap
)

// DocResult is the terminal record of one successfully processed document.
type DocResult struct {
	Source    string            `json:"source"`
	DocType   constants.DocType `json:"doc_type"`
	PageCount int               `json:"page_count"`
	Method    string            `json:"method"`
	CacheHit  bool              `json:"cache_hit"`
	CharsUsed int               `json:"chars_used"`
	ElapsedMS int64             `json:"elapsed_ms"`
	Data      map[string]any    `json:"data"`
}

// Processor holds everything one document needs to travel the pipeline.
// It is shared by all workers and must stay read-only after construction.
type Processor struct {
	Acquirer  extract.TextAcquirer
	Extractor llm.Extractor
	Store     cache.Store // nil disables caching
	Limits    snippet.Limits
	Redact    bool
	AuditRaw  bool
	Metrics   *metrics.Metrics
	Logger    *slog.Logger

	group singleflight.Group
}

// Process runs one document through every stage. Errors are per-document
// unless wrapped batch-fatal (bad credentials).
func (p *Processor) Process(ctx context.Context, path string) (DocResult, error) {
	start := time.Now()
	logger := p.logger().With("source", path)

	acq, err := p.Acquirer.Acquire(ctx, path)
	if err != nil {
		logger.Error("pipeline.acquire_failed", "stage", constants.StageFailed, "error", err)
		return DocResult{}, common.WrapError(err, "acquire text")
	}
	logger.Info("pipeline.text_acquired", "stage", constants.StageTextAcquired,
		"pages", acq.Pages, "method", acq.Method)

	full := joinCapped(acq.PageTexts, maxClassifyChars)
	dt := classify.Classify(full)
	logger.Info("pipeline.classified", "stage", constants.StageClassified, "doc_type", dt)

	selText := snippet.SelectionText(acq.PageTexts, p.Limits.MaxLines)
	cand := snippet.Select(selText, dt, p.Limits)
	logger.Debug("pipeline.snippet_selected", "stage", constants.StageSnippetSelected,
		"snippet_chars", len(cand.Snippet), "citations", len(cand.Citations))

	model, hit, err := p.extractCached(ctx, dt, cand, logger)
	if err != nil {
		return DocResult{}, err
	}

	// model is a private decode per document, safe to mutate in place
	data := merge.Fields(dt, cand, model)
	data["doc_type"] = dt.String()
	data["source"] = filepath.Base(path)
	data["page_count"] = acq.Pages
	if p.AuditRaw {
		data["raw_ocr_preview"] = capString(full, maxRawPreview)
	}
	logger.Debug("pipeline.merged", "stage", constants.StageMerged, "fields", len(data))
	if p.Redact {
		data = redact.Tree(data).(map[string]any)
		logger.Debug("pipeline.redacted", "stage", constants.StageRedacted)
	}

	if p.Metrics != nil {
		p.Metrics.SnippetChars.Observe(float64(len(cand.Snippet)))
	}

	return DocResult{
		Source:    path,
		DocType:   dt,
		PageCount: acq.Pages,
		Method:    acq.Method,
		CacheHit:  hit,
		CharsUsed: len(cand.Snippet),
		ElapsedMS: time.Since(start).Milliseconds(),
		Data:      data,
	}, nil
}

// extractCached consults the cache, then collapses concurrent identical
// misses into a single external call before writing back.
func (p *Processor) extractCached(ctx context.Context, dt constants.DocType, cand snippet.Candidates, logger *slog.Logger) (map[string]any, bool, error) {
	canonical, err := json.Marshal(cand)
	if err != nil {
		return nil, false, fmt.Errorf("serialize candidates: %w", err)
	}
	key := cache.Key(dt, canonical)

	if p.Store != nil {
		if raw, ok := p.Store.Get(ctx, key); ok {
			var out map[string]any
			if err := json.Unmarshal(raw, &out); err == nil {
				if p.Metrics != nil {
					p.Metrics.CacheHits.Inc()
				}
				logger.Info("pipeline.cache_hit", "stage", constants.StageCacheHit, "key", key)
				return out, true, nil
			}
			logger.Warn("pipeline.cache_entry_invalid", "key", key, "error", err)
		}
		if p.Metrics != nil {
			p.Metrics.CacheMisses.Inc()
		}
	}

	// The flight trades in serialized bytes, not the decoded map: callers that
	// share one flight would otherwise share (and concurrently mutate) the
	// same nested maps through merge and redaction.
	v, err, shared := p.group.Do(key, func() (any, error) {
		// a finished flight has already written back: re-check before calling out
		if p.Store != nil {
			if raw, ok := p.Store.Get(ctx, key); ok && json.Valid(raw) {
				return raw, nil
			}
		}
		logger.Info("pipeline.model_call", "stage", constants.StageModelCalled, "key", key)
		callStart := time.Now()
		out, _, err := p.Extractor.Extract(ctx, llm.ExtractRequest{
			DocType:         dt,
			Candidates:      cand,
			Snippet:         cand.Snippet,
			MaxSnippetChars: p.Limits.MaxChars,
		})
		if p.Metrics != nil {
			p.Metrics.ExtractSeconds.Observe(time.Since(callStart).Seconds())
		}
		if err != nil {
			return nil, err
		}
		b, mErr := json.Marshal(out)
		if mErr != nil {
			return nil, fmt.Errorf("serialize model output: %w", mErr)
		}
		if p.Store != nil {
			p.Store.Put(ctx, key, b)
		}
		return b, nil
	})
	if err != nil {
		var he *llm.HTTPError
		if errors.As(err, &he) && he.Unauthorized() {
			return nil, false, common.NewAppError("AUTH", "extraction service rejected credentials", common.ErrBatchFatal)
		}
		return nil, false, common.WrapError(err, "extract fields")
	}
	var out map[string]any
	if err := json.Unmarshal(v.([]byte), &out); err != nil {
		return nil, false, fmt.Errorf("decode model output: %w", err)
	}
	return out, shared, nil
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func joinCapped(pages []string, maxChars int) string {
	joined := strings.Join(pages, "\n")
	return capString(joined, maxChars)
}

func capString(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
