package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/legal-intake/internal/common"
)

// DocError is the terminal record of one failed document.
type DocError struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// Stats aggregates a finished batch.
type Stats struct {
	Processed       int     `json:"processed"`
	OK              int     `json:"ok"`
	Errors          int     `json:"errors"`
	AvgSnippetChars float64 `json:"avg_snippet_chars"`
}

// BatchResult is the combined output of a batch run.
type BatchResult struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Model       string      `json:"model"`
	Documents   []DocResult `json:"documents"`
	Errors      []DocError  `json:"errors"`
	Stats       Stats       `json:"stats"`
}

// Orchestrator fans a document list out over a bounded worker pool. One
// document failing records an error and moves on; a batch-fatal failure
// (rejected credentials, unwritable outputs) cancels the remaining work.
type Orchestrator struct {
	Processor *Processor
	Workers   int
	Model     string
	Sink      *Sink
	Logger    *slog.Logger
}

// Run processes every file and returns the assembled batch result. The
// returned error is non-nil only for batch-fatal conditions.
func (o *Orchestrator) Run(ctx context.Context, files []string) (BatchResult, error) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	total := len(files)
	workers := o.Workers
	if workers > total {
		workers = total
	}
	if workers < 1 {
		workers = 1
	}
	logger.Info("batch.start", "documents", total, "workers", workers)
	start := time.Now()

	var next atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				i := int(next.Add(1)) - 1
				if i >= total {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				path := files[i]
				res, err := o.Processor.Process(gctx, path)
				if err != nil {
					if common.IsBatchFatal(err) {
						logger.Error("batch.fatal", "source", path, "error", err)
						return err
					}
					o.Sink.RecordError(i, total, path, err)
					continue
				}
				if err := o.Sink.Record(i, total, res); err != nil {
					// output plumbing broken: no point continuing the batch
					return common.NewAppError("OUTPUT", "write document result",
						errors.Join(common.ErrBatchFatal, err))
				}
			}
		})
	}
	err := g.Wait()

	result := o.Sink.Finish(o.Model)
	logger.Info("batch.done",
		"processed", result.Stats.Processed,
		"ok", result.Stats.OK,
		"errors", result.Stats.Errors,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, err
}
