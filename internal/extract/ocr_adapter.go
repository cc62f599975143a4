package extract

import (
	"context"
	"strings"

	"github.com/joseph-ayodele/legal-intake/internal/common"
	"github.com/joseph-ayodele/legal-intake/internal/ocr"
)

// OCRAcquirer adapts the command-line OCR extractor to the TextAcquirer
// contract and enforces the non-empty-text invariant.
type OCRAcquirer struct {
	extractor *ocr.Extractor
}

func NewOCRAcquirer(e *ocr.Extractor) *OCRAcquirer {
	return &OCRAcquirer{extractor: e}
}

func (a *OCRAcquirer) Acquire(ctx context.Context, path string) (AcquireResult, error) {
	res, err := a.extractor.Extract(ctx, path)
	if err != nil {
		return AcquireResult{Warnings: res.Warnings}, err
	}
	if !anyNonBlank(res.PageTexts) {
		return AcquireResult{Warnings: res.Warnings},
			common.NewAppError("NO_TEXT", "document produced no text on any page", common.ErrNoText)
	}
	return AcquireResult{
		PageTexts: res.PageTexts,
		Pages:     res.Pages,
		Method:    res.Method,
		Warnings:  res.Warnings,
	}, nil
}

func anyNonBlank(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}
