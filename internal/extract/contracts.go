package extract

import "context"

// AcquireResult is the text of one source document, page by page.
type AcquireResult struct {
	PageTexts []string
	Pages     int
	Method    string // "pdf-text" | "pdf-ocr" | "image-ocr"
	Warnings  []string
}

// TextAcquirer turns a source file into per-page text. Implementations must
// fail with common.ErrNoText when every page comes back empty; downstream
// stages assume at least one non-blank page.
type TextAcquirer interface {
	Acquire(ctx context.Context, path string) (AcquireResult, error)
}
