package llm

import (
	"context"

	"github.com/joseph-ayodele/legal-intake/constants"
	"github.com/joseph-ayodele/legal-intake/internal/snippet"
)

// ExtractRequest carries everything one extraction call needs.
type ExtractRequest struct {
	DocType    constants.DocType
	Candidates snippet.Candidates
	Snippet    string

	// MaxSnippetChars re-caps the snippet defensively before send.
	MaxSnippetChars int
}

// Extractor is the interface the pipeline depends on. Implementations own
// rate limiting and retry; a returned *HTTPError tells the caller whether
// the failure was the service's answer rather than transport trouble.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) (map[string]any, []byte /*rawJSON*/, error)
}
