package llm

import "fmt"

// HTTPError is a non-2xx answer from the extraction service, surfaced after
// retries are exhausted or immediately for non-retryable statuses.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("extraction service status %d: %s", e.Status, e.Body)
}

// Retryable reports whether the status is worth another attempt.
func (e *HTTPError) Retryable() bool {
	return e.Status >= 500 || e.Status == 429
}

// Unauthorized reports a credentials-level rejection. The orchestrator
// treats this as a batch-fatal configuration failure, not a document one.
func (e *HTTPError) Unauthorized() bool {
	return e.Status == 401
}
