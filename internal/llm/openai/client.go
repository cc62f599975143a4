package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/legal-intake/internal/llm"
)

const (
	backoffStart = 400 * time.Millisecond
	backoffCap   = 5 * time.Second
)

// Extract implements llm.Extractor against chat/completions with function
// calling. Statuses >=500 and 429 are retried with exponential backoff
// (429 delays capped at 5s); any other >=400 is returned as *llm.HTTPError
// without retrying further.
func (c *Client) Extract(ctx context.Context, req llm.ExtractRequest) (map[string]any, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"doc_type", req.DocType,
		"snippet_chars", len(req.Snippet),
	)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt()},
			{"role": "user", "content": llm.BuildUserPrompt(req)},
		},
		"functions":     llm.FunctionsFor(req.DocType),
		"function_call": map[string]any{"name": llm.FunctionNameFor(req.DocType)},
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	var (
		raw     []byte
		status  int
		backoff = backoffStart
	)
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, nil, err
			}
		}
		var err error
		raw, status, err = llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.logger)
		if err != nil {
			c.logger.Error("llm.extract.transport_error",
				"req_id", rid, "attempt", attempt, "error", err,
				"elapsed_ms", time.Since(start).Milliseconds())
			return nil, nil, err
		}
		if status >= 500 {
			c.logger.Warn("llm.extract.retryable_status",
				"req_id", rid, "attempt", attempt, "status", status, "backoff_ms", backoff.Milliseconds())
			c.sleep(backoff)
			backoff *= 2
			continue
		}
		if status == 429 {
			c.logger.Warn("llm.extract.rate_limited",
				"req_id", rid, "attempt", attempt, "backoff_ms", backoff.Milliseconds())
			c.sleep(backoff)
			backoff *= 2
			if backoff > backoffCap {
				backoff = backoffCap
			}
			continue
		}
		break
	}
	if status >= 400 {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "status", status,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, raw, &llm.HTTPError{Status: status, Body: truncate(string(raw), 2048)}
	}

	payload, err := extractPayload(raw)
	if err != nil {
		c.logger.Error("llm.extract.no_payload",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, raw, err
	}

	out, err := llm.DecodeModelJSON(payload)
	if err != nil {
		c.logger.Error("llm.extract.decode_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, []byte(payload), err
	}

	// Advisory check: log schema drift but keep the parsed answer.
	if params := llm.ParametersFor(req.DocType); params != nil {
		if b, mErr := json.Marshal(out); mErr == nil {
			if vErr := llm.ValidateJSONAgainstSchema(params, b); vErr != nil {
				c.logger.Warn("llm.extract.schema_mismatch", "req_id", rid, "error", vErr)
			}
		}
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"doc_type", req.DocType,
		"fields", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, []byte(payload), nil
}

// extractPayload pulls the structured function-call arguments out of a
// chat-completions answer, falling back to plain message content.
func extractPayload(raw []byte) (string, error) {
	var cc struct {
		Choices []struct {
			Message struct {
				Content      string `json:"content"`
				FunctionCall *struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function_call"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode response envelope: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	msg := cc.Choices[0].Message
	if msg.FunctionCall != nil && msg.FunctionCall.Arguments != "" {
		return msg.FunctionCall.Arguments, nil
	}
	return msg.Content, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
