package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/legal-intake/constants"
	"github.com/joseph-ayodele/legal-intake/internal/llm"
)

func okBody(args string) string {
	return fmt.Sprintf(`{"choices":[{"message":{"function_call":{"name":"extract_medical_json","arguments":%q}}}]}`, args)
}

// newScriptedClient serves the given status sequence (last one repeats) and
// records backoff sleeps instead of performing them.
func newScriptedClient(t *testing.T, statuses []int, finalBody string, maxAttempts int) (*Client, *[]time.Duration) {
	t.Helper()
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idx := calls
		if idx >= len(statuses) {
			idx = len(statuses) - 1
		}
		calls++
		status := statuses[idx]
		if status == http.StatusOK {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(finalBody))
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":"scripted"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		APIKey:      "test-key",
		BaseURL:     srv.URL,
		MaxAttempts: maxAttempts,
	}, nil, nil)
	var slept []time.Duration
	c.sleep = func(d time.Duration) { slept = append(slept, d) }
	return c, &slept
}

func medReq() llm.ExtractRequest {
	return llm.ExtractRequest{
		DocType:         constants.DocTypeMedical,
		Snippet:         "diagnosis: sprain\n",
		MaxSnippetChars: 1400,
	}
}

func TestRetryScheduleOn503(t *testing.T) {
	c, slept := newScriptedClient(t,
		[]int{503, 503, 200},
		okBody(`{"patient_name":"Jane Doe","confidence":0.9}`), 4)

	out, raw, err := c.Extract(context.Background(), medReq())
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", out["patient_name"])
	require.NotEmpty(t, raw)

	require.Equal(t, []time.Duration{400 * time.Millisecond, 800 * time.Millisecond}, *slept)
}

func TestRetryExhaustionReturnsHTTPError(t *testing.T) {
	c, slept := newScriptedClient(t, []int{503}, "", 4)

	_, _, err := c.Extract(context.Background(), medReq())
	var he *llm.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, 503, he.Status)
	require.True(t, he.Retryable())
	// 4 attempts, a sleep after each failed one
	require.Equal(t, []time.Duration{
		400 * time.Millisecond, 800 * time.Millisecond,
		1600 * time.Millisecond, 3200 * time.Millisecond,
	}, *slept)
}

func TestBackoffCapOn429(t *testing.T) {
	c, slept := newScriptedClient(t, []int{429}, "", 8)

	_, _, err := c.Extract(context.Background(), medReq())
	var he *llm.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, 429, he.Status)

	want := []time.Duration{
		400 * time.Millisecond, 800 * time.Millisecond, 1600 * time.Millisecond,
		3200 * time.Millisecond, 5 * time.Second, 5 * time.Second, 5 * time.Second,
		5 * time.Second,
	}
	require.Equal(t, want, *slept)
}

func TestFatalStatusDoesNotRetry(t *testing.T) {
	c, slept := newScriptedClient(t, []int{400}, "", 4)

	_, _, err := c.Extract(context.Background(), medReq())
	var he *llm.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, 400, he.Status)
	require.False(t, he.Retryable())
	require.Empty(t, *slept)
}

func TestUnauthorizedIsFlagged(t *testing.T) {
	c, _ := newScriptedClient(t, []int{401}, "", 4)

	_, _, err := c.Extract(context.Background(), medReq())
	var he *llm.HTTPError
	require.ErrorAs(t, err, &he)
	require.True(t, he.Unauthorized())
}

func TestContentFallbackAndRepair(t *testing.T) {
	body := `{"choices":[{"message":{"content":"here you go: {\"patient_name\":\"Jane Doe\",\"confidence\":1} thanks"}}]}`
	c, _ := newScriptedClient(t, []int{200}, body, 4)

	out, _, err := c.Extract(context.Background(), medReq())
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", out["patient_name"])
}

func TestUnparseablePayloadFails(t *testing.T) {
	body := `{"choices":[{"message":{"content":"no json here at all"}}]}`
	c, _ := newScriptedClient(t, []int{200}, body, 4)

	_, _, err := c.Extract(context.Background(), medReq())
	require.Error(t, err)
	var he *llm.HTTPError
	require.False(t, errors.As(err, &he), "parse failure must not look like an HTTP status error")
}

func TestTimeoutFloor(t *testing.T) {
	c := NewClient(Config{APIKey: "k", Timeout: time.Second}, nil, nil)
	require.Equal(t, 30*time.Second, c.cfg.Timeout)

	c = NewClient(Config{APIKey: "k"}, nil, nil)
	require.Equal(t, 120*time.Second, c.cfg.Timeout)
}
