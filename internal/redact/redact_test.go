package redact

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	rePhone = regexp.MustCompile(`\d{3}[\s\-.]\d{4}`)
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	reSSN   = regexp.MustCompile(`\b\d{3}[- ]?\d{2}[- ]?\d{4}\b`)
)

func TestStringLeavesNoPII(t *testing.T) {
	got := String("reach Jane at 555-123-4567 or a@b.com")
	require.False(t, rePhone.MatchString(got), "phone survived: %q", got)
	require.False(t, reEmail.MatchString(got), "email survived: %q", got)
	require.Contains(t, got, "***-***-****")
	require.Contains(t, got, "***@***.***")
}

func TestStringSSN(t *testing.T) {
	got := String("ssn 078-05-1120 on file")
	require.False(t, reSSN.MatchString(got))
	require.Contains(t, got, "***-**-****")
}

func TestTreeWalksStructurally(t *testing.T) {
	v := map[string]any{
		"patient_name": "Jane Doe",
		"phone":        "call (212) 555-0000 now",
		"page_count":   float64(3),
		"verified":     true,
		"notes":        []any{"email a@b.com", map[string]any{"deep": "555-123-4567"}},
	}
	out := Tree(v).(map[string]any)

	require.Equal(t, "Jane Doe", out["patient_name"])
	require.Equal(t, float64(3), out["page_count"])
	require.Equal(t, true, out["verified"])
	require.NotContains(t, out["phone"], "555-0000")

	notes := out["notes"].([]any)
	require.Equal(t, "email ***@***.***", notes[0])
	require.Equal(t, "***-***-****", notes[1].(map[string]any)["deep"])
}

func TestTreeIrreversible(t *testing.T) {
	out := Tree("078-05-1120").(string)
	require.Equal(t, "***-**-****", out)
}
