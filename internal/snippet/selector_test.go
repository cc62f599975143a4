package snippet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/legal-intake/constants"
)

func TestSelectGenericCandidates(t *testing.T) {
	text := "Patient: Jane Doe\nDOB 1990-04-01\ncall 555-123-4567 with questions\n"
	c := Select(text, constants.DocTypeMedical, Limits{MaxLines: 6, MaxChars: 500})

	require.Equal(t, "Jane Doe", c.Name)
	require.Equal(t, "1990-04-01", c.Date)
	require.Equal(t, "555-123-4567", c.Phone)
	require.Equal(t, len(text), c.CharCount)
}

func TestSelectSnippetBounds(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("diagnosis of a long running condition with many words on this line\n")
	}
	lim := Limits{MaxLines: 6, MaxChars: 500}
	c := Select(b.String(), constants.DocTypeMedical, lim)

	require.LessOrEqual(t, len(c.Snippet), lim.MaxChars)
	lines := strings.Split(strings.TrimRight(c.Snippet, "\n"), "\n")
	require.LessOrEqual(t, len(lines), lim.MaxLines)
	require.NotEmpty(t, c.Snippet)
}

func TestSelectKeywordWindow(t *testing.T) {
	text := "above above\ntwo before\none before\ndiagnosis: sprain\none after\ntwo after\nnever reached\n"
	c := Select(text, constants.DocTypeMedical, Limits{MaxLines: 14, MaxChars: 1400})

	require.Contains(t, c.Snippet, "two before")
	require.Contains(t, c.Snippet, "diagnosis: sprain")
	require.Contains(t, c.Snippet, "two after")
	require.NotContains(t, c.Snippet, "above above")
}

func TestSelectFallbackFirstLines(t *testing.T) {
	text := "no signal here\n\nsecond line of prose\nthird line of prose\n"
	c := Select(text, constants.DocTypePleading, Limits{MaxLines: 6, MaxChars: 500})

	require.True(t, strings.HasPrefix(c.Snippet, "no signal here\n"))
	require.NotContains(t, c.Snippet, "\n\n") // blanks dropped
}

func TestSelectDeterministic(t *testing.T) {
	text := "Patient: A B\nimpression: torn meniscus\nfindings: effusion\n"
	lim := Limits{MaxLines: 6, MaxChars: 500}
	first := Select(text, constants.DocTypeImaging, lim)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, Select(text, constants.DocTypeImaging, lim))
	}
}

func TestTranscriptCitations(t *testing.T) {
	text := strings.Join([]string{
		"EXAMINATION BEFORE TRIAL",
		"Page 12",
		"lines 4-9 Q: were you present?",
		"Page 13",
		"line 2 A: yes, I was.",
	}, "\n")
	c := Select(text, constants.DocTypeTranscript, Limits{MaxLines: 14, MaxChars: 1400})

	require.Len(t, c.Citations, 2)
	require.Equal(t, 12, c.Citations[0].Page)
	require.Equal(t, "lines 4-9", c.Citations[0].Line)
	require.Equal(t, 13, c.Citations[1].Page)
	require.Contains(t, c.Citations[1].Text, "A: yes, I was.")
}

func TestTranscriptCitationsCapAndPageCarry(t *testing.T) {
	var b strings.Builder
	b.WriteString("line 1 Q: before any page marker\n")
	b.WriteString("Page 7\n")
	for i := 0; i < 20; i++ {
		b.WriteString("line 3 A: answer\n")
	}
	c := Select(b.String(), constants.DocTypeTranscript, Limits{MaxLines: 14, MaxChars: 1400})

	require.Len(t, c.Citations, 10)
	require.Equal(t, 0, c.Citations[0].Page) // no marker seen yet
	require.Equal(t, 7, c.Citations[1].Page) // carried forward
}

func TestNonTranscriptHasNoCitations(t *testing.T) {
	c := Select("Page 3\nline 4 something", constants.DocTypePolice, Limits{MaxLines: 6, MaxChars: 500})
	require.Empty(t, c.Citations)
}

func TestSelectionText(t *testing.T) {
	pages := []string{"  one  \n\ntwo\n", "three\n"}
	got := SelectionText(pages, 14)
	require.Equal(t, "one\ntwo\nthree\n", got)

	// line budget is 2*maxLines
	var many []string
	for i := 0; i < 100; i++ {
		many = append(many, "x")
	}
	got = SelectionText([]string{strings.Join(many, "\n")}, 6)
	require.Equal(t, 12, strings.Count(got, "\n"))
}

func TestSelectionTextFallsBackToFirstPage(t *testing.T) {
	// one unbroken line larger than the join budget: the line join keeps
	// nothing, so the first page must be handed over instead
	huge := strings.Repeat("diagnosis ", 500)
	got := SelectionText([]string{huge}, 14)
	require.NotEmpty(t, got, "selection text must not be empty for a non-blank page")
	require.LessOrEqual(t, len(got), 4000)
	require.True(t, strings.HasPrefix(got, "diagnosis "))
}
