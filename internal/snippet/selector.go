// Package snippet derives bounded heuristic candidates from page text:
// first-match field guesses, a keyword-windowed excerpt capped by line and
// character budgets, and transcript citations. Everything here is a
// deterministic function of (text, doc type, limits).
package snippet

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/legal-intake/constants"
	"github.com/joseph-ayodele/legal-intake/internal/classify"
)

// Limits bounds the excerpt sent downstream.
type Limits struct {
	MaxLines int
	MaxChars int
}

// Citation is a transcript (page, line-range, quote) tuple.
type Citation struct {
	Page int    `json:"page"`
	Line string `json:"line"`
	Text string `json:"text"`
}

// Candidates holds heuristic field guesses plus the bounded excerpt itself.
// The JSON form doubles as the canonical serialization for cache keys, so
// field order and tags are load-bearing.
type Candidates struct {
	Name      string     `json:"name_candidate,omitempty"`
	Date      string     `json:"date_candidate,omitempty"`
	Phone     string     `json:"phone_candidate,omitempty"`
	Snippet   string     `json:"important_snippets"`
	CharCount int        `json:"char_count"`
	Citations []Citation `json:"local_citations,omitempty"`
}

var (
	reName  = regexp.MustCompile(`(?i)(?:Patient|Name)\s*[:\-]\s*([A-Za-z ,.\-']{3,90})`)
	reDate  = regexp.MustCompile(`(\b\d{4}-\d{2}-\d{2}\b)|(\b\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}\b)`)
	rePhone = regexp.MustCompile(`(\+?\d{1,2}[\s\-.])?(\(?\d{3}\)?[\s\-.])?\d{3}[\s\-.]\d{4}`)

	rePage = regexp.MustCompile(`(?i)page\s+(\d+)`)
	reLine = regexp.MustCompile(`(?i)lines?\s+(\d+)(?:\s*-\s*(\d+))?`)
)

const maxCitations = 10

// Select computes the candidates for one document from its selection text.
func Select(text string, dt constants.DocType, lim Limits) Candidates {
	c := Candidates{CharCount: len(text)}

	if m := reName.FindStringSubmatch(text); m != nil {
		c.Name = strings.TrimSpace(m[1])
	}
	if m := reDate.FindString(text); m != "" {
		c.Date = m
	}
	if m := rePhone.FindString(text); m != "" {
		c.Phone = m
	}

	keep := keywordWindows(text, classify.Keywords(dt), lim.MaxLines)
	if len(keep) == 0 {
		keep = firstLines(text, lim.MaxLines)
	}
	c.Snippet = joinLinesTrunc(keep, lim.MaxChars)

	if dt == constants.DocTypeTranscript {
		c.Citations = citations(text)
	}
	return c
}

// keywordWindows scans lines for lexicon hits; every hit contributes a
// window of up to 2 lines before and 2 after (blanks dropped), accumulated
// in document order until maxLines lines are kept.
func keywordWindows(text string, keys []string, maxLines int) []string {
	lines := splitTrimmed(text)
	var keep []string
	for i := range lines {
		low := strings.ToLower(lines[i])
		hit := false
		for _, k := range keys {
			if strings.Contains(low, k) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		start := 0
		if i >= 2 {
			start = i - 2
		}
		end := i + 3
		if end > len(lines) {
			end = len(lines)
		}
		for j := start; j < end; j++ {
			if lines[j] != "" {
				keep = append(keep, lines[j])
			}
			if len(keep) >= maxLines {
				return keep
			}
		}
	}
	return keep
}

// firstLines is the no-hit fallback: the first maxLines non-empty lines.
func firstLines(text string, maxLines int) []string {
	var keep []string
	for _, l := range splitTrimmed(text) {
		if l == "" {
			continue
		}
		keep = append(keep, l)
		if len(keep) >= maxLines {
			break
		}
	}
	return keep
}

// joinLinesTrunc joins whole lines while they fit the character budget,
// then hard-truncates. Not word-boundary aware.
func joinLinesTrunc(lines []string, maxChars int) string {
	var b strings.Builder
	for _, l := range lines {
		if b.Len()+len(l)+1 > maxChars {
			break
		}
		b.WriteString(l)
		b.WriteString("\n")
	}
	s := b.String()
	if len(s) > maxChars {
		s = s[:maxChars]
	}
	return s
}

// citations collects up to 10 (page, line-range, quote) tuples, carrying the
// most recently seen page marker forward.
func citations(text string) []Citation {
	var cites []Citation
	curPage := -1
	for _, line := range strings.Split(text, "\n") {
		if m := rePage.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				curPage = n
			}
		}
		if m := reLine.FindString(line); m != "" {
			page := curPage
			if page < 0 {
				page = 0
			}
			cites = append(cites, Citation{
				Page: page,
				Line: m,
				Text: strings.TrimSpace(line),
			})
			if len(cites) >= maxCitations {
				break
			}
		}
	}
	return cites
}

// SelectionText builds the text candidates are derived from: trimmed
// non-empty lines in page order, at most 2*maxLines of them, joined up to
// 4000 characters. Falls back to the first page when nothing survives.
func SelectionText(pageTexts []string, maxLines int) string {
	budget := maxLines * 2
	var lines []string
	for _, t := range pageTexts {
		for _, l := range strings.Split(t, "\n") {
			l = strings.TrimSpace(l)
			if l != "" {
				lines = append(lines, l)
			}
			if len(lines) >= budget {
				break
			}
		}
		if len(lines) >= budget {
			break
		}
	}
	var b strings.Builder
	for _, l := range lines {
		if b.Len()+len(l)+1 > 4000 {
			break
		}
		b.WriteString(l)
		b.WriteString("\n")
	}
	if b.Len() == 0 && len(pageTexts) > 0 {
		// nothing fit the line join (e.g. one enormous unbroken line):
		// hand the first page over, hard-capped
		s := pageTexts[0]
		if len(s) > 4000 {
			s = s[:4000]
		}
		return s
	}
	return b.String()
}

func splitTrimmed(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, len(raw))
	for i, l := range raw {
		out[i] = strings.TrimSpace(l)
	}
	return out
}
