package llm

import (
	"encoding/json"
	"strings"
)

const systemPrompt = "You extract structured data for legal and medical workflows. " +
	"Return only compact JSON matching the function schema, no extra text."

// BuildSystemPrompt returns the fixed system message.
func BuildSystemPrompt() string { return systemPrompt }

// BuildUserPrompt packages the type guess, the heuristic candidates and the
// bounded snippet. The snippet is re-capped here so a misconfigured caller
// can never blow the token budget.
func BuildUserPrompt(req ExtractRequest) string {
	snip := req.Snippet
	if req.MaxSnippetChars > 0 && len(snip) > req.MaxSnippetChars {
		snip = snip[:req.MaxSnippetChars]
	}
	cand, _ := json.Marshal(req.Candidates)

	var b strings.Builder
	b.WriteString("Document type guess: ")
	b.WriteString(req.DocType.String())
	b.WriteString(". Keep output minified JSON only.\n")
	b.Write(cand)
	b.WriteString("\n---\n")
	b.WriteString(snip)
	return b.String()
}
