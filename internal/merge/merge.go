// Package merge combines model output with heuristic candidates. The model
// always wins; heuristics only fill fields the model omitted.
package merge

import (
	"github.com/joseph-ayodele/legal-intake/constants"
	"github.com/joseph-ayodele/legal-intake/internal/snippet"
)

// Fields merges heuristic candidates into a decoded model response.
// The map is mutated and returned.
func Fields(dt constants.DocType, cand snippet.Candidates, model map[string]any) map[string]any {
	if model == nil {
		model = map[string]any{}
	}
	if _, ok := model["snippets"]; !ok && cand.Snippet != "" {
		model["snippets"] = cand.Snippet
	}
	if cand.Name != "" {
		if _, ok := model["patient_name"]; !ok {
			model["patient_name"] = cand.Name
		}
		if _, ok := model["member"]; !ok {
			model["member"] = cand.Name
		}
	}
	if dt == constants.DocTypeTranscript && len(cand.Citations) > 0 {
		if _, ok := model["citations"]; !ok {
			cites := make([]any, 0, len(cand.Citations))
			for _, c := range cand.Citations {
				cites = append(cites, map[string]any{
					"page": c.Page,
					"line": c.Line,
					"text": c.Text,
				})
			}
			model["citations"] = cites
		}
	}
	return model
}
