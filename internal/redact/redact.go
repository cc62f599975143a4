// Package redact masks PII-pattern substrings in a decoded JSON tree.
// Masking is irreversible: the original text is never retained.
package redact

import "regexp"

// rules apply in a fixed order to every string leaf. SSN runs before the
// phone pattern so partial overlaps resolve the same way every time.
var rules = []struct {
	re   *regexp.Regexp
	mask string
}{
	{regexp.MustCompile(`\b\d{3}[- ]?\d{2}[- ]?\d{4}\b`), "***-**-****"},
	{regexp.MustCompile(`(\+?\d{1,2}[\s\-.])?(\(?\d{3}\)?[\s\-.])?\d{3}[\s\-.]\d{4}`), "***-***-****"},
	{regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`), "***@***.***"},
}

// String rewrites one string through the full substitution sequence.
func String(s string) string {
	for _, r := range rules {
		s = r.re.ReplaceAllString(s, r.mask)
	}
	return s
}

// Tree walks a decoded JSON value structurally and rewrites every string
// leaf. Numbers, booleans and nulls pass through untouched. The input is
// returned rewritten in place where possible.
func Tree(v any) any {
	switch node := v.(type) {
	case string:
		return String(node)
	case []any:
		for i, el := range node {
			node[i] = Tree(el)
		}
		return node
	case map[string]any:
		for k, el := range node {
			node[k] = Tree(el)
		}
		return node
	default:
		return v
	}
}
