package specparse

import (
	"fmt"
	"strings"
)

// Report is the structural completeness check of a parsed specification.
// Valid is true iff Issues is empty.
type Report struct {
	Valid    bool     `json:"valid"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
	Score    int      `json:"score"`
}

// Validate checks a parsed specification for structural completeness.
// Empty parameter keys are rejected here rather than during parsing.
func Validate(spec Specification) Report {
	r := Report{Issues: []string{}, Warnings: []string{}}

	if len(strings.TrimSpace(spec.RawText)) < 10 {
		r.Issues = append(r.Issues, "specification text is too short to describe a design")
	}
	for _, key := range spec.ParameterKeys {
		if strings.TrimSpace(key) == "" {
			r.Issues = append(r.Issues, "parameter with empty key")
		}
	}
	if len(spec.Interfaces) == 0 {
		r.Warnings = append(r.Warnings, "no interface definitions found")
	}
	if len(spec.Protocols) == 0 {
		r.Warnings = append(r.Warnings, "no known protocol referenced")
	}
	if len(spec.Parameters) == 0 {
		r.Warnings = append(r.Warnings, "no parameters (key: value pairs) found")
	}

	r.Valid = len(r.Issues) == 0
	r.Score = 100 - 20*len(r.Issues) - 5*len(r.Warnings)
	if r.Score < 0 {
		r.Score = 0
	}
	return r
}

// stopwords excluded from module name derivation.
var nameStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "with": {}, "and": {}, "or": {}, "for": {},
	"of": {}, "to": {}, "in": {}, "on": {}, "that": {}, "this": {}, "is": {},
	"design": {}, "implement": {}, "create": {}, "generate": {},
}

// SuggestModuleName derives a plausible RTL module name from a specification
// text: the first recognized protocol plus the first couple of design
// keywords, joined with underscores.
func SuggestModuleName(text string) string {
	spec := Parse(text)

	var parts []string
	for _, p := range spec.Protocols {
		parts = append(parts, strings.ToLower(p))
		break
	}
	for _, kw := range ExtractKeywords(text) {
		if len(parts) >= 3 {
			break
		}
		dup := false
		for _, p := range parts {
			if p == kw {
				dup = true
				break
			}
		}
		if !dup {
			parts = append(parts, kw)
		}
	}
	if len(parts) == 0 {
		return "module_custom_design"
	}
	return fmt.Sprintf("module_%s", strings.Join(parts, "_"))
}

// ExtractKeywords returns the design keywords present in the text, in the
// fixed keyword-list order.
func ExtractKeywords(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, kw := range designKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			out = append(out, strings.ToLower(kw))
		}
	}
	return out
}
