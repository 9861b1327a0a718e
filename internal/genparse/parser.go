// Package genparse parses the model's free-form output into a structured
// result according to the fixed textual protocol requested by the prompt:
// a "MODULE_NAME:" line, one fenced code block, and an "EXPLANATION:" line.
// The protocol is brittle by construction; deviations degrade to default
// field values, never a hard failure.
package genparse

import "strings"

// Result is the structured view of a generation response. Zero-value-safe:
// a malformed response yields DefaultModuleName and empty code, and
// downstream must treat empty code as a generation failure.
type Result struct {
	ModuleName  string `json:"module_name"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// DefaultModuleName is the sentinel used when the response omits the
// MODULE_NAME label.
const DefaultModuleName = "unknown_module"

const (
	moduleNameLabel  = "MODULE_NAME:"
	explanationLabel = "EXPLANATION:"
	fenceMarker      = "```"
)

// Parse scans the raw response left to right, once, with two states:
// scanning (looking for labels and the opening fence) and capturing
// (accumulating code lines verbatim until the closing fence). If the model
// emits multiple code blocks, only the first is kept; later blocks are
// silently dropped.
func Parse(raw string) Result {
	res := Result{ModuleName: DefaultModuleName}

	capturing := false
	codeDone := false
	var code []string
	for _, line := range strings.Split(raw, "\n") {
		switch {
		case capturing && strings.HasPrefix(line, fenceMarker):
			capturing = false
			codeDone = true
		case capturing:
			code = append(code, line)
		case strings.HasPrefix(line, moduleNameLabel):
			res.ModuleName = strings.TrimSpace(strings.TrimPrefix(line, moduleNameLabel))
		case strings.HasPrefix(line, explanationLabel):
			res.Explanation = strings.TrimSpace(strings.TrimPrefix(line, explanationLabel))
		case !codeDone && strings.HasPrefix(line, fenceMarker):
			capturing = true
		}
	}
	res.Code = strings.TrimSpace(strings.Join(code, "\n"))
	return res
}

// Format renders a Result into the exact textual protocol Parse expects.
// It is the reference formatter: Parse(Format(r, tag)) == r as long as the
// code body contains no nested fence markers.
func Format(res Result, languageTag string) string {
	var b strings.Builder
	b.WriteString(moduleNameLabel + " " + res.ModuleName + "\n")
	b.WriteString("CODE:\n")
	b.WriteString(fenceMarker + languageTag + "\n")
	b.WriteString(res.Code)
	b.WriteString("\n" + fenceMarker + "\n")
	b.WriteString(explanationLabel + " " + res.Explanation + "\n")
	return b.String()
}
