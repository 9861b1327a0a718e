// Package rtlcheck runs lightweight static checks over generated RTL.
// Everything here is heuristic pattern counting, not semantic analysis:
// it stands in for a real synthesis/compilation toolchain behind a stable
// contract, so a future swap for an actual compiler is a drop-in
// replacement.
package rtlcheck

import (
	"fmt"
	"regexp"
	"strings"
)

// Report is the outcome of static validation. Valid is true iff Issues is
// empty; Score = max(0, 100 - 20*len(issues) - 5*len(warnings)).
type Report struct {
	Valid    bool     `json:"valid"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
	Score    int      `json:"score"`
}

var (
	moduleDeclPattern = regexp.MustCompile(`(?m)^\s*module\s+\w+`)
	endmodulePattern  = regexp.MustCompile(`(?m)^\s*endmodule\b`)
	alwaysPattern     = regexp.MustCompile(`(?m)\balways\b`)
	beginPattern      = regexp.MustCompile(`(?m)\bbegin\b`)
	assignPattern     = regexp.MustCompile(`(?m)^\s*assign\s+(\w+)(?:\s*\[[^\]]*\])?\s*=\s*(.+?);`)
)

// Validate checks structural completeness of RTL code.
func Validate(code string) Report {
	r := Report{Issues: []string{}, Warnings: []string{}}

	if !moduleDeclPattern.MatchString(code) {
		r.Issues = append(r.Issues, "missing module declaration")
	}
	if !endmodulePattern.MatchString(code) {
		r.Issues = append(r.Issues, "missing endmodule statement")
	}

	if len(alwaysPattern.FindAllString(code, -1)) > len(beginPattern.FindAllString(code, -1)) {
		r.Warnings = append(r.Warnings, "always block without begin/end")
	}
	for _, m := range assignPattern.FindAllStringSubmatch(code, -1) {
		target, rhs := m[1], m[2]
		if regexp.MustCompile(`\b` + regexp.QuoteMeta(target) + `\b`).MatchString(rhs) {
			r.Warnings = append(r.Warnings, fmt.Sprintf("potential combinational loop: %s", target))
		}
	}

	r.Valid = len(r.Issues) == 0
	r.Score = 100 - 20*len(r.Issues) - 5*len(r.Warnings)
	if r.Score < 0 {
		r.Score = 0
	}
	return r
}

// Metrics are raw structural counts over the code text.
type Metrics struct {
	TotalLines      int `json:"total_lines"`
	CodeLines       int `json:"code_lines"`
	CommentLines    int `json:"comment_lines"`
	BlankLines      int `json:"blank_lines"`
	AlwaysBlocks    int `json:"always_blocks"`
	AssignStmts     int `json:"assign_statements"`
	ModuleInstances int `json:"module_instances"`
}

// rtlKeywords excluded when spotting "type name (" instantiation shapes.
var rtlKeywords = map[string]struct{}{
	"module": {}, "endmodule": {}, "always": {}, "initial": {}, "assign": {},
	"if": {}, "else": {}, "case": {}, "for": {}, "while": {}, "begin": {},
	"end": {}, "wire": {}, "reg": {}, "input": {}, "output": {}, "inout": {},
	"parameter": {}, "localparam": {}, "function": {}, "task": {},
}

var instancePattern = regexp.MustCompile(`^\s*([A-Za-z_]\w*)\s+([A-Za-z_]\w*)\s*\(`)

// CountMetrics tallies line categories and structural element counts.
func CountMetrics(code string) Metrics {
	var m Metrics
	if code == "" {
		return m
	}
	lines := strings.Split(code, "\n")
	m.TotalLines = len(lines)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			m.BlankLines++
		case strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*"):
			m.CommentLines++
		default:
			m.CodeLines++
		}
		if im := instancePattern.FindStringSubmatch(line); im != nil {
			_, kw1 := rtlKeywords[im[1]]
			_, kw2 := rtlKeywords[im[2]]
			if !kw1 && !kw2 {
				m.ModuleInstances++
			}
		}
	}
	m.AlwaysBlocks = len(alwaysPattern.FindAllString(code, -1))
	m.AssignStmts = len(assignPattern.FindAllString(code, -1))
	return m
}
