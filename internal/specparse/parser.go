// Package specparse extracts structured hints from free-form hardware
// design specifications. Parsing is pure pattern matching: it never fails
// on arbitrary text, it only yields empty collections when nothing matches.
package specparse

import (
	"regexp"
	"strings"
)

// Specification is the structured view of a raw specification text.
// It is recomputed on every Parse call; nothing is cached.
type Specification struct {
	RawText       string            `json:"raw_text"`
	Interfaces    []string          `json:"interfaces"`
	Protocols     []string          `json:"protocols"`
	Parameters    map[string]string `json:"parameters"`
	ParameterKeys []string          `json:"parameter_keys"`
	Complexity    Complexity        `json:"complexity"`
}

// interfacePatterns are applied in fixed order; all matches are concatenated
// in scan order and duplicates are kept.
var interfacePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)interface\s*:\s*(.+)`),
	regexp.MustCompile(`(?i)port\s*:\s*(.+)`),
	regexp.MustCompile(`(?i)input\s+(\w+\s*\w*)\s*,\s*output`),
	regexp.MustCompile(`(?i)output\s+(\w+\s*\w*)\s*,\s*input`),
}

// protocolVocabulary is the closed set of recognized bus/IO protocols.
// Matches preserve vocabulary order, not occurrence order.
var protocolVocabulary = []string{"AXI", "AHB", "APB", "UART", "SPI", "I2C", "PCIe", "Ethernet"}

// ProtocolVocabulary returns a copy of the recognized protocol set, in
// matching order.
func ProtocolVocabulary() []string {
	return append([]string(nil), protocolVocabulary...)
}

var paramPattern = regexp.MustCompile(`(\w+)\s*[:=]\s*([^\n]+)`)

// Parse extracts interfaces, protocols, parameters and a complexity estimate
// from the given specification text.
func Parse(text string) Specification {
	spec := Specification{
		RawText:    text,
		Interfaces: []string{},
		Protocols:  []string{},
		Parameters: map[string]string{},
	}

	for _, pat := range interfacePatterns {
		for _, m := range pat.FindAllStringSubmatch(text, -1) {
			spec.Interfaces = append(spec.Interfaces, strings.TrimSpace(m[1]))
		}
	}

	lower := strings.ToLower(text)
	for _, proto := range protocolVocabulary {
		if strings.Contains(lower, strings.ToLower(proto)) {
			spec.Protocols = append(spec.Protocols, proto)
		}
	}

	for _, m := range paramPattern.FindAllStringSubmatch(text, -1) {
		key := strings.TrimSpace(m[1])
		value := strings.TrimSpace(m[2])
		if _, seen := spec.Parameters[key]; !seen {
			spec.ParameterKeys = append(spec.ParameterKeys, key)
		}
		// Last write wins on duplicate keys.
		spec.Parameters[key] = value
	}

	spec.Complexity = EstimateComplexity(text)
	return spec
}
