package specparse

import (
	"strings"
	"testing"
)

func TestParse_ProtocolsPreserveVocabularyOrder(t *testing.T) {
	spec := Parse("uses I2C for config, AXI for data, and a UART console")
	want := []string{"AXI", "UART", "I2C"}
	if len(spec.Protocols) != len(want) {
		t.Fatalf("protocols = %v, want %v", spec.Protocols, want)
	}
	for i, p := range want {
		if spec.Protocols[i] != p {
			t.Fatalf("protocols[%d] = %q, want %q", i, spec.Protocols[i], p)
		}
	}
}

func TestParse_NoProtocolVocabulary(t *testing.T) {
	spec := Parse("a counter that increments every cycle")
	if len(spec.Protocols) != 0 {
		t.Fatalf("expected no protocols, got %v", spec.Protocols)
	}
}

func TestParse_SingleProtocol(t *testing.T) {
	spec := Parse("simple spi master")
	if len(spec.Protocols) != 1 || spec.Protocols[0] != "SPI" {
		t.Fatalf("protocols = %v, want [SPI]", spec.Protocols)
	}
}

func TestParse_InterfaceLabels(t *testing.T) {
	text := "interface: axi4_lite slave\nport: irq_out\n"
	spec := Parse(text)
	if len(spec.Interfaces) != 2 {
		t.Fatalf("interfaces = %v, want 2 entries", spec.Interfaces)
	}
	if spec.Interfaces[0] != "axi4_lite slave" || spec.Interfaces[1] != "irq_out" {
		t.Fatalf("unexpected interfaces: %v", spec.Interfaces)
	}
}

func TestParse_InterfaceDuplicatesKept(t *testing.T) {
	text := "interface: clk\ninterface: clk\n"
	spec := Parse(text)
	if len(spec.Interfaces) != 2 {
		t.Fatalf("duplicates must be kept, got %v", spec.Interfaces)
	}
}

func TestParse_ParametersLastWriteWins(t *testing.T) {
	text := "width: 8\ndepth = 16\nwidth: 32\n"
	spec := Parse(text)
	if spec.Parameters["width"] != "32" {
		t.Fatalf("width = %q, want 32 (last write wins)", spec.Parameters["width"])
	}
	if spec.Parameters["depth"] != "16" {
		t.Fatalf("depth = %q, want 16", spec.Parameters["depth"])
	}
	if len(spec.ParameterKeys) != 2 || spec.ParameterKeys[0] != "width" {
		t.Fatalf("parameter keys = %v, want first-occurrence order", spec.ParameterKeys)
	}
}

func TestParse_ArbitraryTextNeverFails(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n\n", "!!!###$$$", strings.Repeat("x ", 5000)} {
		spec := Parse(text)
		if spec.Interfaces == nil || spec.Protocols == nil || spec.Parameters == nil {
			t.Fatalf("collections must be non-nil for input %q", text)
		}
	}
}

func TestParse_ScenarioAXISpec(t *testing.T) {
	spec := Parse("AXI interface with clock and reset, 100MHz, 8-bit data")
	if len(spec.Protocols) != 1 || spec.Protocols[0] != "AXI" {
		t.Fatalf("protocols = %v, want [AXI]", spec.Protocols)
	}
	c := spec.Complexity
	wantScore := float64(c.WordCount)/100 + 2*float64(c.SectionCount) + 0.5*float64(c.KeywordCount)
	if c.Score != wantScore {
		t.Fatalf("score = %v, want %v per formula", c.Score, wantScore)
	}
	if c.Level != LevelSimple {
		t.Fatalf("level = %q, want %q", c.Level, LevelSimple)
	}
}

// sectioned builds a text of n markdown headings. Each heading adds 2 to
// the score and 2 words, so the total is 2.02*n, which lets the cases below
// land on either side of each threshold.
func sectioned(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("# part\n")
	}
	return b.String()
}

func TestEstimateComplexity_Thresholds(t *testing.T) {
	cases := []struct {
		sections int
		level    string
	}{
		{0, LevelSimple},
		{4, LevelSimple},       // 8.08
		{5, LevelModerate},     // 10.1
		{12, LevelModerate},    // 24.24
		{13, LevelComplex},     // 26.26
		{24, LevelComplex},     // 48.48
		{25, LevelVeryComplex}, // 50.5
	}
	for _, tc := range cases {
		c := EstimateComplexity(sectioned(tc.sections))
		if c.SectionCount != tc.sections {
			t.Fatalf("sections = %d, want %d", c.SectionCount, tc.sections)
		}
		if c.Level != tc.level {
			t.Fatalf("level for %d sections (score %v) = %q, want %q", tc.sections, c.Score, c.Level, tc.level)
		}
	}
}

func TestEstimateComplexity_SectionAndKeywordCounts(t *testing.T) {
	c := EstimateComplexity("# Overview\n1. clock domain\ntwo. not a section\nAXI and SPI ports\n")
	if c.SectionCount != 2 {
		t.Fatalf("sections = %d, want 2 (heading and numbered item)", c.SectionCount)
	}
	// clock, AXI, SPI, plus "ports" is not a keyword.
	if c.KeywordCount != 3 {
		t.Fatalf("keywords = %d, want 3", c.KeywordCount)
	}
	want := float64(c.WordCount)/100 + 2*float64(c.SectionCount) + 0.5*float64(c.KeywordCount)
	if c.Score != want {
		t.Fatalf("score = %v, want %v", c.Score, want)
	}
}

func TestValidate_EmptySpec(t *testing.T) {
	r := Validate(Parse(""))
	if r.Valid {
		t.Fatalf("empty spec must be invalid")
	}
	if len(r.Issues) != 1 {
		t.Fatalf("issues = %v, want exactly one", r.Issues)
	}
}

func TestValidate_ScoreFormula(t *testing.T) {
	r := Validate(Parse("AXI interface\ninterface: s_axi\nwidth: 8\n"))
	want := 100 - 20*len(r.Issues) - 5*len(r.Warnings)
	if want < 0 {
		want = 0
	}
	if r.Score != want {
		t.Fatalf("score = %d, want %d", r.Score, want)
	}
	if r.Valid != (len(r.Issues) == 0) {
		t.Fatalf("valid must mirror empty issues")
	}
}

func TestSuggestModuleName(t *testing.T) {
	name := SuggestModuleName("UART transmitter with configurable baud clock")
	if !strings.HasPrefix(name, "module_uart") {
		t.Fatalf("name = %q, want module_uart prefix", name)
	}
	if SuggestModuleName("") != "module_custom_design" {
		t.Fatalf("empty spec should fall back to module_custom_design")
	}
}
