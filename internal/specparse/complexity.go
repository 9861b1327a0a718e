package specparse

import (
	"regexp"
	"strings"
)

// Complexity is a rough size/effort estimate for a specification text.
type Complexity struct {
	WordCount    int     `json:"word_count"`
	LineCount    int     `json:"line_count"`
	SectionCount int     `json:"section_count"`
	KeywordCount int     `json:"keyword_count"`
	Score        float64 `json:"score"`
	Level        string  `json:"level"`
}

// Complexity levels, bucketed by fixed score thresholds.
const (
	LevelSimple      = "Simple"
	LevelModerate    = "Moderate"
	LevelComplex     = "Complex"
	LevelVeryComplex = "Very Complex"
)

// designKeywords are the terms counted toward the complexity keyword score.
var designKeywords = []string{
	"module", "interface", "protocol", "clock", "reset",
	"register", "signal", "input", "output", "frequency",
	"AXI", "AHB", "APB", "UART", "SPI", "I2C",
}

// Section headings: markdown-style "# ..." or numbered "1. ..." lines.
var sectionPattern = regexp.MustCompile(`(?m)^\s*(#{1,6}\s+\S|\d+\.\s+\S)`)

// EstimateComplexity computes word/line/section/keyword counts and derives
// a score: words/100 + 2*sections + 0.5*keywords. The thresholds are policy
// constants, not tuned values: <10 Simple, <25 Moderate, <50 Complex.
func EstimateComplexity(text string) Complexity {
	c := Complexity{
		WordCount: len(strings.Fields(text)),
	}
	if text != "" {
		c.LineCount = len(strings.Split(text, "\n"))
	}
	c.SectionCount = len(sectionPattern.FindAllString(text, -1))

	lower := strings.ToLower(text)
	for _, kw := range designKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			c.KeywordCount++
		}
	}

	c.Score = float64(c.WordCount)/100 + 2*float64(c.SectionCount) + 0.5*float64(c.KeywordCount)
	switch {
	case c.Score < 10:
		c.Level = LevelSimple
	case c.Score < 25:
		c.Level = LevelModerate
	case c.Score < 50:
		c.Level = LevelComplex
	default:
		c.Level = LevelVeryComplex
	}
	return c
}
