// Package prompt composes generation prompts. Builders are pure and
// deterministic: same inputs, same prompt. The instruction blocks mandate
// the labelled-section output shape that genparse understands; that fixed
// textual contract is the only channel between free-form generation and
// structured parsing, so any wording change here must stay in sync with
// the parser.
package prompt

import (
	"strings"
)

// Language tags used in the fenced code block the model is asked to emit.
const (
	LangVerilog       = "verilog"
	LangSystemVerilog = "systemverilog"
	LangVHDL          = "vhdl"
)

const rtlInstructions = `REQUIREMENTS:
1. Generate complete, synthesizable Verilog code
2. Focus on PPA optimization (Power, Performance, Area)
3. Include proper module declaration with ports
4. Implement efficient FSM if needed
5. Add comments for key functionality
6. Ensure code follows industry best practices

Please provide the response in this exact format:
MODULE_NAME: [module_name_here]
CODE:
` + "```verilog" + `
[verilog code here]
` + "```" + `
EXPLANATION: [brief explanation of the design]`

// BuildRTL assembles the RTL generation prompt from retrieved context
// snippets and the specification text. Context is newline-joined with no
// truncation; token budgets are a caller-level concern.
func BuildRTL(specText string, context []string) string {
	var b strings.Builder
	b.WriteString("You are an expert VLSI design engineer. Generate optimized, synthesizable Verilog RTL code based on the specification.\n\n")
	b.WriteString("CONTEXT FROM KNOWLEDGE BASE:\n")
	b.WriteString(strings.Join(context, "\n"))
	b.WriteString("\n\nSPECIFICATION:\n")
	b.WriteString(specText)
	b.WriteString("\n\n")
	b.WriteString(rtlInstructions)
	return b.String()
}

const testbenchInstructions = `Requirements:
1. Include proper clock generation and reset sequence
2. Add basic test cases covering normal operation
3. Include error injection tests if applicable
4. Add simple scoreboard/checker for basic functionality
5. Include waveform dump commands
6. Make it self-checking where possible

Please provide the response in this exact format:
MODULE_NAME: [testbench_module_name]
CODE:
` + "```systemverilog" + `
[testbench code here]
` + "```" + `
EXPLANATION: [brief explanation of the test strategy]`

// BuildTestbench assembles the verification prompt, seeded with previously
// generated RTL instead of a specification.
func BuildTestbench(moduleName, rtlCode string) string {
	var b strings.Builder
	b.WriteString("Generate a comprehensive SystemVerilog testbench for the following RTL module:\n\n")
	b.WriteString("MODULE: ")
	b.WriteString(moduleName)
	b.WriteString("\nCODE:\n")
	b.WriteString(rtlCode)
	b.WriteString("\n\n")
	b.WriteString(testbenchInstructions)
	return b.String()
}
