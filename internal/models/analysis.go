package models

import (
	"errors"
	"fmt"
	"strings"
)

// AnalysisMode selects the language and depth of the analysis report.
type AnalysisMode string

const (
	ModeSummaryPT   AnalysisMode = "summary-pt"
	ModeSummaryEN   AnalysisMode = "summary-en"
	ModeTechnicalPT AnalysisMode = "technical-pt"
	ModeTechnicalEN AnalysisMode = "technical-en"
)

// AnalysisModes lists every supported mode in display order.
var AnalysisModes = []AnalysisMode{ModeSummaryPT, ModeSummaryEN, ModeTechnicalPT, ModeTechnicalEN}

var ErrUnknownMode = errors.New("unknown analysis mode")

// ParseAnalysisMode validates a user supplied mode string.
func ParseAnalysisMode(s string) (AnalysisMode, error) {
	m := AnalysisMode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AnalysisModes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownMode, s)
}

// English reports whether the mode produces an English report.
func (m AnalysisMode) English() bool {
	return strings.HasSuffix(string(m), "-en")
}

// Technical reports whether the mode asks for the deep technical report.
func (m AnalysisMode) Technical() bool {
	return strings.HasPrefix(string(m), "technical-")
}

// Prompt is the fully composed input for one LLM call.
type Prompt struct {
	SystemRole string
	Body       string
}

// AnalysisReport is the outcome of one analysis flow.
type AnalysisReport struct {
	RunID       string
	Mode        AnalysisMode
	Markdown    string
	Document    ProjectStructureDocument
	Workspace   []string
	Provider    string
	Model       string
	PromptChars int
	Cancelled   bool
}
