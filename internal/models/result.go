package models

import (
	"strings"
)

// Classifier labels with special meaning to the coordinator. The set is open:
// the service may return other labels and they pass through untouched.
const (
	LabelToxic     = "toxic"
	LabelOffensive = "offensive"
	LabelNeutral   = "neutral"
	LabelSafe      = "safe"
	LabelUnknown   = "unknown"
)

// LanguageUnknown is used when the service could not determine a language.
const LanguageUnknown = "unknown"

// AnalysisResult is the verdict record for one text submission.
// A record is either a success (Error empty, Scores set) or a failure
// (Error set, other fields meaningless).
type AnalysisResult struct {
	Label      string             `json:"label,omitempty"`
	Scores     map[string]float64 `json:"scores,omitempty"`
	Language   string             `json:"language,omitempty"`
	Highlights []string           `json:"highlights,omitempty"`
	Status     string             `json:"status,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// FailedResult builds a failure record carrying msg.
func FailedResult(msg string) AnalysisResult {
	if msg == "" {
		msg = "analysis failed"
	}
	return AnalysisResult{Error: msg}
}

// IsFailure reports whether the record represents a failure.
func (r AnalysisResult) IsFailure() bool {
	return r.Error != ""
}

// Normalize fills defaults on a success record and strips everything but the
// error from a failure record.
func (r AnalysisResult) Normalize() AnalysisResult {
	if r.IsFailure() {
		return AnalysisResult{Error: r.Error}
	}
	if r.Label == "" {
		r.Label = LabelUnknown
	}
	if r.Language == "" {
		r.Language = LanguageUnknown
	}
	return r
}

// Score returns the confidence for category, or 0 when absent.
func (r AnalysisResult) Score(category string) float64 {
	return r.Scores[category]
}

// IsToxic reports whether the label or the free-form status names a toxic
// category. Failure records are never toxic.
func (r AnalysisResult) IsToxic() bool {
	if r.IsFailure() {
		return false
	}
	switch strings.ToLower(r.Label) {
	case LabelToxic, LabelOffensive:
		return true
	}
	status := strings.ToLower(r.Status)
	return strings.Contains(status, LabelToxic) || strings.Contains(status, LabelOffensive)
}
