// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"strings"

	"toxshield/internal/models"
)

// AnalyzerFunc adapts a function to classifier.Analyzer.
type AnalyzerFunc func(ctx context.Context, text string) models.AnalysisResult

// Analyze calls f.
func (f AnalyzerFunc) Analyze(ctx context.Context, text string) models.AnalysisResult {
	return f(ctx, text)
}

// ToxicResult is a typical record for hostile English text.
func ToxicResult() models.AnalysisResult {
	return models.AnalysisResult{Label: "toxic", Scores: map[string]float64{"toxic": 0.92}, Language: "en"}
}

// SafeResult is a typical record for harmless English text.
func SafeResult() models.AnalysisResult {
	return models.AnalysisResult{Label: "safe", Scores: map[string]float64{"safe": 0.98}, Language: "en"}
}

// KeywordAnalyzer answers ToxicResult for text containing keyword and
// SafeResult otherwise.
func KeywordAnalyzer(keyword string) AnalyzerFunc {
	return func(ctx context.Context, text string) models.AnalysisResult {
		if strings.Contains(strings.ToLower(text), keyword) {
			return ToxicResult()
		}
		return SafeResult()
	}
}

// FailingAnalyzer answers a failure record carrying msg.
func FailingAnalyzer(msg string) AnalyzerFunc {
	return func(ctx context.Context, text string) models.AnalysisResult {
		return models.FailedResult(msg)
	}
}
