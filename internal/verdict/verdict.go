// Package verdict turns an analysis result into what the user sees: a
// category, a toxicity score, a tone and a readable language name.
package verdict

import (
	"fmt"
	"math"
	"strings"

	"toxshield/internal/models"
)

// Categories shown to the user.
const (
	CategorySafe    = "Safe"
	CategoryNeutral = "Neutral"
	CategoryToxic   = "Toxic"
	CategoryUnknown = "Unknown"
)

// Tones drive the colour scheme of the rendered verdict.
const (
	ToneSafe    = "safe"
	ToneWarning = "warning"
	ToneDanger  = "danger"
	ToneNeutral = "neutral"
)

// concernThreshold is the max(toxic, offensive) above which a neutral label
// is still shown as concerning.
const concernThreshold = 0.3

// Verdict is the presentation form of a successful result.
type Verdict struct {
	Category string                `json:"category"`
	Message  string                `json:"message"`
	Score    float64               `json:"score"` // toxicity in [0,1]
	Percent  int                   `json:"percent"`
	Tone     string                `json:"tone"`
	Icon     string                `json:"icon"`
	Language string                `json:"language"` // display name
	Result   models.AnalysisResult `json:"result"`
}

// Summarize maps a success record to its verdict.
func Summarize(r models.AnalysisResult) Verdict {
	r = r.Normalize()
	toxic := r.Score(models.LabelToxic)
	offensive := r.Score(models.LabelOffensive)
	worst := math.Max(toxic, offensive)

	v := Verdict{Result: r, Language: LanguageName(r.Language)}
	switch strings.ToLower(r.Label) {
	case models.LabelToxic:
		v.Score, v.Category, v.Message = toxic, CategoryToxic, "Toxic content detected!"
	case models.LabelOffensive:
		v.Score, v.Category, v.Message = offensive, CategoryToxic, "Offensive content detected!"
	case models.LabelNeutral, models.LabelSafe:
		v.Score = worst
		if worst > concernThreshold {
			v.Category, v.Message = CategoryNeutral, "Some concerning language detected"
		} else {
			v.Category, v.Message = CategorySafe, "Content appears clean"
		}
	default:
		v.Score, v.Category, v.Message = worst, CategoryUnknown, "Analysis complete"
	}

	v.Percent = int(math.Round(v.Score * 100))
	v.Tone, v.Icon = appearance(v.Category, v.Score)
	return v
}

// appearance picks tone and icon from the category, then lets the score
// override it at the extremes.
func appearance(category string, score float64) (string, string) {
	tone, icon := ToneNeutral, "🔍"
	switch category {
	case CategorySafe:
		tone, icon = ToneSafe, "✅"
	case CategoryNeutral:
		tone, icon = ToneWarning, "⚠️"
	case CategoryToxic:
		tone, icon = ToneDanger, "❌"
	}

	switch {
	case score >= 0.7:
		tone, icon = ToneDanger, "❌"
	case score >= 0.4:
		tone, icon = ToneWarning, "⚠️"
	case score < 0.2:
		tone, icon = ToneSafe, "✅"
	}
	return tone, icon
}

// Notification builds the short title/message pair shown after analyzing a
// selection. preview is cut to 50 runes.
func Notification(r models.AnalysisResult, text string) (title, message string) {
	if r.IsFailure() {
		return "❌ Analysis Failed", "Could not analyze selected text. Make sure the AI service is running."
	}

	v := Summarize(r)
	switch strings.ToLower(r.Label) {
	case models.LabelNeutral, models.LabelSafe:
		title = "✅ Content appears safe"
	case models.LabelOffensive:
		title = "⚠️ Potentially offensive content detected"
	case models.LabelToxic:
		title = "❌ Toxic content detected!"
	default:
		title = "🔍 Analysis complete"
	}

	preview := []rune(text)
	if len(preview) > 50 {
		preview = preview[:50]
	}
	return title, fmt.Sprintf("%q... - Toxicity: %d%%", string(preview), v.Percent)
}

var languages = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ru": "Russian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"ar": "Arabic",
	"mr": "Marathi",
	"bn": "Bengali",
	"ta": "Tamil",
	"te": "Telugu",
	"gu": "Gujarati",
	"kn": "Kannada",
	"pa": "Punjabi",

	models.LanguageUnknown: "Unknown",
}

// LanguageName returns the display name of a language code. Unlisted codes
// are shown upper-cased.
func LanguageName(code string) string {
	if code == "" {
		code = models.LanguageUnknown
	}
	if name, ok := languages[code]; ok {
		return name
	}
	return strings.ToUpper(code)
}
