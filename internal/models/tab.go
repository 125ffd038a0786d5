package models

import (
	"errors"
	"strconv"
)

// TabID identifies one open page view. Values are assigned by the host and
// are unique among open tabs.
type TabID int

// ErrInvalidTabID is returned when a tab identifier cannot be parsed.
var ErrInvalidTabID = errors.New("invalid tab id")

// ParseTabID parses the decimal form used in headers and route params.
func ParseTabID(s string) (TabID, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, ErrInvalidTabID
	}
	return TabID(n), nil
}

// String returns the decimal form of the id.
func (t TabID) String() string {
	return strconv.Itoa(int(t))
}

// Indicator is the visual state the presentation layer shows for a tab.
type Indicator string

const (
	IndicatorNone    Indicator = "none"    // no shield shown (non-web page)
	IndicatorActive  Indicator = "active"  // shield on, no verdict yet
	IndicatorFlagged Indicator = "flagged" // last verdict was toxic
	IndicatorClear   Indicator = "clear"   // last verdict was not toxic
)

// IndicatorFor maps a result to the indicator it should produce.
func IndicatorFor(r AnalysisResult) Indicator {
	if r.IsToxic() {
		return IndicatorFlagged
	}
	return IndicatorClear
}
