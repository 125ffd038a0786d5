package presenter

import (
	"testing"

	"toxshield/internal/models"
)

func TestBoard(t *testing.T) {
	b := NewBoard()

	if got := b.Indicator(1); got != models.IndicatorNone {
		t.Errorf("unset indicator = %q, want %q", got, models.IndicatorNone)
	}

	b.SetIndicator(1, models.IndicatorFlagged)
	b.SetIndicator(2, models.IndicatorClear)
	if got := b.Indicator(1); got != models.IndicatorFlagged {
		t.Errorf("tab 1 indicator = %q, want %q", got, models.IndicatorFlagged)
	}

	b.Forget(1)
	if got := b.Indicator(1); got != models.IndicatorNone {
		t.Errorf("forgotten indicator = %q, want %q", got, models.IndicatorNone)
	}
	if got := b.Indicator(2); got != models.IndicatorClear {
		t.Errorf("tab 2 indicator = %q, want %q", got, models.IndicatorClear)
	}
}
