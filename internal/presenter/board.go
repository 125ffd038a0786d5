// Package presenter keeps the visual indicator state of each tab.
package presenter

import (
	"log/slog"
	"sync"

	"toxshield/internal/models"
)

// Board records the indicator shown for every tab. Updates are
// fire-and-forget: they never fail and return nothing.
type Board struct {
	mu     sync.RWMutex
	badges map[models.TabID]models.Indicator
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{badges: make(map[models.TabID]models.Indicator)}
}

// SetIndicator marks tab with ind.
func (b *Board) SetIndicator(tab models.TabID, ind models.Indicator) {
	b.mu.Lock()
	b.badges[tab] = ind
	b.mu.Unlock()
	slog.Info("indicator updated", "tab", tab, "indicator", ind)
}

// Indicator returns the indicator for tab, IndicatorNone when unset.
func (b *Board) Indicator(tab models.TabID) models.Indicator {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if ind, ok := b.badges[tab]; ok {
		return ind
	}
	return models.IndicatorNone
}

// Forget drops the indicator for a closed tab.
func (b *Board) Forget(tab models.TabID) {
	b.mu.Lock()
	delete(b.badges, tab)
	b.mu.Unlock()
}
