// Package host models the browser side of the system: which tabs are open,
// which one is active, and how to reach the observer running in a tab.
package host

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"

	"toxshield/internal/extract"
	"toxshield/internal/models"
	"toxshield/internal/router"
)

// Host errors.
var (
	ErrNoActiveTab = errors.New("no active tab")
	ErrTabNotFound = errors.New("tab not found")
	ErrTabExists   = errors.New("tab already open")
	ErrNoObserver  = errors.New("no observer attached to tab")
)

// TabInfo describes an open tab.
type TabInfo struct {
	ID     models.TabID
	URL    string
	Active bool
}

type tab struct {
	id       models.TabID
	url      string
	page     *extract.Page
	observer router.Dispatcher
	stop     func()
}

// Host is the tab registry.
type Host struct {
	mu        sync.RWMutex
	tabs      map[models.TabID]*tab
	active    models.TabID
	hasActive bool
	onClose   []func(models.TabID)
}

// New returns a host with no open tabs.
func New() *Host {
	return &Host{tabs: make(map[models.TabID]*tab)}
}

// OnClose registers fn to run after a tab is closed.
func (h *Host) OnClose(fn func(models.TabID)) {
	h.mu.Lock()
	h.onClose = append(h.onClose, fn)
	h.mu.Unlock()
}

// Open registers a new tab showing url with content page.
func (h *Host) Open(id models.TabID, url string, page *extract.Page) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.tabs[id]; exists {
		return ErrTabExists
	}
	h.tabs[id] = &tab{id: id, url: url, page: page}
	return nil
}

// Attach connects the observer running in tab, replacing and stopping any
// previous one. stop is called when the tab closes and may be nil.
func (h *Host) Attach(id models.TabID, observer router.Dispatcher, stop func()) error {
	h.mu.Lock()
	t, ok := h.tabs[id]
	if !ok {
		h.mu.Unlock()
		return ErrTabNotFound
	}
	prev := t.stop
	t.observer = observer
	t.stop = stop
	h.mu.Unlock()

	if prev != nil {
		prev()
	}
	return nil
}

// Activate makes id the active tab of the current window.
func (h *Host) Activate(id models.TabID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.tabs[id]; !ok {
		return ErrTabNotFound
	}
	h.active = id
	h.hasActive = true
	return nil
}

// Close removes a tab, stops its observer and runs the close hooks.
func (h *Host) Close(id models.TabID) error {
	h.mu.Lock()
	t, ok := h.tabs[id]
	if !ok {
		h.mu.Unlock()
		return ErrTabNotFound
	}
	delete(h.tabs, id)
	if h.hasActive && h.active == id {
		h.hasActive = false
		h.active = 0
	}
	hooks := append([]func(models.TabID){}, h.onClose...)
	h.mu.Unlock()

	if t.stop != nil {
		t.stop()
	}
	for _, fn := range hooks {
		fn(id)
	}
	log.Printf("Tab %s closed", id)
	return nil
}

// ActiveTab resolves the active tab of the current window.
func (h *Host) ActiveTab(ctx context.Context) (models.TabID, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.hasActive {
		return 0, ErrNoActiveTab
	}
	return h.active, nil
}

// Lookup returns information about one tab.
func (h *Host) Lookup(id models.TabID) (TabInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	t, ok := h.tabs[id]
	if !ok {
		return TabInfo{}, false
	}
	return TabInfo{ID: t.id, URL: t.url, Active: h.hasActive && h.active == id}, true
}

// IsOpen reports whether tab id is currently open.
func (h *Host) IsOpen(id models.TabID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.tabs[id]
	return ok
}

// Page returns the content holder of a tab.
func (h *Host) Page(id models.TabID) (*extract.Page, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	t, ok := h.tabs[id]
	if !ok {
		return nil, ErrTabNotFound
	}
	return t.page, nil
}

// Tabs lists open tabs in ascending id order.
func (h *Host) Tabs() []TabInfo {
	h.mu.RLock()
	out := make([]TabInfo, 0, len(h.tabs))
	for _, t := range h.tabs {
		out = append(out, TabInfo{ID: t.id, URL: t.url, Active: h.hasActive && h.active == t.id})
	}
	h.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TabLink returns a caller that delivers messages to the observer in tab.
func (h *Host) TabLink(id models.TabID) (router.Caller, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	t, ok := h.tabs[id]
	if !ok {
		return nil, ErrTabNotFound
	}
	if t.observer == nil {
		return nil, ErrNoObserver
	}
	return router.NewLink(t.observer, router.Origin{}), nil
}
