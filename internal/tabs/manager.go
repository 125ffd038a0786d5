// Package tabs drives the tab lifecycle: opening a page starts an observer
// in it, reloading restarts the pass, closing evicts everything the tab owned.
package tabs

import (
	"context"
	"errors"
	"log/slog"

	"toxshield/internal/coordinator"
	"toxshield/internal/extract"
	"toxshield/internal/host"
	"toxshield/internal/models"
	"toxshield/internal/observer"
	"toxshield/internal/presenter"
	"toxshield/internal/router"
	"toxshield/internal/validation"
)

// ErrNotWebPage is returned when an operation needs an observer but the tab
// shows a page observers cannot run in.
var ErrNotWebPage = errors.New("tab is not a web page")

// Content is the document loaded in a tab. HTML wins over Text when both
// are set.
type Content struct {
	HTML string
	Text string
}

// State is a tab as seen from outside.
type State struct {
	Info      host.TabInfo
	Indicator models.Indicator
	Result    *models.AnalysisResult
}

// Manager owns observers for the tabs of one host.
type Manager struct {
	base        context.Context
	host        *host.Host
	coordinator *coordinator.Coordinator
	board       *presenter.Board
	observer    observer.Config
	maxRunes    int
}

// NewManager wires close hooks so that closing a tab evicts its cached
// result and badge. Observers are cancelled when base is done.
func NewManager(base context.Context, h *host.Host, co *coordinator.Coordinator, board *presenter.Board, cfg observer.Config, maxRunes int) *Manager {
	h.OnClose(co.TabClosed)
	h.OnClose(board.Forget)
	return &Manager{
		base:        base,
		host:        h,
		coordinator: co,
		board:       board,
		observer:    cfg,
		maxRunes:    maxRunes,
	}
}

// Open registers a tab and, for web pages, starts its automatic pass.
func (m *Manager) Open(id models.TabID, url string, content Content) error {
	page := extract.NewPage(m.maxRunes)
	fill(page, content)
	if err := m.host.Open(id, url, page); err != nil {
		return err
	}

	if !validation.IsWebPage(url) {
		m.board.SetIndicator(id, models.IndicatorNone)
		return nil
	}
	m.board.SetIndicator(id, models.IndicatorActive)
	return m.startObserver(id, page)
}

// Load replaces the document of an open tab, like a reload or in-tab
// navigation, and restarts the automatic pass.
func (m *Manager) Load(id models.TabID, content Content) error {
	info, ok := m.host.Lookup(id)
	if !ok {
		return host.ErrTabNotFound
	}
	page, err := m.host.Page(id)
	if err != nil {
		return err
	}
	fill(page, content)

	if !validation.IsWebPage(info.URL) {
		return nil
	}
	m.board.SetIndicator(id, models.IndicatorActive)
	return m.startObserver(id, page)
}

func (m *Manager) startObserver(id models.TabID, page *extract.Page) error {
	obs := observer.New(id, page, router.NewLink(m.coordinator, router.FromTab(id)), m.observer)
	ctx, cancel := context.WithCancel(m.base)
	if err := m.host.Attach(id, obs, cancel); err != nil {
		cancel()
		return err
	}
	go obs.Start(ctx)
	slog.Debug("observer started", "tab", id)
	return nil
}

func fill(page *extract.Page, content Content) {
	if content.HTML != "" {
		page.SetHTML(content.HTML)
		return
	}
	page.SetText(content.Text)
}

// Activate focuses a tab.
func (m *Manager) Activate(id models.TabID) error {
	return m.host.Activate(id)
}

// Close closes a tab.
func (m *Manager) Close(id models.TabID) error {
	return m.host.Close(id)
}

// State describes one tab with its badge and cached result.
func (m *Manager) State(id models.TabID) (State, error) {
	info, ok := m.host.Lookup(id)
	if !ok {
		return State{}, host.ErrTabNotFound
	}
	return m.state(info)
}

// List describes every open tab.
func (m *Manager) List() ([]State, error) {
	infos := m.host.Tabs()
	out := make([]State, 0, len(infos))
	for _, info := range infos {
		st, err := m.state(info)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func (m *Manager) state(info host.TabInfo) (State, error) {
	st := State{Info: info, Indicator: m.board.Indicator(info.ID)}
	result, found, err := m.coordinator.Latest(info.ID)
	if err != nil {
		return State{}, err
	}
	if found {
		st.Result = &result
	}
	return st, nil
}

// AnalyzeNow asks the tab's observer for a forced pass.
func (m *Manager) AnalyzeNow(ctx context.Context, id models.TabID) (models.NowResponse, error) {
	link, err := m.host.TabLink(id)
	if err != nil {
		if errors.Is(err, host.ErrNoObserver) {
			return models.NowResponse{}, ErrNotWebPage
		}
		return models.NowResponse{}, err
	}
	var resp models.NowResponse
	err = link.Call(ctx, models.MsgRequestAnalyzeNow, nil, &resp)
	return resp, err
}
