// Package panel is the query side shown to the user: it reads the cached
// result for the active tab and can force a fresh pass in that tab.
package panel

import (
	"context"
	"errors"
	"log/slog"

	"toxshield/internal/host"
	"toxshield/internal/models"
	"toxshield/internal/router"
	"toxshield/internal/verdict"
)

// State is what the panel currently shows.
type State string

const (
	ViewResult        State = "result"
	ViewNoResult      State = "no_result"
	ViewNoTab         State = "no_tab"
	ViewUnreachable   State = "unreachable"
	ViewNotAnalyzable State = "not_analyzable"
)

var headlines = map[State]string{
	ViewNoResult:      "No analysis yet for this page",
	ViewNoTab:         "Unable to access current tab",
	ViewUnreachable:   "Cannot connect to AI service. Make sure the backend is running.",
	ViewNotAnalyzable: "No text content found on this page",
}

// View is one rendering of the panel.
type View struct {
	State   State            `json:"state"`
	TabID   models.TabID     `json:"tab_id,omitempty"`
	Verdict *verdict.Verdict `json:"verdict,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Headline is the single line shown for non-result states.
func (v View) Headline() string {
	if v.State == ViewResult && v.Verdict != nil {
		return v.Verdict.Message
	}
	return headlines[v.State]
}

// Tabs resolves the active tab and reaches the observer inside it.
type Tabs interface {
	ActiveTab(ctx context.Context) (models.TabID, error)
	TabLink(id models.TabID) (router.Caller, error)
}

// Panel talks to the coordinator for cached results and to tabs for forced
// passes.
type Panel struct {
	coordinator router.Caller
	tabs        Tabs
}

// New creates a panel.
func New(coordinator router.Caller, tabs Tabs) *Panel {
	return &Panel{coordinator: coordinator, tabs: tabs}
}

// Open shows the last completed analysis of the active tab.
func (p *Panel) Open(ctx context.Context) View {
	var resp models.LatestResponse
	if err := p.coordinator.Call(ctx, models.MsgGetLatestForActiveTab, nil, &resp); err != nil {
		slog.Warn("latest result query failed", "error", err)
		return View{State: ViewUnreachable, Error: err.Error()}
	}

	switch resp.State {
	case models.LatestResult:
		if resp.Result == nil {
			return View{State: ViewNoResult, TabID: resp.TabID}
		}
		return fromResult(resp.TabID, *resp.Result)
	case models.LatestNone:
		return View{State: ViewNoResult, TabID: resp.TabID}
	default:
		return View{State: ViewNoTab}
	}
}

// Refresh forces the active tab's observer to analyze its page now.
func (p *Panel) Refresh(ctx context.Context) View {
	tab, err := p.tabs.ActiveTab(ctx)
	if err != nil {
		return View{State: ViewNoTab, Error: err.Error()}
	}
	link, err := p.tabs.TabLink(tab)
	if err != nil {
		return View{State: ViewNoTab, TabID: tab, Error: err.Error()}
	}

	var resp models.NowResponse
	if err := link.Call(ctx, models.MsgRequestAnalyzeNow, nil, &resp); err != nil {
		// The tab closed or has no observer: not a backend problem.
		if errors.Is(err, host.ErrTabNotFound) || errors.Is(err, host.ErrNoObserver) {
			return View{State: ViewNoTab, TabID: tab, Error: err.Error()}
		}
		slog.Warn("forced analysis failed", "tab", tab, "error", err)
		return View{State: ViewUnreachable, TabID: tab, Error: err.Error()}
	}
	if resp.State == models.NowTooShort || resp.Result == nil {
		return View{State: ViewNotAnalyzable, TabID: tab}
	}
	return fromResult(tab, *resp.Result)
}

func fromResult(tab models.TabID, r models.AnalysisResult) View {
	if r.IsFailure() {
		return View{State: ViewUnreachable, TabID: tab, Error: r.Error}
	}
	v := verdict.Summarize(r)
	return View{State: ViewResult, TabID: tab, Verdict: &v}
}

