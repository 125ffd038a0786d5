// Package coordinator is the long-lived process that owns the tab result
// cache, performs analyses and answers messages from observers and the panel.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"toxshield/internal/cache"
	"toxshield/internal/classifier"
	"toxshield/internal/metrics"
	"toxshield/internal/models"
	"toxshield/internal/router"
)

// Coordinator errors.
var (
	ErrNoOrigin   = errors.New("message requires an originating tab")
	ErrUnknownTab = errors.New("originating tab is not open")
)

// TabResolver resolves the active tab of the current window and reports
// which tabs are still open. ActiveTab may block.
type TabResolver interface {
	ActiveTab(ctx context.Context) (models.TabID, error)
	IsOpen(tab models.TabID) bool
}

// Presenter receives fire-and-forget indicator updates.
type Presenter interface {
	SetIndicator(tab models.TabID, ind models.Indicator)
}

// Coordinator wires the cache, the classifier and the router together.
type Coordinator struct {
	// mu orders cache writes against evictions so a closed tab is never
	// written back.
	mu sync.Mutex

	router    *router.Router
	cache     *cache.Cache
	analyzer  classifier.Analyzer
	tabs      TabResolver
	presenter Presenter
}

// New creates a coordinator and registers its message handlers.
func New(c *cache.Cache, analyzer classifier.Analyzer, tabs TabResolver, presenter Presenter) *Coordinator {
	co := &Coordinator{
		router:    router.New("coordinator"),
		cache:     c,
		analyzer:  analyzer,
		tabs:      tabs,
		presenter: presenter,
	}
	co.router.Handle(models.MsgResultReport, co.handleResultReport)
	co.router.Handle(models.MsgGetLatestForActiveTab, co.handleGetLatest)
	co.router.Handle(models.MsgRequestAnalyze, co.handleRequestAnalyze)
	return co
}

// Dispatch implements router.Dispatcher.
func (co *Coordinator) Dispatch(ctx context.Context, env router.Envelope) (any, error) {
	resp, err := co.router.Dispatch(ctx, env)
	metrics.RecordMessage(string(env.Type), err == nil)
	if err != nil {
		slog.Warn("message failed", "id", env.ID, "type", env.Type, "tab", env.Origin.Tab, "error", err)
	}
	return resp, err
}

// TabClosed evicts the cached result of a closed tab.
func (co *Coordinator) TabClosed(tab models.TabID) {
	co.mu.Lock()
	defer co.mu.Unlock()
	if err := co.cache.Delete(tab); err != nil {
		slog.Error("failed to evict closed tab", "tab", tab, "error", err)
	}
}

// Latest returns the cached result for tab.
func (co *Coordinator) Latest(tab models.TabID) (models.AnalysisResult, bool, error) {
	return co.cache.Get(tab)
}

// Analyzer exposes the classifier for one-off analyses that bypass the cache.
func (co *Coordinator) Analyzer() classifier.Analyzer {
	return co.analyzer
}

// record writes result for tab and updates the tab's indicator.
// record writes result for tab unless the tab has been closed, in which case
// it returns ErrUnknownTab.
func (co *Coordinator) record(tab models.TabID, result models.AnalysisResult) error {
	co.mu.Lock()
	defer co.mu.Unlock()
	if !co.tabs.IsOpen(tab) {
		return fmt.Errorf("%w: %s", ErrUnknownTab, tab)
	}
	if err := co.cache.Put(tab, result); err != nil {
		return err
	}
	co.presenter.SetIndicator(tab, models.IndicatorFor(result))
	return nil
}

func (co *Coordinator) handleResultReport(ctx context.Context, env router.Envelope) (any, error) {
	if !env.Origin.HasTab {
		return nil, fmt.Errorf("%w: %s", ErrNoOrigin, env.Type)
	}
	var p models.ResultReportPayload
	if err := env.Decode(&p); err != nil {
		return nil, err
	}
	if err := co.record(env.Origin.Tab, p.Result); err != nil {
		return nil, err
	}
	return models.Ack{OK: true}, nil
}

func (co *Coordinator) handleGetLatest(ctx context.Context, env router.Envelope) (any, error) {
	tab, err := co.tabs.ActiveTab(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		slog.Info("active tab lookup failed", "id", env.ID, "error", err)
		return models.LatestResponse{State: models.LatestNoTab}, nil
	}

	result, found, err := co.cache.Get(tab)
	if err != nil {
		return nil, err
	}
	if !found {
		return models.LatestResponse{State: models.LatestNone, TabID: tab}, nil
	}
	return models.LatestResponse{State: models.LatestResult, TabID: tab, Result: &result}, nil
}

// handleRequestAnalyze suspends for the whole network attempt, fallback
// included. Only successful results are written here, and only while the tab
// is still open and the requester still waiting; the answer is always the
// record, success or failure.
func (co *Coordinator) handleRequestAnalyze(ctx context.Context, env router.Envelope) (any, error) {
	if !env.Origin.HasTab {
		return nil, fmt.Errorf("%w: %s", ErrNoOrigin, env.Type)
	}
	var p models.AnalyzePayload
	if err := env.Decode(&p); err != nil {
		return nil, err
	}
	if !co.tabs.IsOpen(env.Origin.Tab) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTab, env.Origin.Tab)
	}

	result := co.analyzer.Analyze(ctx, p.Text)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !result.IsFailure() {
		err := co.record(env.Origin.Tab, result)
		switch {
		case errors.Is(err, ErrUnknownTab):
			slog.Debug("tab closed during analysis", "id", env.ID, "tab", env.Origin.Tab)
		case err != nil:
			slog.Error("failed to cache analysis", "id", env.ID, "tab", env.Origin.Tab, "error", err)
		}
	}
	return result, nil
}
