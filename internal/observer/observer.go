// Package observer runs inside a page: it extracts text, asks the
// coordinator for an analysis and reports the verdict back, once per page load
// and again whenever the panel asks for it.
package observer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"toxshield/internal/extract"
	"toxshield/internal/models"
	"toxshield/internal/router"
)

// Defaults for the automatic pass.
const (
	DefaultSettleDelay   = 2 * time.Second
	DefaultMinTextLength = 5
)

// ErrTextTooShort means the page did not yield enough text to analyze.
var ErrTextTooShort = errors.New("extracted text too short to analyze")

// Config tunes an observer.
type Config struct {
	SettleDelay   time.Duration
	MinTextLength int
}

// Observer is the per-tab pipeline.
type Observer struct {
	tab         models.TabID
	extractor   extract.Extractor
	coordinator router.Caller
	settleDelay time.Duration
	minLength   int
	router      *router.Router
}

// New creates the observer for tab. coordinator must deliver messages with
// this tab as their origin.
func New(tab models.TabID, extractor extract.Extractor, coordinator router.Caller, cfg Config) *Observer {
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 0
	}
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = DefaultMinTextLength
	}
	o := &Observer{
		tab:         tab,
		extractor:   extractor,
		coordinator: coordinator,
		settleDelay: cfg.SettleDelay,
		minLength:   cfg.MinTextLength,
		router:      router.New(fmt.Sprintf("observer-%s", tab)),
	}
	o.router.Handle(models.MsgRequestAnalyzeNow, o.handleAnalyzeNow)
	return o
}

// Dispatch implements router.Dispatcher for messages addressed to this tab.
func (o *Observer) Dispatch(ctx context.Context, env router.Envelope) (any, error) {
	return o.router.Dispatch(ctx, env)
}

// Start runs the automatic pass after the settle delay. Every failure is
// swallowed so browsing is never interrupted.
func (o *Observer) Start(ctx context.Context) {
	if o.settleDelay > 0 {
		timer := time.NewTimer(o.settleDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}

	result, err := o.run(ctx)
	switch {
	case errors.Is(err, ErrTextTooShort):
		slog.Debug("page skipped", "tab", o.tab, "reason", err)
	case err != nil:
		slog.Debug("automatic analysis failed", "tab", o.tab, "error", err)
	case result.IsFailure():
		slog.Debug("automatic analysis failed", "tab", o.tab, "error", result.Error)
	}
}

// AnalyzeNow runs the pipeline immediately.
func (o *Observer) AnalyzeNow(ctx context.Context) (models.AnalysisResult, error) {
	return o.run(ctx)
}

// run is the single-shot extract -> request -> report sequence.
func (o *Observer) run(ctx context.Context) (models.AnalysisResult, error) {
	text, err := o.extractor.Extract(ctx)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("extract text: %w", err)
	}
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < o.minLength {
		return models.AnalysisResult{}, ErrTextTooShort
	}

	var result models.AnalysisResult
	if err := o.coordinator.Call(ctx, models.MsgRequestAnalyze, models.AnalyzePayload{Text: text}, &result); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("request analysis: %w", err)
	}
	// A pass stopped by a reload or close must not report over its successor.
	if err := ctx.Err(); err != nil {
		return models.AnalysisResult{}, err
	}

	if err := o.coordinator.Call(ctx, models.MsgResultReport, models.ResultReportPayload{Result: result}, nil); err != nil {
		slog.Warn("result report failed", "tab", o.tab, "error", err)
	}
	return result, nil
}

func (o *Observer) handleAnalyzeNow(ctx context.Context, env router.Envelope) (any, error) {
	result, err := o.run(ctx)
	if errors.Is(err, ErrTextTooShort) {
		return models.NowResponse{State: models.NowTooShort}, nil
	}
	if err != nil {
		return nil, err
	}
	return models.NowResponse{State: models.NowResult, Result: &result}, nil
}
