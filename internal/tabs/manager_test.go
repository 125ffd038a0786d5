package tabs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toxshield/internal/cache"
	"toxshield/internal/classifier"
	"toxshield/internal/coordinator"
	"toxshield/internal/host"
	"toxshield/internal/models"
	"toxshield/internal/observer"
	"toxshield/internal/presenter"
)

type countingAnalyzer struct {
	mu    sync.Mutex
	texts []string
}

func (a *countingAnalyzer) Analyze(ctx context.Context, text string) models.AnalysisResult {
	a.mu.Lock()
	a.texts = append(a.texts, text)
	a.mu.Unlock()
	if text == "I hate this" {
		return models.AnalysisResult{Label: "toxic", Scores: map[string]float64{"toxic": 0.92}}
	}
	return models.AnalysisResult{Label: "safe", Scores: map[string]float64{"safe": 0.97}}
}

func (a *countingAnalyzer) seen() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.texts...)
}

func newManager(t *testing.T, delay time.Duration) (*Manager, *countingAnalyzer, *presenter.Board) {
	t.Helper()
	a := &countingAnalyzer{}
	m, board := newManagerWith(t, delay, a)
	return m, a, board
}

func newManagerWith(t *testing.T, delay time.Duration, a classifier.Analyzer) (*Manager, *presenter.Board) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := host.New()
	board := presenter.NewBoard()
	co := coordinator.New(cache.NewMemory(), a, h, board)
	return NewManager(ctx, h, co, board, observer.Config{SettleDelay: delay}, 0), board
}

// stallingService answers text containing "hate" as toxic at once and holds
// every other request until the caller gives up. Held texts are sent on
// arrived.
func stallingService(t *testing.T, arrived chan<- string) *httptest.Server {
	t.Helper()
	stop := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body models.AnalyzePayload
		_ = json.NewDecoder(r.Body).Decode(&body)
		if strings.Contains(body.Text, "hate") {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"label":"toxic","scores":{"toxic":0.92},"language":"en"}`))
			return
		}
		arrived <- body.Text
		select {
		case <-r.Context().Done():
		case <-stop:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(stop) })
	return srv
}

// notifyingAnalyzer reports each finished analysis on finished.
type notifyingAnalyzer struct {
	next     classifier.Analyzer
	finished chan models.AnalysisResult
}

func (a notifyingAnalyzer) Analyze(ctx context.Context, text string) models.AnalysisResult {
	result := a.next.Analyze(ctx, text)
	a.finished <- result
	return result
}

func newServiceManager(t *testing.T) (*Manager, *presenter.Board, chan string, chan models.AnalysisResult) {
	t.Helper()
	arrived := make(chan string, 4)
	finished := make(chan models.AnalysisResult, 4)
	srv := stallingService(t, arrived)
	a := notifyingAnalyzer{next: classifier.New([]string{srv.URL}, 5*time.Second), finished: finished}
	m, board := newManagerWith(t, 0, a)
	return m, board, arrived, finished
}

func waitForIndicator(t *testing.T, board *presenter.Board, id models.TabID, want models.Indicator) {
	t.Helper()
	assert.Eventually(t, func() bool { return board.Indicator(id) == want }, time.Second, 5*time.Millisecond)
}

func TestOpen_WebPageRunsAutomaticPass(t *testing.T) {
	m, a, board := newManager(t, 0)

	require.NoError(t, m.Open(1, "https://example.com", Content{HTML: "<p>I hate this</p><script>x()</script>"}))
	waitForIndicator(t, board, 1, models.IndicatorFlagged)

	assert.Equal(t, []string{"I hate this"}, a.seen())
	st, err := m.State(1)
	require.NoError(t, err)
	require.NotNil(t, st.Result)
	assert.Equal(t, "toxic", st.Result.Label)
}

func TestOpen_NonWebPageGetsNoObserver(t *testing.T) {
	m, a, board := newManager(t, 0)

	require.NoError(t, m.Open(2, "chrome://settings", Content{Text: "Settings page text"}))
	assert.Equal(t, models.IndicatorNone, board.Indicator(2))

	_, err := m.AnalyzeNow(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotWebPage)
	assert.Empty(t, a.seen())
}

func TestOpen_ShowsActiveBadgeUntilResult(t *testing.T) {
	m, _, board := newManager(t, time.Hour)

	require.NoError(t, m.Open(3, "https://example.com", Content{Text: "I hate this"}))
	assert.Equal(t, models.IndicatorActive, board.Indicator(3))

	assert.ErrorIs(t, m.Open(3, "https://example.com", Content{}), host.ErrTabExists)
}

func TestLoad_RestartsPass(t *testing.T) {
	m, a, board := newManager(t, 0)

	require.NoError(t, m.Open(4, "https://example.com", Content{Text: "a perfectly nice page"}))
	waitForIndicator(t, board, 4, models.IndicatorClear)

	require.NoError(t, m.Load(4, Content{Text: "I hate this"}))
	waitForIndicator(t, board, 4, models.IndicatorFlagged)
	assert.Equal(t, []string{"a perfectly nice page", "I hate this"}, a.seen())

	assert.ErrorIs(t, m.Load(99, Content{}), host.ErrTabNotFound)
}

func TestClose_EvictsResultAndBadge(t *testing.T) {
	m, _, board := newManager(t, 0)

	require.NoError(t, m.Open(5, "https://example.com", Content{Text: "I hate this"}))
	waitForIndicator(t, board, 5, models.IndicatorFlagged)

	require.NoError(t, m.Close(5))
	assert.Equal(t, models.IndicatorNone, board.Indicator(5))
	_, err := m.State(5)
	assert.ErrorIs(t, err, host.ErrTabNotFound)

	require.NoError(t, m.Open(5, "https://example.com", Content{Text: "x"}))
	st, err := m.State(5)
	require.NoError(t, err)
	assert.Nil(t, st.Result)
}

func TestClose_DuringAnalysisLeavesNoResult(t *testing.T) {
	m, board, arrived, finished := newServiceManager(t)

	require.NoError(t, m.Open(1, "https://example.com", Content{Text: "a long and friendly page"}))
	<-arrived
	require.NoError(t, m.Close(1))

	select {
	case result := <-finished:
		assert.True(t, result.IsFailure())
	case <-time.After(2 * time.Second):
		t.Fatal("analysis was not cancelled by close")
	}

	assert.Never(t, func() bool {
		_, found, _ := m.coordinator.Latest(1)
		return found
	}, 100*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, models.IndicatorNone, board.Indicator(1))
}

func TestLoad_DuringAnalysisKeepsNewerResult(t *testing.T) {
	m, board, arrived, finished := newServiceManager(t)

	require.NoError(t, m.Open(4, "https://example.com", Content{Text: "a long and friendly page"}))
	<-arrived

	require.NoError(t, m.Load(4, Content{Text: "I hate this"}))
	for range 2 {
		select {
		case <-finished:
		case <-time.After(2 * time.Second):
			t.Fatal("analyses did not finish")
		}
	}
	waitForIndicator(t, board, 4, models.IndicatorFlagged)

	assert.Never(t, func() bool {
		result, found, _ := m.coordinator.Latest(4)
		return !found || result.IsFailure()
	}, 100*time.Millisecond, 5*time.Millisecond)
	st, err := m.State(4)
	require.NoError(t, err)
	require.NotNil(t, st.Result)
	assert.Equal(t, "toxic", st.Result.Label)
}

func TestAnalyzeNowAndList(t *testing.T) {
	m, _, _ := newManager(t, time.Hour)

	require.NoError(t, m.Open(6, "https://example.com", Content{Text: "I hate this"}))
	require.NoError(t, m.Open(7, "https://example.org", Content{Text: "ok"}))
	require.NoError(t, m.Activate(7))

	resp, err := m.AnalyzeNow(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, models.NowResult, resp.State)

	resp, err = m.AnalyzeNow(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, models.NowTooShort, resp.State)

	list, err := m.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.TabID(6), list[0].Info.ID)
	assert.NotNil(t, list[0].Result)
	assert.True(t, list[1].Info.Active)
	assert.Nil(t, list[1].Result)
}
