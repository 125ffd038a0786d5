package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toxshield/internal/host"
	"toxshield/internal/models"
	"toxshield/internal/panel"
)

func writeOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "data": data})
}

func newCoordinator(t *testing.T, tabs []models.TabStateResponse) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/messages", func(w http.ResponseWriter, r *http.Request) {
		var msg models.Message
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil || msg.Type != models.MsgGetLatestForActiveTab || len(msg.Payload) != 0 {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": "unsupported"})
			return
		}
		writeOK(w, models.LatestResponse{
			State:  models.LatestResult,
			TabID:  4,
			Result: &models.AnalysisResult{Label: "toxic", Scores: map[string]float64{"toxic": 0.9}},
		})
	})
	mux.HandleFunc("GET /api/tabs", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, tabs)
	})
	mux.HandleFunc("POST /api/tabs/{id}/analyze-now", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "4":
			writeOK(w, models.NowResponse{State: models.NowTooShort})
		case "5":
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": "tab is not a web page"})
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": "tab not found"})
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", time.Second)
}

func TestCall_GetLatest(t *testing.T) {
	c := newCoordinator(t, nil)

	var resp models.LatestResponse
	require.NoError(t, c.Call(context.Background(), models.MsgGetLatestForActiveTab, nil, &resp))
	assert.Equal(t, models.LatestResult, resp.State)
	assert.Equal(t, models.TabID(4), resp.TabID)
}

func TestCall_ErrorEnvelope(t *testing.T) {
	c := newCoordinator(t, nil)
	err := c.Call(context.Background(), models.MsgRequestAnalyze, models.AnalyzePayload{Text: "x"}, nil)
	assert.ErrorIs(t, err, ErrRemote)
}

func TestActiveTab(t *testing.T) {
	c := newCoordinator(t, []models.TabStateResponse{{TabID: 2}, {TabID: 4, Active: true}})
	id, err := c.ActiveTab(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.TabID(4), id)

	none := newCoordinator(t, []models.TabStateResponse{{TabID: 2}})
	_, err = none.ActiveTab(context.Background())
	assert.ErrorIs(t, err, host.ErrNoActiveTab)
}

func TestPanelOverHTTP(t *testing.T) {
	c := newCoordinator(t, []models.TabStateResponse{{TabID: 4, Active: true}})
	p := panel.New(c, c)

	v := p.Open(context.Background())
	assert.Equal(t, panel.ViewResult, v.State)

	v = p.Refresh(context.Background())
	assert.Equal(t, panel.ViewNotAnalyzable, v.State)
}

func TestTabLink_TabErrors(t *testing.T) {
	c := newCoordinator(t, nil)

	tests := []struct {
		name string
		tab  models.TabID
		want error
	}{
		{"not a web page", 5, host.ErrNoObserver},
		{"closed tab", 9, host.ErrTabNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := c.TabLink(tt.tab)
			require.NoError(t, err)
			err = link.Call(context.Background(), models.MsgRequestAnalyzeNow, nil, &models.NowResponse{})
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrRemote)
		})
	}
}

func TestPanelRefresh_TabWithoutObserverIsNoTab(t *testing.T) {
	for _, id := range []models.TabID{5, 9} {
		c := newCoordinator(t, []models.TabStateResponse{{TabID: id, Active: true}})
		v := panel.New(c, c).Refresh(context.Background())
		assert.Equal(t, panel.ViewNoTab, v.State, "tab %s", id)
		assert.Equal(t, id, v.TabID)
	}
}

func TestUnreachableCoordinator(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := panel.New(New(url, time.Second), New(url, time.Second))
	assert.Equal(t, panel.ViewUnreachable, p.Open(context.Background()).State)
	assert.Equal(t, panel.ViewNoTab, p.Refresh(context.Background()).State)
}
