package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toxshield/internal/models"
)

func TestCache_PutGetRoundTrip(t *testing.T) {
	c := NewMemory()
	want := models.AnalysisResult{
		Label:      "toxic",
		Scores:     map[string]float64{"toxic": 0.92, "neutral": 0.05},
		Language:   "en",
		Highlights: []string{"hate", "stupid"},
	}

	require.NoError(t, c.Put(3, want))
	got, found, err := c.Get(3)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestCache_MissingTabIsNotFound(t *testing.T) {
	c := NewMemory()
	got, found, err := c.Get(42)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, models.AnalysisResult{}, got)
}

func TestCache_OverwriteIsLastWriteWins(t *testing.T) {
	c := NewMemory()
	require.NoError(t, c.Put(1, models.AnalysisResult{Label: "toxic", Scores: map[string]float64{"toxic": 0.9}}))
	require.NoError(t, c.Put(1, models.AnalysisResult{Label: "safe", Scores: map[string]float64{"safe": 0.9}}))

	got, _, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "safe", got.Label)
	assert.Equal(t, 1, c.Len())
}

func TestCache_DeleteRemovesEntry(t *testing.T) {
	c := NewMemory()
	require.NoError(t, c.Put(1, models.AnalysisResult{Label: "toxic", Scores: map[string]float64{}}))
	require.NoError(t, c.Put(2, models.AnalysisResult{Label: "safe", Scores: map[string]float64{}}))

	require.NoError(t, c.Delete(1))
	require.NoError(t, c.Delete(99))

	_, found, err := c.Get(1)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, []models.TabID{2}, c.Tabs())
}

func TestCache_NewResetsBackend(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set("tab:5", []byte(`{"label":"toxic"}`), 0))

	c, err := New(backend)
	require.NoError(t, err)

	_, found, err := c.Get(5)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_CorruptEntry(t *testing.T) {
	backend := NewMemoryBackend()
	c, err := New(backend)
	require.NoError(t, err)
	require.NoError(t, backend.Set("tab:1", []byte(`{`), 0))

	_, _, err = c.Get(1)
	assert.ErrorIs(t, err, ErrCorrupt)
}

type failingBackend struct{ *MemoryBackend }

var errBackend = errors.New("backend down")

func (failingBackend) Set(string, []byte, time.Duration) error { return errBackend }

func TestCache_BackendErrorsPropagate(t *testing.T) {
	c, err := New(failingBackend{NewMemoryBackend()})
	require.NoError(t, err)

	err = c.Put(1, models.AnalysisResult{Label: "x", Scores: map[string]float64{}})
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryBackend_ReturnsCopies(t *testing.T) {
	b := NewMemoryBackend()
	val := []byte("abc")
	require.NoError(t, b.Set("k", val, 0))
	val[0] = 'z'

	got, err := b.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}
