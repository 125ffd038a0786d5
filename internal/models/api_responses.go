package models

import (
	"time"
)

// Envelope status values wrapping every JSON API response.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// TabStateResponse describes one tab for the JSON API.
type TabStateResponse struct {
	TabID     TabID           `json:"tab_id"`
	URL       string          `json:"url"`
	Active    bool            `json:"active"`
	Indicator Indicator       `json:"indicator"`
	Result    *AnalysisResult `json:"result,omitempty"`
}

// OpenTabRequest opens a tab in the host. Either HTML or Text provides the
// page content the observer extracts from.
type OpenTabRequest struct {
	ID   TabID  `json:"id"`
	URL  string `json:"url"`
	HTML string `json:"html,omitempty"`
	Text string `json:"text,omitempty"`
}

// ContentUpdateRequest replaces the content of an open tab.
type ContentUpdateRequest struct {
	HTML string `json:"html,omitempty"`
	Text string `json:"text,omitempty"`
}

// SelectionRequest asks for a one-off analysis of selected text.
type SelectionRequest struct {
	Text string `json:"text"`
}

// Notification is the summary shown after analyzing a selection.
type Notification struct {
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Result  AnalysisResult `json:"result"`
}

// EndpointHealthResponse reports the last probe of one classifier endpoint.
type EndpointHealthResponse struct {
	Endpoint  string     `json:"endpoint"`
	Status    string     `json:"status"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Endpoint health states.
const (
	HealthHealthy   = "healthy"
	HealthUnhealthy = "unhealthy"
	HealthUnknown   = "unknown"
)
