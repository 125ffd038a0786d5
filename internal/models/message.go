package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageType tags a message exchanged between the observer, the coordinator
// and the panel. The set is closed.
type MessageType string

const (
	MsgResultReport          MessageType = "RESULT_REPORT"             // observer -> coordinator, cache write
	MsgGetLatestForActiveTab MessageType = "GET_LATEST_FOR_ACTIVE_TAB" // panel -> coordinator, cache read
	MsgRequestAnalyze        MessageType = "REQUEST_ANALYZE"           // observer -> coordinator, network call
	MsgRequestAnalyzeNow     MessageType = "REQUEST_ANALYZE_NOW"       // panel -> observer, forced pass
)

// Valid reports whether t belongs to the closed set of message types.
func (t MessageType) Valid() bool {
	switch t {
	case MsgResultReport, MsgGetLatestForActiveTab, MsgRequestAnalyze, MsgRequestAnalyzeNow:
		return true
	}
	return false
}

// Message is the wire form of a message: a type tag plus a type-specific payload.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AnalyzePayload carries raw page text for REQUEST_ANALYZE.
type AnalyzePayload struct {
	Text string `json:"text"`
}

// ResultReportPayload carries a completed result for RESULT_REPORT.
type ResultReportPayload struct {
	Result AnalysisResult `json:"result"`
}

// Ack is the empty acknowledgment returned for RESULT_REPORT.
type Ack struct {
	OK bool `json:"ok"`
}

// States of a LatestResponse.
const (
	LatestResult = "result" // a cached record exists
	LatestNone   = "none"   // the active tab has never completed an analysis
	LatestNoTab  = "no_tab" // the active tab could not be resolved
)

// LatestResponse answers GET_LATEST_FOR_ACTIVE_TAB.
type LatestResponse struct {
	State  string          `json:"state"`
	TabID  TabID           `json:"tab_id,omitempty"`
	Result *AnalysisResult `json:"result,omitempty"`
}

// States of a NowResponse.
const (
	NowResult   = "result"    // the pass ran; Result may still be a failure record
	NowTooShort = "too_short" // extracted text was below the threshold
)

// NowResponse answers REQUEST_ANALYZE_NOW.
type NowResponse struct {
	State  string          `json:"state"`
	Result *AnalysisResult `json:"result,omitempty"`
}

// PendingRequest describes one in-flight network attempt. It exists only for
// the duration of a single attempt.
type PendingRequest struct {
	ID       uuid.UUID
	Endpoint string
	Text     string
	Deadline time.Time
}
