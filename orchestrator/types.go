package orchestrator

import (
	"time"

	"github.com/maastricht-university/callsense/analyzer"
)

// Input names where the transcript comes from: raw text, or an audio file
// sent to the transcription service.
type Input struct {
	Transcript string
	AudioPath  string

	Employee      string
	Direction     string  // "incoming" or "outgoing"
	LengthSeconds float64 // 0 means: take it from the ASR segments

	Persist bool // write a session directory under paths.outputs
	Save    bool // store the call in the database
}

type Report struct {
	CallID         string                        `json:"call_id"`
	GeneratedAt    time.Time                     `json:"generated_at"`
	Employee       string                        `json:"employee,omitempty"`
	Direction      string                        `json:"direction"`
	LengthSeconds  float64                       `json:"length_seconds"`
	Transcript     string                        `json:"transcript"`
	SentimentLabel string                        `json:"sentiment_label"`
	Satisfaction   analyzer.Stat                 `json:"satisfaction"`
	Offensive      bool                          `json:"offensive_content"`
	Records        []analyzer.UtteranceRecord    `json:"records"`
	Insights       analyzer.ConversationInsights `json:"insights"`
	Trend          []analyzer.TrendPoint         `json:"sentiment_trend"`

	SessionDir string   `json:"session_dir,omitempty"`
	Charts     []string `json:"charts,omitempty"`
}
