package audit

import "time"

// Kind of gateway exchange
type Kind string

const (
	KindDiagnosis     Kind = "diagnosis"
	KindScanSummary   Kind = "scan_summary"
	KindTranscription Kind = "transcription"
	KindVoiceReport   Kind = "voice_report"
	KindInsight       Kind = "insight"
)

type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
)

// Record is one gateway exchange. Records are written for operators only and never
// feed back into a visit.
type Record struct {
	ID        string    `json:"id"`
	VisitID   string    `json:"visit_id"`
	Kind      Kind      `json:"kind"`
	Subject   string    `json:"subject,omitempty"` // organ id for diagnoses
	Outcome   Outcome   `json:"outcome"`
	Response  string    `json:"response,omitempty"`
	Error     string    `json:"error,omitempty"`
	LatencyMS int64     `json:"latency_ms"`
	CreatedAt time.Time `json:"created_at"`
}
