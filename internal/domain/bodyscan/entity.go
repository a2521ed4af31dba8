package bodyscan

import (
	"strings"
	"time"
)

// TimestampLayout is the time-of-day format used for history entries.
// The global timeline is ordered by comparing these strings.
const TimestampLayout = "15:04:05"

// Severity enum
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SeverityScore maps a severity to 0..3; anything unrecognized scores 0.
func SeverityScore(s Severity) int {
	switch strings.ToLower(string(s)) {
	case "high":
		return 3
	case "medium":
		return 2
	case "low":
		return 1
	default:
		return 0
	}
}

// Status enum
type Status string

const (
	StatusOptimal  Status = "optimal"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Trend enum
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
	TrendInitial   Trend = "initial"
)

// DetectedIssue is the live issue of an organ. At most one exists per organ.
type DetectedIssue struct {
	Organ       OrganID  `json:"organId"`
	Name        string   `json:"issueName"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Remedy      string   `json:"remedy"`
	Timestamp   string   `json:"timestamp"`
}

// HistoryEntry is one recorded diagnosis of an organ.
type HistoryEntry struct {
	Timestamp     string    `json:"timestamp"`
	RecordedAt    time.Time `json:"recordedAt"`
	Status        Status    `json:"status"`
	IssueName     string    `json:"issueName,omitempty"`
	SeverityScore int       `json:"severityScore"`
	Trend         Trend     `json:"trend"`
}

// TimelineEntry is a history entry tagged with its organ.
type TimelineEntry struct {
	Organ OrganID `json:"organId"`
	HistoryEntry
}

// OrganView is the read model of the organ detail panel.
type OrganView struct {
	Organ   OrganID        `json:"organId"`
	Name    string         `json:"name"`
	Issue   *DetectedIssue `json:"issue,omitempty"`
	History []HistoryEntry `json:"history"`
}

// OrganState summarizes one node for the body map sidebar.
type OrganState struct {
	Organ
	Scanned   bool   `json:"scanned"`
	Analyzing bool   `json:"analyzing"`
	Status    Status `json:"status,omitempty"`
}

// TrendFor compares score against the previous newest entry of the same organ.
func TrendFor(prev *HistoryEntry, score int) Trend {
	switch {
	case prev == nil:
		return TrendInitial
	case score < prev.SeverityScore:
		return TrendImproving
	case score > prev.SeverityScore:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// StatusFor derives the history status of a diagnosis.
func StatusFor(d Diagnosis) Status {
	if d.Healthy() {
		return StatusOptimal
	}
	if d.Severity == SeverityHigh {
		return StatusCritical
	}
	return StatusWarning
}
