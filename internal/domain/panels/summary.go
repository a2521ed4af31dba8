package panels

import "time"

// FallbackSummary is shown when the gateway cannot produce a scan summary.
const FallbackSummary = "Primary vitals established. Deep-tissue 3D mapping is now active. Please proceed to the touch-scan stage to identify localized anomalies."

// Vital is one reading of the biometric scan.
type Vital struct {
	Value  any    `json:"value"`
	Unit   string `json:"unit"`
	Status string `json:"status"`
}

// ScanSummary is the outcome of the master biometric scan.
type ScanSummary struct {
	Heart      Vital     `json:"heart"`
	Kidneys    Vital     `json:"kidneys"`
	External   Vital     `json:"external"`
	BodyScore  int       `json:"bodyScore"`
	Summary    string    `json:"summary"`
	Fallback   bool      `json:"fallback"`
	CapturedAt time.Time `json:"capturedAt"`
}

// BaselineSummary wraps summary text around the fixed baseline vitals.
// Blank text falls back to FallbackSummary.
func BaselineSummary(text string, at time.Time) ScanSummary {
	s := ScanSummary{
		Heart:      Vital{Value: 72, Unit: "BPM", Status: "normal"},
		Kidneys:    Vital{Value: "Optimal", Status: "normal"},
		External:   Vital{Value: "No anomalies", Status: "normal"},
		BodyScore:  88,
		Summary:    text,
		CapturedAt: at,
	}
	if s.Summary == "" {
		s.Summary = FallbackSummary
		s.Fallback = true
	}
	return s
}
