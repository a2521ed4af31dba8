package bodyscan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Diagnosis is the JSON object the gateway is asked to return for an organ.
type Diagnosis struct {
	Issue       string   `json:"issue,omitempty" jsonschema:"description=Name of the detected condition; omit when the organ is optimal"`
	Severity    Severity `json:"severity,omitempty" jsonschema:"enum=none,enum=low,enum=medium,enum=high"`
	Description string   `json:"description,omitempty" jsonschema:"description=Short description of the finding"`
	Remedy      string   `json:"remedy,omitempty" jsonschema:"description=Quick home remedy"`
}

// Healthy reports whether the diagnosis carries no issue.
// A blank issue or severity "none" both mean healthy.
func (d Diagnosis) Healthy() bool {
	return strings.TrimSpace(d.Issue) == "" || d.Severity == SeverityNone
}

// ParseDiagnosis decodes a gateway response strictly. The payload must be a single
// JSON object (optionally inside one Markdown code fence) and, when present, severity
// must be none, low, medium or high. An issue without a usable severity is rejected.
func ParseDiagnosis(raw string) (Diagnosis, error) {
	body := stripFence(strings.TrimSpace(raw))
	if body == "" {
		return Diagnosis{}, fmt.Errorf("%w: empty response", ErrMalformedDiagnosis)
	}
	if body[0] != '{' {
		return Diagnosis{}, fmt.Errorf("%w: not a JSON object", ErrMalformedDiagnosis)
	}

	dec := json.NewDecoder(strings.NewReader(body))
	var d Diagnosis
	if err := dec.Decode(&d); err != nil {
		return Diagnosis{}, fmt.Errorf("%w: %v", ErrMalformedDiagnosis, err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return Diagnosis{}, fmt.Errorf("%w: trailing data after object", ErrMalformedDiagnosis)
	}

	d.Issue = strings.TrimSpace(d.Issue)
	d.Severity = Severity(strings.ToLower(strings.TrimSpace(string(d.Severity))))
	switch d.Severity {
	case SeverityNone, SeverityLow, SeverityMedium, SeverityHigh:
	case "":
		if d.Issue != "" {
			return Diagnosis{}, fmt.Errorf("%w: issue %q without severity", ErrMalformedDiagnosis, d.Issue)
		}
	default:
		return Diagnosis{}, fmt.Errorf("%w: unknown severity %q", ErrMalformedDiagnosis, d.Severity)
	}
	return d, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:] // drop the language tag line
	} else {
		return ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Outcome is the result of one gateway call: either a decoded diagnosis or a failure.
type Outcome struct {
	Diagnosis Diagnosis
	Err       error
}

func OutcomeOf(d Diagnosis, err error) Outcome {
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Diagnosis: d}
}

// Failure builds a failed outcome; it is recorded as a benign optimal result.
func Failure(err error) Outcome {
	if err == nil {
		err = errors.New("diagnosis failed")
	}
	return Outcome{Err: err}
}

func (o Outcome) Failed() bool { return o.Err != nil }

// Effective returns the diagnosis that is folded into the session.
func (o Outcome) Effective() Diagnosis {
	if o.Failed() {
		return Diagnosis{}
	}
	return o.Diagnosis
}
