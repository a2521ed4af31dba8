package prompt

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/bryanwahyu/vital360/internal/domain/bodyscan"
)

var (
	schemaOnce sync.Once
	schemaText string
)

// DiagnosisSchema returns the JSON schema of bodyscan.Diagnosis, indented.
func DiagnosisSchema() string {
	schemaOnce.Do(func() {
		r := jsonschema.Reflector{
			AllowAdditionalProperties: false,
			DoNotReference:            true,
		}
		b, err := json.MarshalIndent(r.Reflect(&bodyscan.Diagnosis{}), "", "  ")
		if err != nil {
			// reflect output is always marshalable
			panic(err)
		}
		schemaText = string(b)
	})
	return schemaText
}

// DiagnosisSystem gives strict directions and the result schema.
func DiagnosisSystem() string {
	return `You are the diagnostic engine of a biometric body-analysis dashboard. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- Use lowercase severity values: none, low, medium, high.
- When the organ is optimal, return {} or set severity to "none".
- When an issue is reported it must carry a severity.

Schema:
` + DiagnosisSchema()
}

// DiagnosisUser builds the per-organ request.
func DiagnosisUser(organ bodyscan.OrganID) string {
	return fmt.Sprintf(`Perform a mock diagnostic scan for the %s.
If it's the liver, suggest a mild fatty liver detection. Otherwise, suggest it's optimal.
Format: {"issue": "Name", "severity": "low/medium/high", "description": "Short description", "remedy": "Quick home remedy"}`, organ)
}
