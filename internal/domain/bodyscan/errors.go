package bodyscan

import "errors"

var (
	ErrUnknownOrgan = errors.New("unknown organ")
	ErrUnknownLayer = errors.New("unknown layer")

	// ErrDiagnosisInFlight is returned by Session.Begin while another organ holds the slot.
	ErrDiagnosisInFlight = errors.New("diagnosis already in flight")

	// ErrMalformedDiagnosis wraps every decode failure of a gateway response.
	ErrMalformedDiagnosis = errors.New("malformed diagnosis")
)
