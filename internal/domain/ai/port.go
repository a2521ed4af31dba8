package ai

import (
	"context"
	"io"
)

// Prompt is a single request to the generative-language endpoint.
type Prompt struct {
	Model  string // empty uses the client default
	System string
	User   string
	JSON   bool // ask for a JSON object response
}

// Audio is a recorded clip handed to the transcription endpoint.
type Audio struct {
	Name     string
	MimeType string
	Data     io.Reader
}

type Client interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, a Audio) (string, error)
}
