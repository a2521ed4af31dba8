package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/vital360/internal/domain/ai"
)

const maxTokens = 2048

const (
	DefaultModel              = "gemini-3-flash-preview"
	DefaultTranscriptionModel = openai.Whisper1
)

type Client struct {
	*openai.Client
	Model              string
	TranscriptionModel string
}

// NewClient talks to any OpenAI-compatible endpoint; baseURL empty uses api.openai.com.
func NewClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &Client{
		Client:             openai.NewClientWithConfig(cfg),
		Model:              DefaultModel,
		TranscriptionModel: DefaultTranscriptionModel,
	}
}

// NewTranscriber builds a client for speech-to-text on a Whisper host. It is a
// separate client because the chat endpoint may not serve /audio/transcriptions.
func NewTranscriber(apiKey, baseURL, model string, httpClient *http.Client) *Client {
	c := NewClient(apiKey, baseURL, httpClient)
	if model != "" {
		c.TranscriptionModel = model
	}
	return c
}

func (c *Client) Complete(ctx context.Context, p ai.Prompt) (string, error) {
	model := p.Model
	if model == "" {
		model = c.Model
	}
	req := openai.ChatCompletionRequest{Model: model}
	if p.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	if p.System != "" {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: p.System})
	}
	req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: p.User})

	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", mapError(err))
	}
	if len(resp.Choices) == 0 {
		return "", ai.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) Transcribe(ctx context.Context, a ai.Audio) (string, error) {
	name := a.Name
	if name == "" {
		name = "voice-log" + extensionFor(a.MimeType)
	}
	resp, err := c.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.TranscriptionModel,
		FilePath: name, // only used as the multipart file name when Reader is set
		Reader:   a.Data,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create transcription: %w", mapError(err))
	}
	return resp.Text, nil
}

func isReasoningModel(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

// mapError turns provider quota responses into ai.ErrQuotaExceeded.
func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", ai.ErrQuotaExceeded, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, reqErr.Err)
	}
	return err
}

func extensionFor(mime string) string {
	switch {
	case strings.Contains(mime, "webm"):
		return ".webm"
	case strings.Contains(mime, "ogg"):
		return ".ogg"
	case strings.Contains(mime, "wav"):
		return ".wav"
	case strings.Contains(mime, "mpeg"), strings.Contains(mime, "mp3"):
		return ".mp3"
	case strings.Contains(mime, "mp4"), strings.Contains(mime, "m4a"):
		return ".m4a"
	}
	return ".webm"
}
