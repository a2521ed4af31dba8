// Package aitest provides in-memory gateway stubs for tests.
package aitest

import (
	"context"
	"io"
	"sync"

	"github.com/bryanwahyu/vital360/internal/domain/ai"
	"github.com/bryanwahyu/vital360/internal/domain/audit"
)

// Client answers every prompt with Fn, or with Reply/Err when Fn is nil.
type Client struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	Fn      func(ctx context.Context, p ai.Prompt) (string, error)
	Prompts []ai.Prompt
}

func (c *Client) Complete(ctx context.Context, p ai.Prompt) (string, error) {
	c.mu.Lock()
	c.Prompts = append(c.Prompts, p)
	fn, reply, err := c.Fn, c.Reply, c.Err
	c.mu.Unlock()
	if fn != nil {
		return fn(ctx, p)
	}
	return reply, err
}

func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Prompts)
}

// Transcriber returns Text after draining the clip.
type Transcriber struct {
	Text  string
	Err   error
	Audio []byte
	Mime  string
}

func (t *Transcriber) Transcribe(_ context.Context, a ai.Audio) (string, error) {
	b, err := io.ReadAll(a.Data)
	if err != nil {
		return "", err
	}
	t.Audio, t.Mime = b, a.MimeType
	return t.Text, t.Err
}

// AuditRepo keeps records in memory.
type AuditRepo struct {
	mu      sync.Mutex
	Records []*audit.Record
}

func (r *AuditRepo) Save(_ context.Context, rec *audit.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.Records = append(r.Records, &cp)
	return nil
}

func (r *AuditRepo) ListByVisit(_ context.Context, visitID string, limit int) ([]*audit.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*audit.Record
	for i := len(r.Records) - 1; i >= 0; i-- {
		if r.Records[i].VisitID == visitID {
			out = append(out, r.Records[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *AuditRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Records)
}
