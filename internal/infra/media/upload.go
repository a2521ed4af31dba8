// Package media adapts browser uploads to the capture contract: the browser records
// the clip and posts it, or posts the getUserMedia error it hit instead.
package media

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"

	domain "github.com/bryanwahyu/vital360/internal/domain/media"
)

const (
	FieldAudio = "audio"
	FieldError = "error"
)

// Upload is a media.Device backed by one multipart request.
type Upload struct {
	kind     domain.Kind
	body     io.ReadCloser
	mimeType string
	errName  string
}

// FromRequest reads the multipart form of r. The caller must have limited r.Body.
func FromRequest(r *http.Request, kind domain.Kind, maxMemory int64) (*Upload, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, err
	}
	u := &Upload{kind: kind, errName: strings.TrimSpace(r.FormValue(FieldError))}
	if u.errName != "" {
		return u, nil
	}
	f, h, err := r.FormFile(FieldAudio)
	if err != nil {
		return nil, err
	}
	u.body = f
	u.mimeType = h.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(u.mimeType); err == nil {
		u.mimeType = mt
	}
	return u, nil
}

func (u *Upload) Acquire(ctx context.Context, kind domain.Kind) (domain.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if u.errName != "" || u.body == nil {
		return nil, domain.Classify(kind, u.errName)
	}
	return &stream{ReadCloser: u.body, kind: kind, mimeType: u.mimeType}, nil
}

type stream struct {
	io.ReadCloser
	kind     domain.Kind
	mimeType string
}

func (s *stream) Kind() domain.Kind { return s.kind }
func (s *stream) MimeType() string  { return s.mimeType }

// MimeType of the uploaded clip; empty when the browser reported an error instead.
func (u *Upload) MimeType() string { return u.mimeType }
