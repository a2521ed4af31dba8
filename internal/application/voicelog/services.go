package voicelog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bryanwahyu/vital360/internal/application"
	appai "github.com/bryanwahyu/vital360/internal/application/ai"
	"github.com/bryanwahyu/vital360/internal/application/visit"
	"github.com/bryanwahyu/vital360/internal/domain/ai"
	"github.com/bryanwahyu/vital360/internal/domain/audit"
	"github.com/bryanwahyu/vital360/internal/domain/media"
	"github.com/bryanwahyu/vital360/internal/infra/ai/prompt"
)

// FailureText is shown when the recording could not be transcribed.
const FailureText = "Error transcribing audio log. Please try again."

// MaxRecordingBytes caps a single voice log.
const MaxRecordingBytes = 10 << 20

var (
	ErrEmptyRecording = errors.New("empty recording")
	ErrTooLarge       = errors.New("recording too large")
)

type Gateway interface {
	Complete(ctx context.Context, call appai.Call, p ai.Prompt) (string, error)
	Transcribe(ctx context.Context, call appai.Call, a ai.Audio) (string, error)
}

// Archive keeps raw recordings. Optional.
type Archive interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

type Service struct {
	Gateway Gateway
	Archive Archive
	Clock   application.Clock
	Model   string
}

type Report struct {
	Text       string `json:"text"`
	Transcript string `json:"transcript,omitempty"`
	Failed     bool   `json:"failed"`
	ArchiveURL string `json:"archiveUrl,omitempty"`
}

// Transcribe records one clip from the microphone of dev, transcribes it and
// formats it as a brief health report. Acquisition failures are returned as
// *media.Failure; transcription failures yield FailureText. Without a transcription
// endpoint it returns appai.ErrTranscriptionDisabled.
func (s *Service) Transcribe(ctx context.Context, v *visit.Visit, dev media.Device) (Report, error) {
	var (
		clip []byte
		mime string
	)
	err := media.Capture(ctx, dev, media.Microphone, func(st media.Stream) error {
		b, err := io.ReadAll(io.LimitReader(st, MaxRecordingBytes+1))
		if err != nil {
			return fmt.Errorf("read recording: %w", err)
		}
		clip, mime = b, st.MimeType()
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	if len(clip) == 0 {
		return Report{}, ErrEmptyRecording
	}
	if len(clip) > MaxRecordingBytes {
		return Report{}, ErrTooLarge
	}

	var rep Report
	if s.Archive != nil {
		key := fmt.Sprintf("%s/%d%s", v.ID, s.Clock.Now().UnixNano(), extension(mime))
		url, err := s.Archive.Put(ctx, key, bytes.NewReader(clip), int64(len(clip)), mime)
		if err != nil {
			// arsip gagal tidak menggagalkan transkripsi
			slog.WarnContext(ctx, "failed to archive voice log", "visit", v.ID, "err", err)
		} else {
			rep.ArchiveURL = url
		}
	}

	transcript, err := s.Gateway.Transcribe(ctx, appai.Call{VisitID: v.ID, Kind: audit.KindTranscription}, ai.Audio{
		Name:     "voice-log" + extension(mime),
		MimeType: mime,
		Data:     bytes.NewReader(clip),
	})
	if errors.Is(err, appai.ErrTranscriptionDisabled) {
		return Report{}, err
	}
	if err != nil {
		rep.Text, rep.Failed = FailureText, true
		return rep, nil
	}
	rep.Transcript = transcript

	report, err := s.Gateway.Complete(ctx, appai.Call{VisitID: v.ID, Kind: audit.KindVoiceReport}, ai.Prompt{
		Model:  s.Model,
		System: prompt.Scribe,
		User:   prompt.ScribeUser(transcript),
	})
	if err != nil {
		report = transcript
	}
	rep.Text = report
	return rep, nil
}

func extension(mime string) string {
	switch mime {
	case "audio/ogg":
		return ".ogg"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/mpeg":
		return ".mp3"
	case "audio/mp4":
		return ".m4a"
	}
	return ".webm"
}
