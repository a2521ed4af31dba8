package httpserver

import (
	"errors"
	"net/http"

	"github.com/bryanwahyu/vital360/internal/application/voicelog"
	"github.com/bryanwahyu/vital360/internal/domain/media"
	upload "github.com/bryanwahyu/vital360/internal/infra/media"
	"github.com/bryanwahyu/vital360/internal/middleware"
)

const maxUploadBytes = voicelog.MaxRecordingBytes + 1<<20

// POST /v1/media/failures
// Body: {"kind":"microphone","name":"NotAllowedError"}
func (r *Router) handleMediaFailure(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}
	if err := decodeJSON(w, req, &body); err != nil {
		return err
	}
	kind, err := media.ParseKind(body.Kind)
	if err != nil {
		return badRequest(err)
	}
	return writeJSON(w, http.StatusOK, media.Classify(kind, middleware.SanitizeString(body.Name)))
}

// POST /v1/visits/{visit}/scanner/capture
// Optional body: {"error":"NotAllowedError"} when the browser could not open the camera.
func (r *Router) handleScannerCapture(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	if req.ContentLength != 0 {
		var body struct {
			Error string `json:"error"`
		}
		if err := decodeJSON(w, req, &body); err != nil {
			return err
		}
		if body.Error != "" {
			return media.Classify(media.Camera, middleware.SanitizeString(body.Error))
		}
	}
	summary, err := r.Scanner.CaptureAndAnalyze(req.Context(), v)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, summary)
}

// POST /v1/visits/{visit}/voice-log
// multipart: audio=<clip> or error=<getUserMedia error name>
func (r *Router) handleVoiceLog(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)
	dev, err := upload.FromRequest(req, media.Microphone, 1<<20)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return voicelog.ErrTooLarge
		}
		return badRequest(err)
	}
	if mt := dev.MimeType(); mt != "" {
		if err := middleware.ValidateAudioType(mt); err != nil {
			return badRequest(err)
		}
	}

	rep, err := r.VoiceLog.Transcribe(req.Context(), v, dev)
	if err == nil || !errors.As(err, new(*media.Failure)) {
		middleware.IncrementTranscriptions(err != nil || rep.Failed)
	}
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rep)
}
