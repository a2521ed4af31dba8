// Package media describes camera and microphone acquisition for the scanner and the
// voice symptom log.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Kind enum
type Kind string

const (
	Camera     Kind = "camera"
	Microphone Kind = "microphone"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Camera, Microphone:
		return k, nil
	}
	return "", fmt.Errorf("unknown media kind %q", s)
}

var (
	// ErrPermissionBlocked means the user or OS denied access to the device.
	ErrPermissionBlocked = errors.New("media permission blocked")
	// ErrDeviceUnavailable covers every other acquisition failure.
	ErrDeviceUnavailable = errors.New("media device unavailable")
)

// Stream is an acquired capture. Close stops every track.
type Stream interface {
	io.Reader
	Kind() Kind
	MimeType() string
	Close() error
}

// Device acquires streams. Implementations return ErrPermissionBlocked or
// ErrDeviceUnavailable (possibly wrapped) when acquisition fails.
type Device interface {
	Acquire(ctx context.Context, kind Kind) (Stream, error)
}

// Failure is an acquisition failure as shown to the user.
type Failure struct {
	Kind    Kind   `json:"kind"`
	Blocked bool   `json:"blocked"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
	Cause   error  `json:"-"`
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Cause)
	}
	return f.Message
}

func (f *Failure) Unwrap() []error {
	sentinel := ErrDeviceUnavailable
	if f.Blocked {
		sentinel = ErrPermissionBlocked
	}
	if f.Cause == nil {
		return []error{sentinel}
	}
	return []error{sentinel, f.Cause}
}

var messages = map[Kind][2]string{
	Microphone: {
		"Microphone access was dismissed or blocked. Please allow access to log symptoms via voice.",
		"Could not access microphone. Please check your audio settings.",
	},
	Camera: {
		"Camera access was dismissed or blocked. Please allow access to run the biometric scan.",
		"Could not access camera. Please check your video settings.",
	},
}

// blocked browser error names, as reported by getUserMedia
var blockedNames = map[string]bool{
	"notallowederror":          true,
	"permissiondismissederror": true,
	"permissiondeniederror":    true,
	"securityerror":            true,
}

// Classify turns a browser error name into a Failure. Both classes are retryable.
func Classify(kind Kind, name string) *Failure {
	name = strings.TrimSpace(name)
	var cause error
	if name != "" {
		cause = errors.New(name)
	}
	return newFailure(kind, blockedNames[strings.ToLower(name)], cause)
}

func newFailure(kind Kind, blocked bool, cause error) *Failure {
	msg := messages[kind]
	f := &Failure{Kind: kind, Blocked: blocked, Retry: true, Cause: cause, Message: msg[1]}
	if blocked {
		f.Message = msg[0]
	}
	return f
}

// AsFailure converts an acquisition error into a Failure, keeping existing ones.
func AsFailure(kind Kind, err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return newFailure(kind, errors.Is(err, ErrPermissionBlocked), err)
}

// Capture acquires a stream of kind, runs fn with it and releases it exactly once,
// whether fn returns, panics, or ctx is cancelled first.
// A cancelled ctx is returned as is, never as a device Failure.
func Capture(ctx context.Context, dev Device, kind Kind, fn func(Stream) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s, err := dev.Acquire(ctx, kind)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return AsFailure(kind, err)
	}

	var (
		once     sync.Once
		closeErr error
	)
	release := func() { once.Do(func() { closeErr = s.Close() }) }

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			release()
		case <-done:
		}
	}()

	defer func() {
		close(done)
		release()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("release %s: %w", kind, closeErr)
		}
	}()

	return fn(s)
}
