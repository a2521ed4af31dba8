package middleware

import (
	"fmt"
	"mime"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Input validation and sanitization utilities

// ValidateVisitID checks that id is a canonical UUID as issued by the registry
func ValidateVisitID(id string) error {
	if id == "" {
		return fmt.Errorf("visit ID cannot be empty")
	}
	u, err := uuid.Parse(id)
	if err != nil || u.String() != strings.ToLower(id) {
		return fmt.Errorf("invalid visit ID format")
	}
	return nil
}

var audioTypes = map[string]bool{
	"audio/webm":  true,
	"audio/ogg":   true,
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/mpeg":  true,
	"audio/mp4":   true,
}

// ValidateAudioType accepts the recorder formats browsers produce
func ValidateAudioType(contentType string) error {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("invalid audio content type: %q", contentType)
	}
	if !audioTypes[mt] {
		return fmt.Errorf("unsupported audio type: %s", mt)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ParseTaskID parses a checkup task id from the path
func ParseTaskID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task ID: %q", s)
	}
	return id, nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
