// Package profile holds the onboarding profile collected once per visit.
package profile

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrInvalidProfile = errors.New("invalid profile")
	ErrProfileExists  = errors.New("profile already created")
)

const (
	DefaultGender = "Other"
	DefaultGoal   = "Longevity"
	maxNameLen    = 64
)

var (
	Goals   = []string{"Weight Loss", "Muscle Gain", "Longevity", "Mental Focus", "Disease Prevention"}
	Genders = []string{"Male", "Female", "Non-binary", "Prefer not to say"}
)

type Profile struct {
	Name   string `json:"name"`
	Age    string `json:"age"`
	Gender string `json:"gender"`
	Goal   string `json:"goal"`
}

// Normalize trims fields, strips control characters and fills defaults.
func (p Profile) Normalize() Profile {
	clean := func(s string) string {
		return strings.TrimSpace(strings.Map(func(r rune) rune {
			if unicode.IsControl(r) {
				return -1
			}
			return r
		}, s))
	}
	p.Name = clean(p.Name)
	p.Age = clean(p.Age)
	p.Gender = clean(p.Gender)
	p.Goal = clean(p.Goal)
	if p.Gender == "" {
		p.Gender = DefaultGender
	}
	if p.Goal == "" {
		p.Goal = DefaultGoal
	}
	return p
}

// Validate checks a normalized profile.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if len([]rune(p.Name)) > maxNameLen {
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidProfile, maxNameLen)
	}
	age, err := strconv.Atoi(p.Age)
	if err != nil || age < 1 || age > 130 {
		return fmt.Errorf("%w: age must be a number between 1 and 130", ErrInvalidProfile)
	}
	if p.Gender != DefaultGender && !slices.Contains(Genders, p.Gender) {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidProfile, p.Gender)
	}
	if !slices.Contains(Goals, p.Goal) {
		return fmt.Errorf("%w: unknown goal %q", ErrInvalidProfile, p.Goal)
	}
	return nil
}
