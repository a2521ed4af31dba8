// Package shell holds the navigation state of the single-page app.
package shell

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

type Tab string

const (
	TabDashboard       Tab = "dashboard"
	TabScanner         Tab = "scanner"
	TabBody            Tab = "body"
	TabRecommendations Tab = "recommendations"
	TabPersonality     Tab = "personality"
	TabCheckup         Tab = "checkup"
)

var ErrUnknownTab = errors.New("unknown tab")

// Entry is one navigation item.
type Entry struct {
	ID   Tab    `json:"id"`
	Name string `json:"name"`
}

var tabs = []Entry{
	{ID: TabDashboard, Name: "Health 360"},
	{ID: TabScanner, Name: "Biometric Scan"},
	{ID: TabBody, Name: "Body Analysis"},
	{ID: TabRecommendations, Name: "Remedies & Diet"},
	{ID: TabPersonality, Name: "Growth"},
	{ID: TabCheckup, Name: "Daily Check"},
}

// Tabs returns the navigation items in display order.
func Tabs() []Entry {
	out := make([]Entry, len(tabs))
	copy(out, tabs)
	return out
}

func ParseTab(s string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	for _, e := range tabs {
		if e.ID == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// Shell is the active-tab selector. Safe for concurrent use.
type Shell struct {
	mu     sync.RWMutex
	active Tab
}

func New() *Shell {
	return &Shell{active: TabDashboard}
}

func (s *Shell) Active() Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Select switches the active tab and reports whether it changed.
func (s *Shell) Select(t Tab) (bool, error) {
	parsed, err := ParseTab(string(t))
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.active != parsed
	s.active = parsed
	return changed, nil
}
