package bodyscan

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// DefaultHistoryBound is the number of entries kept per organ.
const DefaultHistoryBound = 10

// Session is the in-memory scan state of one body-analysis view.
//
// Invariants:
//   - an organ is scanned iff it has at least one history entry
//   - an organ has a live issue iff its newest entry is not optimal
//   - at most one organ is being diagnosed at a time
//
// Session is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	bound     int
	history   map[OrganID][]HistoryEntry
	issues    map[OrganID]DetectedIssue
	scanned   map[OrganID]struct{}
	analyzing OrganID
	focused   OrganID
	layer     Layer
}

// NewSession creates an empty session. A non-positive bound uses DefaultHistoryBound.
func NewSession(bound int) *Session {
	if bound <= 0 {
		bound = DefaultHistoryBound
	}
	return &Session{
		bound:   bound,
		history: make(map[OrganID][]HistoryEntry),
		issues:  make(map[OrganID]DetectedIssue),
		scanned: make(map[OrganID]struct{}),
		layer:   LayerCirculatory,
	}
}

func (s *Session) Bound() int { return s.bound }

// Begin claims the in-flight slot for organ and focuses it.
// Callers must pair a successful Begin with a deferred Finish.
func (s *Session) Begin(organ OrganID) error {
	if !organ.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownOrgan, organ)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analyzing != "" {
		return fmt.Errorf("%w: %s", ErrDiagnosisInFlight, s.analyzing)
	}
	s.analyzing = organ
	s.focused = organ
	return nil
}

// Finish releases the in-flight slot if organ holds it.
func (s *Session) Finish(organ OrganID) {
	s.mu.Lock()
	if s.analyzing == organ {
		s.analyzing = ""
	}
	s.mu.Unlock()
}

// Analyzing returns the organ holding the in-flight slot.
func (s *Session) Analyzing() (OrganID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analyzing, s.analyzing != ""
}

// Apply folds one gateway outcome into the session: it scores the result, derives the
// trend against the previous newest entry, prepends the entry (truncated to the bound),
// upserts or clears the live issue and marks the organ scanned.
func (s *Session) Apply(organ OrganID, o Outcome, at time.Time) (HistoryEntry, error) {
	if !organ.Valid() {
		return HistoryEntry{}, fmt.Errorf("%w: %q", ErrUnknownOrgan, organ)
	}

	d := o.Effective()
	healthy := d.Healthy()
	score := 0
	if !healthy {
		score = SeverityScore(d.Severity)
	}
	ts := at.Format(TimestampLayout)

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.history[organ]
	var last *HistoryEntry
	if len(prev) > 0 {
		last = &prev[0]
	}
	entry := HistoryEntry{
		Timestamp:     ts,
		RecordedAt:    at,
		Status:        StatusFor(d),
		SeverityScore: score,
		Trend:         TrendFor(last, score),
	}
	if !healthy {
		entry.IssueName = d.Issue
	}

	next := make([]HistoryEntry, 0, min(len(prev)+1, s.bound))
	next = append(next, entry)
	next = append(next, prev...)
	if len(next) > s.bound {
		next = next[:s.bound]
	}
	s.history[organ] = next

	if healthy {
		delete(s.issues, organ)
	} else {
		s.issues[organ] = DetectedIssue{
			Organ:       organ,
			Name:        d.Issue,
			Severity:    d.Severity,
			Description: d.Description,
			Remedy:      d.Remedy,
			Timestamp:   ts,
		}
	}
	s.scanned[organ] = struct{}{}
	return entry, nil
}

// Select focuses organ for the detail panel. It never triggers a diagnosis.
func (s *Session) Select(organ OrganID) error {
	if !organ.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownOrgan, organ)
	}
	s.mu.Lock()
	s.focused = organ
	s.mu.Unlock()
	return nil
}

// Focused returns the organ shown in the detail panel.
func (s *Session) Focused() (OrganID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focused, s.focused != ""
}

func (s *Session) Scanned(organ OrganID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.scanned[organ]
	return ok
}

// View returns the live issue and history of organ. It has no side effects.
func (s *Session) View(organ OrganID) (OrganView, error) {
	if !organ.Valid() {
		return OrganView{}, fmt.Errorf("%w: %q", ErrUnknownOrgan, organ)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := OrganView{
		Organ:   organ,
		Name:    organ.Name(),
		History: append([]HistoryEntry{}, s.history[organ]...),
	}
	if issue, ok := s.issues[organ]; ok {
		v.Issue = &issue
	}
	return v, nil
}

// Timeline merges every organ's history, tagged with the organ, newest first.
// Entries are ordered by their time-of-day string only; entries with equal
// timestamps keep canonical organ order and per-organ recency.
func (s *Session) Timeline() []TimelineEntry {
	s.mu.RLock()
	out := make([]TimelineEntry, 0, s.lenLocked())
	for _, o := range organs {
		for _, e := range s.history[o.ID] {
			out = append(out, TimelineEntry{Organ: o.ID, HistoryEntry: e})
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

func (s *Session) lenLocked() int {
	n := 0
	for _, h := range s.history {
		n += len(h)
	}
	return n
}

// Issues returns the live issues, most recently recorded first.
func (s *Session) Issues() []DetectedIssue {
	s.mu.RLock()
	out := make([]DetectedIssue, 0, len(s.issues))
	for _, o := range organs {
		if issue, ok := s.issues[o.ID]; ok {
			out = append(out, issue)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// Organs summarizes every node for the body map.
func (s *Session) Organs() []OrganState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]OrganState, 0, len(organs))
	for _, o := range organs {
		st := OrganState{Organ: o, Analyzing: s.analyzing == o.ID}
		if _, ok := s.scanned[o.ID]; ok {
			st.Scanned = true
		}
		if h := s.history[o.ID]; len(h) > 0 {
			st.Status = h[0].Status
		}
		out = append(out, st)
	}
	return out
}

func (s *Session) Layer() Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layer
}

func (s *Session) SetLayer(l Layer) error {
	parsed, err := ParseLayer(string(l))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.layer = parsed
	s.mu.Unlock()
	return nil
}
