// Package visit holds the per-visit state: one page load of the dashboard.
// Nothing here outlives the process.
package visit

import (
	"sync"
	"time"

	"github.com/bryanwahyu/vital360/internal/domain/bodyscan"
	"github.com/bryanwahyu/vital360/internal/domain/panels"
	"github.com/bryanwahyu/vital360/internal/domain/profile"
	"github.com/bryanwahyu/vital360/internal/domain/shell"
)

type Visit struct {
	ID        string
	CreatedAt time.Time

	Shell   *shell.Shell
	Scan    *bodyscan.Session
	Checkup *panels.Checklist
	Events  *Broker

	mu       sync.RWMutex
	lastSeen time.Time
	profile  *profile.Profile
	summary  *panels.ScanSummary
}

func newVisit(id string, now time.Time, bound int) *Visit {
	return &Visit{
		ID:        id,
		CreatedAt: now,
		Shell:     shell.New(),
		Scan:      bodyscan.NewSession(bound),
		Checkup:   panels.NewChecklist(),
		Events:    NewBroker(),
		lastSeen:  now,
	}
}

// Profile returns the onboarding profile, if completed.
func (v *Visit) Profile() (profile.Profile, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.profile == nil {
		return profile.Profile{}, false
	}
	return *v.profile, true
}

// SetProfile stores p once; a second call fails with ErrProfileExists.
func (v *Visit) SetProfile(p profile.Profile) (profile.Profile, error) {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return profile.Profile{}, err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.profile != nil {
		return profile.Profile{}, profile.ErrProfileExists
	}
	v.profile = &p
	return p, nil
}

func (v *Visit) Summary() *panels.ScanSummary {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.summary == nil {
		return nil
	}
	s := *v.summary
	return &s
}

func (v *Visit) SetSummary(s panels.ScanSummary) {
	v.mu.Lock()
	v.summary = &s
	v.mu.Unlock()
}

// SelectTab changes the active tab and publishes the change.
func (v *Visit) SelectTab(t shell.Tab, at time.Time) error {
	changed, err := v.Shell.Select(t)
	if err != nil {
		return err
	}
	if changed {
		v.Events.Publish(Event{Type: EventTabChanged, Tab: string(t), At: at})
	}
	return nil
}

// SelectOrgan focuses organ and publishes the selection.
func (v *Visit) SelectOrgan(organ bodyscan.OrganID, at time.Time) error {
	if err := v.Scan.Select(organ); err != nil {
		return err
	}
	v.Events.Publish(Event{Type: EventOrganSelected, Organ: organ, At: at})
	return nil
}

func (v *Visit) touch(now time.Time) {
	v.mu.Lock()
	if now.After(v.lastSeen) {
		v.lastSeen = now
	}
	v.mu.Unlock()
}

func (v *Visit) LastSeen() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastSeen
}
