// Package alert decides when a meeting should trigger a full-screen alert,
// and makes sure it never fires twice for the same occurrence.
package alert

import (
	"sync"
	"time"

	"github.com/nostrapollo/next-meeting-menu-bar/pkg/models"
)

// Engine holds the one-shot alerted-id record and the alert-offset policy.
// The alerted set lives in memory only and resets on relaunch.
type Engine struct {
	mu            sync.Mutex
	alerted       map[string]struct{}
	minutesBefore int
	enabled       bool
}

// New returns an Engine with full-screen alerts enabled and the lead time
// set to "at start".
func New() *Engine {
	return &Engine{
		alerted: make(map[string]struct{}),
		enabled: true,
	}
}

// SetMinutesBefore updates the alert lead time. 0 means alert at the actual
// start; negative values are clamped to 0.
func (e *Engine) SetMinutesBefore(minutes int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if minutes < 0 {
		minutes = 0
	}
	e.minutesBefore = minutes
}

// SetEnabled toggles full-screen alerts.
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = enabled
}

// Enabled reports whether full-screen alerts are on.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// MeetingToAlert scans the meeting list in order and returns the first
// meeting whose alert should fire now, or nil. With a zero lead time a
// meeting is eligible during the first minute after its start; with a lead
// time of N minutes it is eligible during the one-minute window ending
// exactly N minutes before its start. The window is one poll interval wide
// on purpose: checks run on a best-effort cadence of well under a minute.
func (e *Engine) MeetingToAlert(meetings []models.Meeting, now time.Time) *models.Meeting {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.enabled {
		return nil
	}

	for i := range meetings {
		m := meetings[i]
		if _, done := e.alerted[m.ID]; done {
			continue
		}

		if e.minutesBefore == 0 {
			if m.IsJustStarting(now) {
				return &m
			}
			continue
		}

		minutesUntil := m.StartDate.Sub(now).Minutes()
		if minutesUntil >= float64(e.minutesBefore-1) && minutesUntil <= float64(e.minutesBefore) {
			return &m
		}
	}

	return nil
}

// MarkAlerted records that the meeting's alert has fired. Idempotent. The
// caller must invoke this before showing the alert surface so a double
// trigger within one cycle is impossible.
func (e *Engine) MarkAlerted(m models.Meeting) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.alerted[m.ID] = struct{}{}
}

// Cleanup drops alerted ids for meetings no longer in the visible window.
// Run after every refresh: it bounds the record to currently visible
// meetings and lets a recurring event's next occurrence (a new id) alert.
func (e *Engine) Cleanup(currentIDs map[string]struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id := range e.alerted {
		if _, ok := currentIDs[id]; !ok {
			delete(e.alerted, id)
		}
	}
}

// AlertedCount returns the size of the alerted-id record.
func (e *Engine) AlertedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.alerted)
}
