package models

import (
	"fmt"
	"net/url"
	"time"
)

const maxMenuBarTitleRunes = 20

// Meeting is a calendar event shaped for display: a countdown target with an
// optional joinable URL. All time-dependent methods take the clock as an
// argument so that display logic stays deterministic under test.
type Meeting struct {
	ID            string
	Title         string
	StartDate     time.Time
	EndDate       time.Time
	CalendarColor string
	CalendarName  string
	MeetingURL    *url.URL
}

// IsHappeningNow reports whether now falls inside the meeting, inclusive of
// both endpoints.
func (m *Meeting) IsHappeningNow(now time.Time) bool {
	return !now.Before(m.StartDate) && !now.After(m.EndDate)
}

// IsJustStarting reports whether the meeting started within the last minute.
// This is what makes a zero-lead alert fire on the poll that crosses the
// start time instead of being missed between polls.
func (m *Meeting) IsJustStarting(now time.Time) bool {
	since := now.Sub(m.StartDate)
	return since >= 0 && since < time.Minute
}

// CountdownString renders the time until the meeting starts in the compact
// form used by the tray headline: "Now", "Past", "<1m", "45m", "2h", "1h 30m".
func (m *Meeting) CountdownString(now time.Time) string {
	if m.IsHappeningNow(now) {
		return "Now"
	}
	until := m.StartDate.Sub(now)
	if until < 0 {
		return "Past"
	}
	if until < time.Minute {
		return "<1m"
	}
	minutes := int(until.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	rem := minutes % 60
	if rem == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, rem)
}

// TimeString formats the start time for display, e.g. "2:30 PM".
func (m *Meeting) TimeString() string {
	return m.StartDate.Format("3:04 PM")
}

// MenuBarTitle renders the countdown plus a title truncated to at most 20
// runes, so the tray headline never overflows. Truncation counts runes, not
// bytes, to keep multibyte titles intact.
func (m *Meeting) MenuBarTitle(now time.Time) string {
	title := m.Title
	if runes := []rune(title); len(runes) > maxMenuBarTitleRunes {
		title = string(runes[:maxMenuBarTitleRunes-3]) + "..."
	}
	return fmt.Sprintf("%s: %s", m.CountdownString(now), title)
}
