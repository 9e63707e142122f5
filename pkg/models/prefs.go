package models

// Preferences defaults. AlertMinutesBefore defaults to 0, meaning alert at
// the meeting's actual start time.
const (
	DefaultLookaheadHours         = 24
	DefaultRefreshIntervalSeconds = 30
	DefaultAlertMinutesBefore     = 0
)

// Preferences is a read-only snapshot of the user's settings, taken once per
// refresh cycle. The core never mutates or persists it.
type Preferences struct {
	LookaheadHours          int              `json:"lookahead_hours"`
	RefreshIntervalSeconds  int              `json:"refresh_interval_seconds"`
	AlertMinutesBefore      int              `json:"alert_minutes_before"`
	ExcludedCalendarIDs     map[string]bool  `json:"excluded_calendar_ids"`
	FullScreenAlertsEnabled bool             `json:"full_screen_alerts_enabled"`
	LaunchAtLogin           bool             `json:"launch_at_login"`
	Sources                 []CalendarSource `json:"sources"`
}

// DefaultPreferences returns a snapshot with every field at its default.
func DefaultPreferences() Preferences {
	return Preferences{
		LookaheadHours:          DefaultLookaheadHours,
		RefreshIntervalSeconds:  DefaultRefreshIntervalSeconds,
		AlertMinutesBefore:      DefaultAlertMinutesBefore,
		ExcludedCalendarIDs:     map[string]bool{},
		FullScreenAlertsEnabled: true,
	}
}

// Normalize clamps out-of-range values back to safe defaults so a corrupt
// settings store can never break the refresh or alert cycle.
func (p *Preferences) Normalize() {
	if p.LookaheadHours <= 0 {
		p.LookaheadHours = DefaultLookaheadHours
	}
	if p.RefreshIntervalSeconds <= 0 {
		p.RefreshIntervalSeconds = DefaultRefreshIntervalSeconds
	}
	if p.AlertMinutesBefore < 0 {
		p.AlertMinutesBefore = DefaultAlertMinutesBefore
	}
	if p.ExcludedCalendarIDs == nil {
		p.ExcludedCalendarIDs = map[string]bool{}
	}
}

// Clone returns a deep copy. Snapshots cross goroutines: the worker's
// per-cycle read and the settings window's working copy must not share the
// exclusion map or the sources backing array with the live preferences.
func (p Preferences) Clone() Preferences {
	out := p
	if p.ExcludedCalendarIDs != nil {
		out.ExcludedCalendarIDs = make(map[string]bool, len(p.ExcludedCalendarIDs))
		for id, excluded := range p.ExcludedCalendarIDs {
			out.ExcludedCalendarIDs[id] = excluded
		}
	}
	if p.Sources != nil {
		out.Sources = append([]CalendarSource(nil), p.Sources...)
	}
	return out
}

// NeedsConfiguration returns true when no calendar source is set up yet.
func (p *Preferences) NeedsConfiguration() bool {
	return len(p.Sources) == 0
}
