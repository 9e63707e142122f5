// Package store persists user preferences through Fyne's preferences API.
package store

import (
	"encoding/json"

	"fyne.io/fyne/v2"

	"github.com/nostrapollo/next-meeting-menu-bar/pkg/models"
)

// PreferencesStore loads and saves the settings snapshot.
type PreferencesStore struct {
	app fyne.App
}

// NewPreferencesStore creates a PreferencesStore bound to the app.
func NewPreferencesStore(app fyne.App) *PreferencesStore {
	return &PreferencesStore{app: app}
}

// Load reads preferences, falling back to defaults and clamping anything
// out of range.
func (ps *PreferencesStore) Load() models.Preferences {
	prefs := ps.app.Preferences()

	p := models.Preferences{
		LookaheadHours:          prefs.IntWithFallback("lookahead_hours", models.DefaultLookaheadHours),
		RefreshIntervalSeconds:  prefs.IntWithFallback("refresh_interval_seconds", models.DefaultRefreshIntervalSeconds),
		AlertMinutesBefore:      prefs.IntWithFallback("alert_minutes_before", models.DefaultAlertMinutesBefore),
		FullScreenAlertsEnabled: prefs.BoolWithFallback("full_screen_alerts_enabled", true),
		LaunchAtLogin:           prefs.BoolWithFallback("launch_at_login", false),
		ExcludedCalendarIDs:     map[string]bool{},
	}

	for _, id := range prefs.StringList("excluded_calendar_ids") {
		p.ExcludedCalendarIDs[id] = true
	}

	// Sources are stored as a JSON blob
	if sourcesJSON := prefs.String("calendar_sources"); sourcesJSON != "" {
		if err := json.Unmarshal([]byte(sourcesJSON), &p.Sources); err != nil {
			p.Sources = []models.CalendarSource{}
		}
	}

	p.Normalize()
	return p
}

// Save writes the snapshot back.
func (ps *PreferencesStore) Save(p models.Preferences) {
	prefs := ps.app.Preferences()

	prefs.SetInt("lookahead_hours", p.LookaheadHours)
	prefs.SetInt("refresh_interval_seconds", p.RefreshIntervalSeconds)
	prefs.SetInt("alert_minutes_before", p.AlertMinutesBefore)
	prefs.SetBool("full_screen_alerts_enabled", p.FullScreenAlertsEnabled)
	prefs.SetBool("launch_at_login", p.LaunchAtLogin)

	excluded := make([]string, 0, len(p.ExcludedCalendarIDs))
	for id, isExcluded := range p.ExcludedCalendarIDs {
		if isExcluded {
			excluded = append(excluded, id)
		}
	}
	prefs.SetStringList("excluded_calendar_ids", excluded)

	if sourcesJSON, err := json.Marshal(p.Sources); err == nil {
		prefs.SetString("calendar_sources", string(sourcesJSON))
	}
}
