package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeClampsInvalidValues(t *testing.T) {
	p := Preferences{
		LookaheadHours:         -3,
		RefreshIntervalSeconds: 0,
		AlertMinutesBefore:     -1,
	}
	p.Normalize()

	assert.Equal(t, DefaultLookaheadHours, p.LookaheadHours)
	assert.Equal(t, DefaultRefreshIntervalSeconds, p.RefreshIntervalSeconds)
	assert.Equal(t, DefaultAlertMinutesBefore, p.AlertMinutesBefore)
	assert.NotNil(t, p.ExcludedCalendarIDs)
}

func TestNormalizeKeepsValidValues(t *testing.T) {
	p := Preferences{
		LookaheadHours:         12,
		RefreshIntervalSeconds: 60,
		AlertMinutesBefore:     5,
		ExcludedCalendarIDs:    map[string]bool{"work": true},
	}
	p.Normalize()

	assert.Equal(t, 12, p.LookaheadHours)
	assert.Equal(t, 60, p.RefreshIntervalSeconds)
	assert.Equal(t, 5, p.AlertMinutesBefore)
	assert.True(t, p.ExcludedCalendarIDs["work"])
}

func TestCloneIsDeep(t *testing.T) {
	p := Preferences{
		LookaheadHours:      12,
		ExcludedCalendarIDs: map[string]bool{"cal-1": true},
		Sources: []CalendarSource{
			{ID: "cal-1", Name: "Work", URL: "https://example.com/work.ics"},
		},
	}

	c := p.Clone()
	c.ExcludedCalendarIDs["cal-2"] = true
	c.Sources[0].Name = "Changed"
	c.Sources = append(c.Sources, CalendarSource{ID: "cal-3", Name: "New", URL: "https://example.com/new.ics"})

	assert.False(t, p.ExcludedCalendarIDs["cal-2"], "clone's map writes must not reach the original")
	assert.Equal(t, "Work", p.Sources[0].Name, "clone's slice writes must not reach the original")
	assert.Len(t, p.Sources, 1)
	assert.Equal(t, 12, c.LookaheadHours)
}

func TestNeedsConfiguration(t *testing.T) {
	p := DefaultPreferences()
	assert.True(t, p.NeedsConfiguration())

	p.Sources = []CalendarSource{{ID: "a", Name: "Work", URL: "https://example.com/cal.ics"}}
	assert.False(t, p.NeedsConfiguration())
}
