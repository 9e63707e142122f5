package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func meetingAt(start, end time.Duration) *Meeting {
	return &Meeting{
		ID:        "test-id",
		Title:     "Test Meeting",
		StartDate: testNow.Add(start),
		EndDate:   testNow.Add(end),
	}
}

func TestCountdownString(t *testing.T) {
	tests := []struct {
		name  string
		start time.Duration
		end   time.Duration
		want  string
	}{
		{"happening now", -30 * time.Second, 30 * time.Minute, "Now"},
		{"starts exactly now", 0, 30 * time.Minute, "Now"},
		{"ends exactly now", -30 * time.Minute, 0, "Now"},
		{"fully elapsed", -2 * time.Hour, -1 * time.Hour, "Past"},
		{"in 30 seconds", 30 * time.Second, time.Hour, "<1m"},
		{"in 15 minutes", 15 * time.Minute, 75 * time.Minute, "15m"},
		{"in 59 minutes", 59 * time.Minute, 2 * time.Hour, "59m"},
		{"in exactly 90 minutes", 90 * time.Minute, 2 * time.Hour, "1h 30m"},
		{"in exactly 120 minutes", 120 * time.Minute, 3 * time.Hour, "2h"},
		{"in 25 hours", 25 * time.Hour, 26 * time.Hour, "25h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := meetingAt(tt.start, tt.end)
			assert.Equal(t, tt.want, m.CountdownString(testNow))
		})
	}
}

func TestIsHappeningNow(t *testing.T) {
	assert.True(t, meetingAt(-5*time.Minute, 25*time.Minute).IsHappeningNow(testNow))
	assert.True(t, meetingAt(0, 25*time.Minute).IsHappeningNow(testNow), "inclusive start")
	assert.True(t, meetingAt(-25*time.Minute, 0).IsHappeningNow(testNow), "inclusive end")
	assert.False(t, meetingAt(5*time.Minute, 65*time.Minute).IsHappeningNow(testNow))
	assert.False(t, meetingAt(-time.Hour, -5*time.Minute).IsHappeningNow(testNow))
}

func TestIsJustStarting(t *testing.T) {
	assert.True(t, meetingAt(-30*time.Second, time.Hour).IsJustStarting(testNow))
	assert.True(t, meetingAt(0, time.Hour).IsJustStarting(testNow))
	assert.True(t, meetingAt(-59*time.Second, time.Hour).IsJustStarting(testNow))
	assert.False(t, meetingAt(-60*time.Second, time.Hour).IsJustStarting(testNow), "60s ago is no longer just starting")
	assert.False(t, meetingAt(-2*time.Minute, time.Hour).IsJustStarting(testNow))
	assert.False(t, meetingAt(30*time.Second, time.Hour).IsJustStarting(testNow), "not yet started")
}

func TestMenuBarTitle(t *testing.T) {
	t.Run("short title not truncated", func(t *testing.T) {
		m := meetingAt(15*time.Minute, time.Hour)
		m.Title = "Team Standup"
		assert.Equal(t, "15m: Team Standup", m.MenuBarTitle(testNow))
	})

	t.Run("long title truncated with ellipsis", func(t *testing.T) {
		m := meetingAt(15*time.Minute, time.Hour)
		m.Title = "Very Long Meeting Title That Should Be Truncated"
		got := m.MenuBarTitle(testNow)
		assert.Contains(t, got, "...")
		assert.LessOrEqual(t, len(got), 30)
	})

	t.Run("exactly 20 runes unchanged", func(t *testing.T) {
		m := meetingAt(15*time.Minute, time.Hour)
		m.Title = "abcdefghijklmnopqrst"
		assert.Equal(t, "15m: abcdefghijklmnopqrst", m.MenuBarTitle(testNow))
	})

	t.Run("multibyte title counted in runes", func(t *testing.T) {
		m := meetingAt(15*time.Minute, time.Hour)
		m.Title = "会議会議会議会議会議会議会議会議会議会議会" // 21 runes
		got := m.MenuBarTitle(testNow)
		assert.Contains(t, got, "...")
	})
}

func TestTimeString(t *testing.T) {
	m := Meeting{StartDate: time.Date(2026, 3, 14, 14, 30, 0, 0, time.UTC)}
	assert.Equal(t, "2:30 PM", m.TimeString())
}
