package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nostrapollo/next-meeting-menu-bar/pkg/models"
)

var (
	windowStart = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	windowEnd   = windowStart.Add(24 * time.Hour)
)

func icsFixture(lines ...string) string {
	all := append([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//test//EN",
	}, lines...)
	all = append(all, "END:VCALENDAR")
	return strings.Join(all, "\r\n") + "\r\n"
}

func testSource() models.CalendarSource {
	return models.CalendarSource{ID: "src-1", Name: "Work", URL: "https://example.com/cal.ics", Color: "#336699"}
}

func TestDecodeEvents(t *testing.T) {
	fixture := icsFixture(
		"BEGIN:VEVENT",
		"UID:standup-1",
		"SUMMARY:Daily Standup",
		"DESCRIPTION:Join: https://zoom.us/j/123456789",
		"LOCATION:Room 4",
		"DTSTART:20260314T110000Z",
		"DTEND:20260314T113000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:cancelled-1",
		"SUMMARY:Planning",
		"STATUS:CANCELLED",
		"DTSTART:20260314T120000Z",
		"DTEND:20260314T130000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:next-month",
		"SUMMARY:Offsite",
		"DTSTART:20260420T110000Z",
		"DTEND:20260420T120000Z",
		"END:VEVENT",
	)

	events, err := decodeEvents(strings.NewReader(fixture), testSource(), windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, events, 1, "cancelled and outside-window events are dropped")

	ev := events[0]
	assert.Equal(t, "standup-1", ev.ID)
	assert.Equal(t, "Daily Standup", ev.Title)
	assert.Equal(t, "Room 4", ev.Location)
	assert.Contains(t, ev.Notes, "zoom.us")
	assert.Equal(t, "src-1", ev.CalendarID)
	assert.Equal(t, "Work", ev.CalendarName)
	assert.Equal(t, "#336699", ev.CalendarColor)
	assert.True(t, ev.Start.Equal(time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)))
	assert.False(t, ev.IsAllDay)
}

func TestDecodeEventsAllDayFlag(t *testing.T) {
	fixture := icsFixture(
		"BEGIN:VEVENT",
		"UID:conf-1",
		"SUMMARY:Conference",
		"DTSTART;VALUE=DATE:20260314",
		"DTEND;VALUE=DATE:20260316",
		"END:VEVENT",
	)

	events, err := decodeEvents(strings.NewReader(fixture), testSource(), windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].IsAllDay)
}

func TestDecodeEventsCancelledTitlePolyfill(t *testing.T) {
	fixture := icsFixture(
		"BEGIN:VEVENT",
		"UID:c-1",
		"SUMMARY:Canceled: Design Review",
		"DTSTART:20260314T120000Z",
		"DTEND:20260314T130000Z",
		"END:VEVENT",
	)

	events, err := decodeEvents(strings.NewReader(fixture), testSource(), windowStart, windowEnd)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDecodeEventsExpandsRecurrence(t *testing.T) {
	fixture := icsFixture(
		"BEGIN:VEVENT",
		"UID:weekly-1",
		"SUMMARY:Weekly Sync",
		"DTSTART:20260314T110000Z",
		"DTEND:20260314T114500Z",
		"RRULE:FREQ=DAILY;COUNT=5",
		"END:VEVENT",
	)

	end := windowStart.Add(72 * time.Hour)
	events, err := decodeEvents(strings.NewReader(fixture), testSource(), windowStart, end)
	require.NoError(t, err)
	require.Len(t, events, 3, "instances inside the 72h window")

	ids := map[string]bool{}
	for _, ev := range events {
		ids[ev.ID] = true
		assert.Equal(t, 45*time.Minute, ev.End.Sub(ev.Start))
	}
	assert.Len(t, ids, 3, "each occurrence has a distinct id")
}

func TestDecodeEventsSkipsExceptionDates(t *testing.T) {
	fixture := icsFixture(
		"BEGIN:VEVENT",
		"UID:daily-1",
		"SUMMARY:Daily Sync",
		"DTSTART:20260314T110000Z",
		"DTEND:20260314T114500Z",
		"RRULE:FREQ=DAILY;COUNT=5",
		"EXDATE:20260315T110000Z",
		"END:VEVENT",
	)

	end := windowStart.Add(72 * time.Hour)
	events, err := decodeEvents(strings.NewReader(fixture), testSource(), windowStart, end)
	require.NoError(t, err)
	require.Len(t, events, 2, "the deleted occurrence never appears")

	deleted := time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC)
	for _, ev := range events {
		assert.False(t, ev.Start.Equal(deleted))
	}
}

func TestDecodeEventsFallbackID(t *testing.T) {
	fixture := icsFixture(
		"BEGIN:VEVENT",
		"SUMMARY:No UID Here",
		"DTSTART:20260314T110000Z",
		"DTEND:20260314T120000Z",
		"END:VEVENT",
	)

	events, err := decodeEvents(strings.NewReader(fixture), testSource(), windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].ID, "src-1-")
	assert.Contains(t, events[0].ID, "No UID Here")
}

func TestValidateICalFormat(t *testing.T) {
	assert.Error(t, validateICalFormat("<!DOCTYPE html><html>login</html>"))
	assert.Error(t, validateICalFormat("not a calendar"))
	assert.NoError(t, validateICalFormat("BEGIN:VCALENDAR\r\nEND:VCALENDAR"))
}

func TestClientFetchEvents(t *testing.T) {
	fixture := icsFixture(
		"BEGIN:VEVENT",
		"UID:ev-1",
		"SUMMARY:Standup",
		"DTSTART:20260314T110000Z",
		"DTEND:20260314T113000Z",
		"END:VEVENT",
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixture))
	}))
	defer server.Close()

	client := NewClient([]models.CalendarSource{{ID: "s1", Name: "Work", URL: server.URL}})
	events, err := client.FetchEvents(context.Background(), windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ev-1", events[0].ID)
}

func TestClientNoSources(t *testing.T) {
	client := NewClient(nil)
	_, err := client.FetchEvents(context.Background(), windowStart, windowEnd)
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestClientAllSourcesFailing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>sign in required</html>"))
	}))
	defer server.Close()

	client := NewClient([]models.CalendarSource{{ID: "s1", Name: "Work", URL: server.URL}})
	_, err := client.FetchEvents(context.Background(), windowStart, windowEnd)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestClientSkipsFailingSource(t *testing.T) {
	fixture := icsFixture(
		"BEGIN:VEVENT",
		"UID:ok-1",
		"SUMMARY:Standup",
		"DTSTART:20260314T110000Z",
		"DTEND:20260314T113000Z",
		"END:VEVENT",
	)

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixture))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer bad.Close()

	client := NewClient([]models.CalendarSource{
		{ID: "s1", Name: "Broken", URL: bad.URL},
		{ID: "s2", Name: "Work", URL: good.URL},
	})

	events, err := client.FetchEvents(context.Background(), windowStart, windowEnd)
	require.NoError(t, err, "one readable source is enough")
	require.Len(t, events, 1)
	assert.Equal(t, "ok-1", events[0].ID)
}

func TestClientDeduplicatesAcrossSources(t *testing.T) {
	fixture := icsFixture(
		"BEGIN:VEVENT",
		"UID:dup-1",
		"SUMMARY:Shared Meeting",
		"DTSTART:20260314T110000Z",
		"DTEND:20260314T113000Z",
		"END:VEVENT",
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixture))
	}))
	defer server.Close()

	client := NewClient([]models.CalendarSource{
		{ID: "s1", Name: "Mine", URL: server.URL},
		{ID: "s2", Name: "Shared", URL: server.URL},
	})

	events, err := client.FetchEvents(context.Background(), windowStart, windowEnd)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestClientSetSourcesDuringFetch(t *testing.T) {
	fixture := icsFixture(
		"BEGIN:VEVENT",
		"UID:ev-1",
		"SUMMARY:Standup",
		"DTSTART:20260314T110000Z",
		"DTEND:20260314T113000Z",
		"END:VEVENT",
	)

	entered := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.Write([]byte(fixture))
	}))
	defer server.Close()

	client := NewClient([]models.CalendarSource{{ID: "s1", Name: "Work", URL: server.URL}})

	done := make(chan struct{})
	var events []models.RawEvent
	var fetchErr error
	go func() {
		events, fetchErr = client.FetchEvents(context.Background(), windowStart, windowEnd)
		close(done)
	}()

	// Swap the source list while the fetch is blocked inside the handler
	<-entered
	client.SetSources(nil)
	close(release)
	<-done

	require.NoError(t, fetchErr, "the in-flight fetch keeps its snapshot")
	require.Len(t, events, 1)

	// The next fetch sees the new (empty) list
	_, err := client.FetchEvents(context.Background(), windowStart, windowEnd)
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestNewSource(t *testing.T) {
	s := NewSource("Work", "https://example.com/cal.ics", "#fff")
	assert.NotEmpty(t, s.ID)
	assert.True(t, s.Validate())

	other := NewSource("Work", "https://example.com/cal.ics", "#fff")
	assert.NotEqual(t, s.ID, other.ID)
}
