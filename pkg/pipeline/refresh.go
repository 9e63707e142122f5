// Package pipeline owns the published meeting list: it fetches raw events,
// shapes them into meetings, and replaces the list wholesale on each refresh.
package pipeline

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/nostrapollo/next-meeting-menu-bar/pkg/calendar"
	"github.com/nostrapollo/next-meeting-menu-bar/pkg/meetlink"
	"github.com/nostrapollo/next-meeting-menu-bar/pkg/models"
)

// ErrRefreshInFlight is returned when a refresh is requested while another
// one is still running. The pipeline is not reentrant; the second request is
// discarded, never interleaved.
var ErrRefreshInFlight = errors.New("refresh already in flight")

// AlertRecord receives the id set of every published list so stale alert
// records can be dropped.
type AlertRecord interface {
	Cleanup(currentIDs map[string]struct{})
}

// Service fetches, filters and publishes the ordered meeting list.
type Service struct {
	provider  calendar.Provider
	extractor *meetlink.Extractor
	alerts    AlertRecord

	refreshMu sync.Mutex // one refresh in flight at a time

	mu       sync.RWMutex // guards meetings, lastErr, observers
	meetings []models.Meeting
	lastErr  error
	onUpdate []func()
}

// NewService builds a Service. alerts may be nil when no alert record needs
// cleanup (tests).
func NewService(provider calendar.Provider, extractor *meetlink.Extractor, alerts AlertRecord) *Service {
	return &Service{
		provider:  provider,
		extractor: extractor,
		alerts:    alerts,
	}
}

// OnUpdate registers a callback invoked after each successful publish.
// Callbacks run on the refreshing goroutine and should hand off quickly.
func (s *Service) OnUpdate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = append(s.onUpdate, fn)
}

// Refresh fetches events for [now, now+lookahead], shapes them into the new
// meeting list and publishes it atomically. On a fetch failure the previous
// list stays published and the error is retained for display.
func (s *Service) Refresh(ctx context.Context, now time.Time, prefs models.Preferences) error {
	if !s.refreshMu.TryLock() {
		return ErrRefreshInFlight
	}
	defer s.refreshMu.Unlock()

	windowEnd := now.Add(time.Duration(prefs.LookaheadHours) * time.Hour)

	rawEvents, err := s.provider.FetchEvents(ctx, now, windowEnd)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		log.Printf("Refresh failed, keeping %d known meetings: %v", len(s.Meetings()), err)
		return err
	}

	meetings := make([]models.Meeting, 0, len(rawEvents))
	for _, ev := range rawEvents {
		if ev.IsAllDay {
			continue
		}
		if prefs.ExcludedCalendarIDs[ev.CalendarID] {
			continue
		}
		meetings = append(meetings, s.toMeeting(ev))
	}

	// Ties keep fetch order for determinism
	sort.SliceStable(meetings, func(i, j int) bool {
		return meetings[i].StartDate.Before(meetings[j].StartDate)
	})

	ids := make(map[string]struct{}, len(meetings))
	for _, m := range meetings {
		ids[m.ID] = struct{}{}
	}

	s.mu.Lock()
	s.meetings = meetings
	s.lastErr = nil
	observers := make([]func(), len(s.onUpdate))
	copy(observers, s.onUpdate)
	s.mu.Unlock()

	if s.alerts != nil {
		s.alerts.Cleanup(ids)
	}

	for _, fn := range observers {
		fn()
	}

	log.Printf("Published %d meetings (window %s to %s)",
		len(meetings), now.Format("15:04"), windowEnd.Format("2006-01-02 15:04"))
	return nil
}

func (s *Service) toMeeting(ev models.RawEvent) models.Meeting {
	title := ev.Title
	if title == "" {
		title = "Untitled"
	}
	return models.Meeting{
		ID:            ev.ID,
		Title:         title,
		StartDate:     ev.Start,
		EndDate:       ev.End,
		CalendarColor: ev.CalendarColor,
		CalendarName:  ev.CalendarName,
		MeetingURL:    s.extractor.FromEvent(ev.StructuredURL, ev.Location, ev.Notes),
	}
}

// Meetings returns a copy of the currently published list.
func (s *Service) Meetings() []models.Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Meeting, len(s.meetings))
	copy(out, s.meetings)
	return out
}

// NextMeeting returns the first published meeting that is not happening now,
// or nil.
func (s *Service) NextMeeting(now time.Time) *models.Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.meetings {
		if !s.meetings[i].IsHappeningNow(now) {
			m := s.meetings[i]
			return &m
		}
	}
	return nil
}

// CurrentMeeting returns the first published meeting happening now, or nil.
func (s *Service) CurrentMeeting(now time.Time) *models.Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.meetings {
		if s.meetings[i].IsHappeningNow(now) {
			m := s.meetings[i]
			return &m
		}
	}
	return nil
}

// LastError returns the error from the most recent refresh, or nil after a
// successful one.
func (s *Service) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
