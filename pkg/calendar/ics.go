package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-ical"

	"github.com/nostrapollo/next-meeting-menu-bar/pkg/models"
)

// Client fetches events from one or more iCalendar feeds over HTTP.
type Client struct {
	httpClient *http.Client

	mu      sync.Mutex // guards sources; settings saves race with a fetch in flight
	sources []models.CalendarSource
}

// NewClient builds a Client over the given feed sources.
func NewClient(sources []models.CalendarSource) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		sources:    sources,
	}
}

// SetSources replaces the feed list, e.g. after a settings change. A fetch
// already in flight keeps the list it snapshotted.
func (c *Client) SetSources(sources []models.CalendarSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = sources
}

// FetchEvents fetches every configured feed and returns the events that
// overlap [start, end). A single failing feed is logged and skipped; the
// fetch as a whole fails only when no feed could be read.
func (c *Client) FetchEvents(ctx context.Context, start, end time.Time) ([]models.RawEvent, error) {
	c.mu.Lock()
	sources := c.sources
	c.mu.Unlock()

	if len(sources) == 0 {
		return nil, &FetchError{Err: ErrNoSources}
	}

	events := []models.RawEvent{}
	seenIDs := make(map[string]bool)
	seenKeys := make(map[string]bool) // key: title + start time
	var errs []error
	fetched := 0

	for _, source := range sources {
		if !source.Validate() {
			continue
		}

		sourceEvents, err := c.fetchSource(ctx, source, start, end)
		if err != nil {
			log.Printf("Error fetching calendar '%s' (%s): %v", source.Name, source.URL, err)
			errs = append(errs, fmt.Errorf("%s: %w", source.Name, err))
			continue
		}
		fetched++

		included := 0
		for _, ev := range sourceEvents {
			if isDuplicate(ev, seenIDs, seenKeys) {
				continue
			}
			events = append(events, ev)
			included++
		}
		log.Printf("Synced %d events from '%s'", included, source.Name)
	}

	if fetched == 0 {
		return nil, &FetchError{Err: errors.Join(errs...)}
	}

	return events, nil
}

func (c *Client) fetchSource(ctx context.Context, source models.CalendarSource, start, end time.Time) ([]models.RawEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	bodyStr := string(body)
	if err := validateICalFormat(bodyStr); err != nil {
		return nil, err
	}

	return decodeEvents(strings.NewReader(bodyStr), source, start, end)
}

// decodeEvents decodes an iCalendar stream into raw events overlapping the
// window, expanding recurrence rules and dropping cancelled or timeless
// entries.
func decodeEvents(r io.Reader, source models.CalendarSource, start, end time.Time) ([]models.RawEvent, error) {
	decoder := ical.NewDecoder(r)
	events := []models.RawEvent{}
	stats := &filterStats{}

	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			stats.totalComponents++
			if comp.Name != ical.CompEvent {
				continue
			}
			stats.totalEvents++

			normalizeComponentTimezones(comp)
			event := parseEvent(comp, source)

			if rruleProp := comp.Props.Get(ical.PropRecurrenceRule); rruleProp != nil {
				exdates := parseExceptionDates(comp)
				for _, instance := range expandRecurringEvent(event, rruleProp.Value, exdates, start, end) {
					if shouldIncludeEvent(instance, start, end, stats) {
						events = append(events, instance)
					}
				}
				continue
			}

			if shouldIncludeEvent(event, start, end, stats) {
				events = append(events, event)
			}
		}
	}

	stats.logSummary(source.Name, len(events))
	return events, nil
}

func validateICalFormat(bodyStr string) error {
	upperBody := strings.ToUpper(strings.TrimSpace(bodyStr))
	if strings.HasPrefix(upperBody, "<!DOCTYPE") || strings.HasPrefix(upperBody, "<HTML") {
		return fmt.Errorf("received HTML instead of iCalendar data - check if URL requires authentication")
	}

	if !strings.HasPrefix(strings.TrimSpace(bodyStr), "BEGIN:VCALENDAR") {
		previewLen := 100
		if len(bodyStr) < previewLen {
			previewLen = len(bodyStr)
		}
		return fmt.Errorf("invalid iCalendar format - expected BEGIN:VCALENDAR, got: %s",
			strings.TrimSpace(bodyStr[:previewLen]))
	}

	return nil
}

func shouldIncludeEvent(event models.RawEvent, start, end time.Time, stats *filterStats) bool {
	if event.Start.IsZero() || event.End.IsZero() {
		stats.filteredMissingTime++
		log.Printf("  [FILTERED] Missing time - Event: %q (Start: %v, End: %v)",
			event.Title, event.Start, event.End)
		return false
	}

	if event.Status == "CANCELLED" {
		stats.filteredCancelled++
		log.Printf("  [FILTERED] [Cancelled] - Event: %q (Start: %s)",
			event.Title, event.Start.Format("2006-01-02 15:04"))
		return false
	}

	if event.Start.Before(end) && event.End.After(start) {
		return true
	}

	stats.filteredOutsideWindow++
	return false
}

func isDuplicate(event models.RawEvent, seenIDs, seenKeys map[string]bool) bool {
	if seenIDs[event.ID] {
		return true
	}

	key := event.Title + "|" + event.Start.Format(time.RFC3339)
	if seenKeys[key] {
		return true
	}

	seenIDs[event.ID] = true
	seenKeys[key] = true
	return false
}

type filterStats struct {
	totalComponents       int
	totalEvents           int
	filteredMissingTime   int
	filteredCancelled     int
	filteredOutsideWindow int
}

func (s *filterStats) logSummary(sourceName string, includedCount int) {
	totalFiltered := s.filteredMissingTime + s.filteredCancelled + s.filteredOutsideWindow
	log.Printf("  [SUMMARY] %s: components: %d, events: %d, included: %d, filtered: %d",
		sourceName, s.totalComponents, s.totalEvents, includedCount, totalFiltered)
	if totalFiltered > 0 {
		log.Printf("  Filtered breakdown: %d cancelled, %d outside window, %d missing time",
			s.filteredCancelled, s.filteredOutsideWindow, s.filteredMissingTime)
	}
}
