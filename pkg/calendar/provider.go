// Package calendar fetches raw events from iCalendar feeds.
package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nostrapollo/next-meeting-menu-bar/pkg/models"
)

// Provider supplies raw events overlapping a time window. Implementations
// may block on the network; callers pass a context they control.
type Provider interface {
	FetchEvents(ctx context.Context, start, end time.Time) ([]models.RawEvent, error)
}

// ErrNoSources is returned when no calendar source is configured.
var ErrNoSources = errors.New("no calendar sources configured")

// FetchError wraps a provider failure. The refresh pipeline surfaces it for
// display and keeps the last-known-good meeting list.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return "calendar fetch failed: " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewSource mints a CalendarSource with a fresh id.
func NewSource(name, feedURL, color string) models.CalendarSource {
	return models.CalendarSource{
		ID:    uuid.NewString(),
		Name:  name,
		URL:   feedURL,
		Color: color,
	}
}
