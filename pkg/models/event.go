package models

import "time"

// RawEvent is a calendar event as delivered by a provider, before the
// refresh pipeline turns it into a Meeting.
type RawEvent struct {
	ID            string    // iCal event UID (or a deterministic fallback)
	Title         string    // event title/summary
	Start         time.Time // event start
	End           time.Time // event end
	IsAllDay      bool      // all-day events carry no countdown semantics
	CalendarID    string    // id of the source calendar
	CalendarName  string    // display name of the source calendar
	CalendarColor string    // display color of the source calendar
	StructuredURL string    // the event's own URL property, if any
	Location      string    // location text
	Notes         string    // free-form description text
	Status        string    // CONFIRMED, CANCELLED, NEEDS-ACTION
}

// CalendarSource is a named iCalendar feed.
type CalendarSource struct {
	ID    string `json:"id"`    // unique identifier
	Name  string `json:"name"`  // display name
	URL   string `json:"url"`   // feed URL
	Color string `json:"color"` // display color
}

// Validate checks that the source has the required fields.
func (s *CalendarSource) Validate() bool {
	return s.Name != "" && s.URL != ""
}
