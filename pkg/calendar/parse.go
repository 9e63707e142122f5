package calendar

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/nostrapollo/next-meeting-menu-bar/pkg/models"
)

func parseEvent(comp *ical.Component, source models.CalendarSource) models.RawEvent {
	event := models.RawEvent{
		CalendarID:    source.ID,
		CalendarName:  source.Name,
		CalendarColor: source.Color,
	}

	// Extract iCal UID for stable event identification
	if uidProp := comp.Props.Get(ical.PropUID); uidProp != nil {
		event.ID = uidProp.Value
	}

	if summaryProp := comp.Props.Get(ical.PropSummary); summaryProp != nil {
		event.Title = summaryProp.Value
	}

	if descProp := comp.Props.Get(ical.PropDescription); descProp != nil {
		event.Notes = descProp.Value
	}

	if locProp := comp.Props.Get(ical.PropLocation); locProp != nil {
		event.Location = locProp.Value
	}

	if urlProp := comp.Props.Get(ical.PropURL); urlProp != nil {
		event.StructuredURL = urlProp.Value
	}

	if startProp := comp.Props.Get(ical.PropDateTimeStart); startProp != nil {
		if t, err := parseDateTimeProperty(startProp); err == nil {
			event.Start = t
		}
		if startProp.Params.Get(ical.ParamValue) == "DATE" {
			event.IsAllDay = true
		}
	}

	if endProp := comp.Props.Get(ical.PropDateTimeEnd); endProp != nil {
		if t, err := parseDateTimeProperty(endProp); err == nil {
			event.End = t
		}
	}

	// Multi-day events spanning 24h or more behave like all-day entries even
	// without a VALUE=DATE start.
	if !event.IsAllDay && !event.Start.IsZero() && !event.End.IsZero() {
		event.IsAllDay = isAllDaySpan(event.Start, event.End)
	}

	if statusProp := comp.Props.Get(ical.PropStatus); statusProp != nil {
		event.Status = statusProp.Value
	}

	// Polyfill: some feeds mark cancellation only in the title
	if event.Status != "CANCELLED" && isCancelledTitle(event.Title) {
		event.Status = "CANCELLED"
	}

	// Fallback: without a UID, derive a deterministic id from the source,
	// start time and title
	if event.ID == "" {
		event.ID = source.ID + "-" + event.Start.Format(time.RFC3339) + "-" + event.Title
	}

	return event
}

// parseExceptionDates collects the EXDATE occurrences of a recurring event.
// A single EXDATE property may carry several comma-separated values; each
// inherits the property's TZID parameter.
func parseExceptionDates(comp *ical.Component) []time.Time {
	var exdates []time.Time
	for _, prop := range comp.Props.Values(ical.PropExceptionDates) {
		for _, value := range strings.Split(prop.Value, ",") {
			single := prop
			single.Value = strings.TrimSpace(value)
			if single.Value == "" {
				continue
			}
			if t, err := parseDateTimeProperty(&single); err == nil {
				exdates = append(exdates, t)
			}
		}
	}
	return exdates
}

func parseDateTimeProperty(prop *ical.Prop) (time.Time, error) {
	// First try the standard DateTime method with local timezone
	if t, err := prop.DateTime(time.Local); err == nil {
		return t.In(time.Local), nil
	}

	// If that fails, try parsing the raw value directly
	value := prop.Value

	formats := []string{
		"20060102T150405",     // Basic format: YYYYMMDDTHHMMSS
		"20060102T150405Z",    // UTC format
		"20060102",            // Date-only (all-day events)
		time.RFC3339,          // Standard RFC3339
		"2006-01-02T15:04:05", // ISO 8601 without timezone
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, value, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse datetime value: %s", value)
}

func isAllDaySpan(start, end time.Time) bool {
	startDate := start.Format("2006-01-02")
	endDate := end.Format("2006-01-02")
	return startDate != endDate && end.Sub(start) >= 24*time.Hour
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func isCancelledTitle(title string) bool {
	cleanTitle := nonAlnum.ReplaceAllString(strings.ToLower(title), "")
	return strings.HasPrefix(cleanTitle, "canceled") || strings.HasPrefix(cleanTitle, "cancelled")
}
