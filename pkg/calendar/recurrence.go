package calendar

import (
	"log"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/nostrapollo/next-meeting-menu-bar/pkg/models"
)

// expandRecurringEvent expands an RRULE into concrete instances within the
// fetch window, skipping EXDATE occurrences the organizer deleted. Each
// instance gets its own id so a recurring meeting's next occurrence is a
// distinct event downstream.
func expandRecurringEvent(baseEvent models.RawEvent, rruleStr string, exdates []time.Time, start, end time.Time) []models.RawEvent {
	opt, err := rrule.StrToROption(rruleStr)
	if err != nil {
		log.Printf("  [RECURRING] Unparseable RRULE %q for event %q: %v", rruleStr, baseEvent.Title, err)
		return nil
	}
	opt.Dtstart = baseEvent.Start

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		log.Printf("  [RECURRING] Invalid RRULE %q for event %q: %v", rruleStr, baseEvent.Title, err)
		return nil
	}

	set := rrule.Set{}
	set.RRule(rule)
	for _, exdate := range exdates {
		set.ExDate(exdate)
	}

	duration := baseEvent.End.Sub(baseEvent.Start)
	events := []models.RawEvent{}

	// Look back one day so an instance already in progress is still included.
	for _, occurrence := range set.Between(start.Add(-24*time.Hour), end, true) {
		instance := baseEvent
		instance.Start = occurrence
		instance.End = occurrence.Add(duration)
		instance.ID = baseEvent.ID + "-" + occurrence.Format(time.RFC3339)
		events = append(events, instance)
	}

	return events
}
