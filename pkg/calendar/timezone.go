package calendar

import (
	"github.com/emersion/go-ical"
)

// Map of common Windows timezone names to IANA timezone names. Outlook feeds
// emit the former, which time.LoadLocation cannot resolve.
var windowsToIANA = map[string]string{
	"Pacific Standard Time":        "America/Los_Angeles",
	"Mountain Standard Time":       "America/Denver",
	"Central Standard Time":        "America/Chicago",
	"Eastern Standard Time":        "America/New_York",
	"Atlantic Standard Time":       "America/Halifax",
	"Alaskan Standard Time":        "America/Anchorage",
	"Hawaiian Standard Time":       "Pacific/Honolulu",
	"GMT Standard Time":            "Europe/London",
	"Central Europe Standard Time": "Europe/Paris",
	"China Standard Time":          "Asia/Shanghai",
	"Tokyo Standard Time":          "Asia/Tokyo",
	"India Standard Time":          "Asia/Kolkata",
	"AUS Eastern Standard Time":    "Australia/Sydney",
}

// normalizeComponentTimezones rewrites Windows timezone names on a
// component's date properties before parsing.
func normalizeComponentTimezones(comp *ical.Component) {
	for _, propName := range []string{
		ical.PropDateTimeStart,
		ical.PropDateTimeEnd,
	} {
		if prop := comp.Props.Get(propName); prop != nil {
			fixTimezoneParam(prop)
		}
	}

	for _, exdate := range comp.Props.Values(ical.PropExceptionDates) {
		fixTimezoneParam(&exdate)
	}
	for _, rdate := range comp.Props.Values(ical.PropRecurrenceDates) {
		fixTimezoneParam(&rdate)
	}
}

func fixTimezoneParam(prop *ical.Prop) {
	if tzid := prop.Params.Get(ical.ParamTimezoneID); tzid != "" {
		if ianaName, ok := windowsToIANA[tzid]; ok {
			prop.Params.Set(ical.ParamTimezoneID, ianaName)
		}
	}
}
