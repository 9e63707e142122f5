package main

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/nostrapollo/next-meeting-menu-bar/pkg/calendar"
	"github.com/nostrapollo/next-meeting-menu-bar/pkg/models"
)

var alertLeadOptions = []string{
	"At start time",
	"1 minute before",
	"2 minutes before",
	"5 minutes before",
	"10 minutes before",
}

// SettingsWindow edits a working copy of the preferences and hands the new
// snapshot to onSave when applied.
type SettingsWindow struct {
	window  fyne.Window
	prefs   models.Preferences
	onSave  func(models.Preferences)
	sources *fyne.Container
}

func NewSettingsWindow(app fyne.App, prefs models.Preferences, calendars []models.CalendarSource, onSave func(models.Preferences)) *SettingsWindow {
	sw := &SettingsWindow{
		// Deep copy: edits stay local until Save, and Cancel discards them
		prefs:  prefs.Clone(),
		onSave: onSave,
	}

	sw.window = app.NewWindow("NextMeeting Settings")
	sw.window.Resize(fyne.NewSize(520, 560))
	sw.buildUI(calendars)

	return sw
}

func (sw *SettingsWindow) buildUI(calendars []models.CalendarSource) {
	// Calendar sources
	sw.sources = container.NewVBox()
	sw.rebuildSourceList()

	addButton := widget.NewButton("Add Calendar", func() {
		sw.showAddSourceDialog()
	})

	// Refresh behavior
	lookaheadEntry := widget.NewEntry()
	lookaheadEntry.SetText(strconv.Itoa(sw.prefs.LookaheadHours))
	lookaheadEntry.OnChanged = func(text string) {
		if hours, err := strconv.Atoi(strings.TrimSpace(text)); err == nil && hours > 0 {
			sw.prefs.LookaheadHours = hours
		}
	}

	intervalEntry := widget.NewEntry()
	intervalEntry.SetText(strconv.Itoa(sw.prefs.RefreshIntervalSeconds))
	intervalEntry.OnChanged = func(text string) {
		if seconds, err := strconv.Atoi(strings.TrimSpace(text)); err == nil && seconds > 0 {
			sw.prefs.RefreshIntervalSeconds = seconds
		}
	}

	// Alerts
	alertSelect := widget.NewSelect(alertLeadOptions, func(selected string) {
		sw.prefs.AlertMinutesBefore = alertLeadMinutes(selected)
	})
	alertSelect.SetSelected(alertLeadLabel(sw.prefs.AlertMinutesBefore))

	fullScreenCheck := widget.NewCheck("Show full-screen alerts", func(checked bool) {
		sw.prefs.FullScreenAlertsEnabled = checked
	})
	fullScreenCheck.SetChecked(sw.prefs.FullScreenAlertsEnabled)

	// Excluded calendars
	excluded := container.NewVBox()
	for _, cal := range calendars {
		calID := cal.ID
		check := widget.NewCheck(cal.Name, func(checked bool) {
			if checked {
				sw.prefs.ExcludedCalendarIDs[calID] = true
			} else {
				delete(sw.prefs.ExcludedCalendarIDs, calID)
			}
		})
		check.SetChecked(sw.prefs.ExcludedCalendarIDs[calID])
		excluded.Add(check)
	}
	if len(calendars) == 0 {
		excluded.Add(widget.NewLabel("No calendars configured yet"))
	}

	// General
	autostartCheck := widget.NewCheck("Launch at login", func(checked bool) {
		sw.prefs.LaunchAtLogin = checked
	})
	autostartCheck.SetChecked(sw.prefs.LaunchAtLogin)

	saveButton := widget.NewButton("Save", func() {
		sw.onSave(sw.prefs)
		sw.window.Close()
	})
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", func() {
		sw.window.Close()
	})

	form := widget.NewForm(
		widget.NewFormItem("Look ahead (hours)", lookaheadEntry),
		widget.NewFormItem("Refresh every (seconds)", intervalEntry),
		widget.NewFormItem("Alert", alertSelect),
	)

	content := container.NewVBox(
		widget.NewLabelWithStyle("Calendars", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		sw.sources,
		addButton,
		widget.NewSeparator(),
		form,
		fullScreenCheck,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Exclude calendars", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		excluded,
		widget.NewSeparator(),
		autostartCheck,
		container.NewHBox(saveButton, cancelButton),
	)

	sw.window.SetContent(container.NewPadded(container.NewVScroll(content)))
}

func (sw *SettingsWindow) rebuildSourceList() {
	sw.sources.RemoveAll()

	for i, source := range sw.prefs.Sources {
		index := i
		label := widget.NewLabel(fmt.Sprintf("%s - %s", source.Name, source.URL))
		label.Truncation = fyne.TextTruncateEllipsis
		removeButton := widget.NewButton("Remove", func() {
			sw.prefs.Sources = append(sw.prefs.Sources[:index], sw.prefs.Sources[index+1:]...)
			sw.rebuildSourceList()
		})
		sw.sources.Add(container.NewBorder(nil, nil, nil, removeButton, label))
	}

	if len(sw.prefs.Sources) == 0 {
		sw.sources.Add(widget.NewLabel("No calendars configured"))
	}

	sw.sources.Refresh()
}

func (sw *SettingsWindow) showAddSourceDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Work")
	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://example.com/calendar.ics")

	items := []*widget.FormItem{
		widget.NewFormItem("Name", nameEntry),
		widget.NewFormItem("iCal URL", urlEntry),
	}

	dialog.ShowForm("Add Calendar", "Add", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}

		name := strings.TrimSpace(nameEntry.Text)
		feedURL := strings.TrimSpace(urlEntry.Text)
		if name == "" || feedURL == "" {
			dialog.ShowError(fmt.Errorf("name and URL are required"), sw.window)
			return
		}

		sw.prefs.Sources = append(sw.prefs.Sources, calendar.NewSource(name, feedURL, ""))
		sw.rebuildSourceList()
	}, sw.window)
}

func (sw *SettingsWindow) Show() {
	sw.window.Show()
}

var alertLeadValues = []int{0, 1, 2, 5, 10}

func alertLeadMinutes(label string) int {
	for i, option := range alertLeadOptions {
		if option == label {
			return alertLeadValues[i]
		}
	}
	return 0
}

func alertLeadLabel(minutes int) string {
	for i, value := range alertLeadValues {
		if value == minutes {
			return alertLeadOptions[i]
		}
	}
	return alertLeadOptions[0]
}
