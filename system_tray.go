package main

import (
	"fmt"
	"net/url"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

const trayMeetingLimit = 5

func (nm *NextMeeting) setupSystemTray() {
	nm.updateSystemTrayMenu()
}

// updateSystemTrayMenu redraws the tray menu from the published meeting
// list. Safe to call from any goroutine.
func (nm *NextMeeting) updateSystemTrayMenu() {
	desk, ok := nm.app.(desktop.App)
	if !ok {
		return
	}

	now := time.Now()
	menuItems := []*fyne.MenuItem{}

	// Headline: the menu bar title for the next meeting
	headline := fyne.NewMenuItem(nm.menuBarTitle(now), nil)
	headline.Disabled = true
	menuItems = append(menuItems, headline)

	if nm.meetings.LastError() != nil {
		failed := fyne.NewMenuItem("Sync failed - showing last known meetings", nil)
		failed.Disabled = true
		menuItems = append(menuItems, failed)
	}

	meetings := nm.meetings.Meetings()
	if len(meetings) > 0 {
		menuItems = append(menuItems, fyne.NewMenuItemSeparator())

		header := fyne.NewMenuItem("Upcoming:", nil)
		header.Disabled = true
		menuItems = append(menuItems, header)

		for i, m := range meetings {
			if i >= trayMeetingLimit {
				break
			}

			label := fmt.Sprintf("  %s  %s", m.TimeString(), m.MenuBarTitle(now))
			if m.MeetingURL != nil {
				joinURL := m.MeetingURL
				menuItems = append(menuItems, fyne.NewMenuItem(label, func() {
					openMeetingLink(nm.app, joinURL)
				}))
			} else {
				item := fyne.NewMenuItem(label, nil)
				item.Disabled = true
				menuItems = append(menuItems, item)
			}
		}
	}

	menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	menuItems = append(menuItems,
		fyne.NewMenuItem("Join Next Meeting", func() {
			nm.joinNextMeeting()
		}),
		fyne.NewMenuItem("Sync Now", func() {
			nm.requestCycle()
		}),
		fyne.NewMenuItem("Settings", func() {
			nm.showSettingsWindow()
		}),
	)

	menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	menuItems = append(menuItems, fyne.NewMenuItem("Quit", func() {
		nm.quit()
	}))

	menu := fyne.NewMenu("NextMeeting", menuItems...)
	fyne.Do(func() {
		desk.SetSystemTrayMenu(menu)
		desk.SetSystemTrayIcon(theme.CalendarIcon())
	})
}

// menuBarTitle is the glanceable label: countdown plus truncated title, or a
// status string when there is nothing to count down to.
func (nm *NextMeeting) menuBarTitle(now time.Time) string {
	if nm.snapshotPrefs().NeedsConfiguration() {
		return "No Calendars"
	}

	next := nm.meetings.NextMeeting(now)
	if next == nil {
		if current := nm.meetings.CurrentMeeting(now); current != nil {
			return current.MenuBarTitle(now)
		}
		return "No Meetings"
	}

	return next.MenuBarTitle(now)
}

// joinNextMeeting opens the next meeting's link, preferring one currently in
// progress. Without a link it falls back to a plain notification.
func (nm *NextMeeting) joinNextMeeting() {
	now := time.Now()

	m := nm.meetings.CurrentMeeting(now)
	if m == nil {
		m = nm.meetings.NextMeeting(now)
	}

	if m == nil {
		nm.app.SendNotification(fyne.NewNotification("NextMeeting", "No upcoming meetings"))
		return
	}
	if m.MeetingURL == nil {
		nm.app.SendNotification(fyne.NewNotification("NextMeeting",
			fmt.Sprintf("%q has no meeting link", m.Title)))
		return
	}

	openMeetingLink(nm.app, m.MeetingURL)
}

// openMeetingLink opens a meeting URL, falling back to a notification when
// the platform cannot handle it. Shared by the tray and the alert window.
func openMeetingLink(a fyne.App, u *url.URL) {
	if err := a.OpenURL(u); err != nil {
		a.SendNotification(fyne.NewNotification("NextMeeting",
			"Could not open meeting link"))
	}
}
