package main

import (
	"context"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/nostrapollo/next-meeting-menu-bar/pkg/alert"
	"github.com/nostrapollo/next-meeting-menu-bar/pkg/calendar"
	"github.com/nostrapollo/next-meeting-menu-bar/pkg/meetlink"
	"github.com/nostrapollo/next-meeting-menu-bar/pkg/models"
	"github.com/nostrapollo/next-meeting-menu-bar/pkg/pipeline"
	"github.com/nostrapollo/next-meeting-menu-bar/pkg/platform"
	"github.com/nostrapollo/next-meeting-menu-bar/pkg/store"
)

const fetchTimeout = 45 * time.Second

type NextMeeting struct {
	app        fyne.App
	prefsStore *store.PreferencesStore
	client     *calendar.Client
	meetings   *pipeline.Service
	alerts     *alert.Engine

	prefsMu sync.Mutex
	prefs   models.Preferences

	cycleRequests chan struct{}
	refreshTicker *time.Ticker
	tickerStop    chan struct{}

	settingsWindow *SettingsWindow
}

func main() {
	nm := &NextMeeting{
		app:           app.NewWithID("com.nostrapollo.next-meeting"),
		alerts:        alert.New(),
		cycleRequests: make(chan struct{}, 1),
	}

	if err := nm.initialize(); err != nil {
		log.Fatal(err)
	}

	nm.run()
}

func (nm *NextMeeting) initialize() error {
	nm.prefsStore = store.NewPreferencesStore(nm.app)
	nm.prefs = nm.prefsStore.Load()

	// Sync autostart state with preferences on startup
	if err := setupAutostart(nm.prefs.LaunchAtLogin); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}

	nm.client = calendar.NewClient(nm.prefs.Sources)
	nm.meetings = pipeline.NewService(nm.client, meetlink.NewDefaultExtractor(), nm.alerts)
	nm.meetings.OnUpdate(nm.updateSystemTrayMenu)

	nm.setupSystemTray()
	nm.startWorker()

	if nm.prefs.NeedsConfiguration() {
		nm.showSettingsWindow()
	}

	return nil
}

func (nm *NextMeeting) run() {
	nm.app.Lifecycle().SetOnStarted(func() {
		platform.SetActivationPolicy()
	})
	nm.app.Run()
}

// snapshotPrefs returns a deep copy of the current preferences. The worker
// reads one snapshot per cycle; a settings change takes effect on the next
// one, and no snapshot shares the exclusion map or sources with the live
// struct.
func (nm *NextMeeting) snapshotPrefs() models.Preferences {
	nm.prefsMu.Lock()
	defer nm.prefsMu.Unlock()
	return nm.prefs.Clone()
}

// startWorker starts the single goroutine that runs refresh-then-alert
// cycles. Timer ticks and manual requests all funnel through one channel so
// cycles never overlap.
func (nm *NextMeeting) startWorker() {
	go func() {
		for range nm.cycleRequests {
			nm.runCycle()
		}
	}()

	nm.requestCycle()
	nm.startRefreshTicker(nm.snapshotPrefs().RefreshIntervalSeconds)
}

func (nm *NextMeeting) startRefreshTicker(intervalSeconds int) {
	nm.refreshTicker = time.NewTicker(time.Duration(intervalSeconds) * time.Second)
	nm.tickerStop = make(chan struct{})

	ticker, stop := nm.refreshTicker, nm.tickerStop
	go func() {
		for {
			select {
			case <-ticker.C:
				nm.requestCycle()
			case <-stop:
				return
			}
		}
	}()
}

func (nm *NextMeeting) stopRefreshTicker() {
	if nm.refreshTicker != nil {
		nm.refreshTicker.Stop()
		close(nm.tickerStop)
		nm.refreshTicker = nil
	}
}

// requestCycle queues a refresh-then-alert cycle. A cycle already queued
// absorbs the request.
func (nm *NextMeeting) requestCycle() {
	select {
	case nm.cycleRequests <- struct{}{}:
	default:
	}
}

// runCycle is the sequential refresh-then-alert-check pass. It is only ever
// invoked from the worker goroutine.
func (nm *NextMeeting) runCycle() {
	prefs := nm.snapshotPrefs()
	if prefs.NeedsConfiguration() {
		return
	}

	nm.alerts.SetMinutesBefore(prefs.AlertMinutesBefore)
	nm.alerts.SetEnabled(prefs.FullScreenAlertsEnabled)

	now := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	err := nm.meetings.Refresh(ctx, now, prefs)
	cancel()
	if err != nil {
		// Last-known-good list stays published; redraw so the tray shows
		// the failure
		nm.updateSystemTrayMenu()
	}

	if m := nm.alerts.MeetingToAlert(nm.meetings.Meetings(), time.Now()); m != nil {
		nm.showAlert(*m)
	}
}

// showAlert marks the meeting alerted before the window appears so a second
// trigger within the same cycle is impossible.
func (nm *NextMeeting) showAlert(m models.Meeting) {
	nm.alerts.MarkAlerted(m)
	log.Printf("Alert for meeting: %q at %s", m.Title, m.TimeString())

	NewAlertWindow(nm.app, m, func() {
		log.Printf("Alert dismissed for meeting: %q", m.Title)
	}).Show()
}

// applyPreferences is called by the settings window with the new snapshot.
func (nm *NextMeeting) applyPreferences(p models.Preferences) {
	p.Normalize()

	nm.prefsMu.Lock()
	nm.prefs = p
	nm.prefsMu.Unlock()

	nm.prefsStore.Save(p)

	if err := setupAutostart(p.LaunchAtLogin); err != nil {
		log.Printf("Warning: failed to update autostart: %v", err)
	}

	nm.client.SetSources(p.Sources)

	nm.stopRefreshTicker()
	nm.startRefreshTicker(p.RefreshIntervalSeconds)
	nm.requestCycle()
}

func (nm *NextMeeting) showSettingsWindow() {
	if nm.settingsWindow != nil && nm.settingsWindow.window != nil {
		nm.settingsWindow.window.RequestFocus()
		nm.settingsWindow.window.Show()
		return
	}

	nm.settingsWindow = NewSettingsWindow(nm.app, nm.snapshotPrefs(), nm.knownCalendars(), nm.applyPreferences)
	nm.settingsWindow.window.SetOnClosed(func() {
		nm.settingsWindow = nil
	})
	nm.settingsWindow.Show()
}

// knownCalendars lists the configured sources as (id, name) pairs for the
// exclusion checklist.
func (nm *NextMeeting) knownCalendars() []models.CalendarSource {
	return nm.snapshotPrefs().Sources
}

func (nm *NextMeeting) quit() {
	nm.stopRefreshTicker()
	nm.app.Quit()
}
