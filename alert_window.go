package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/nostrapollo/next-meeting-menu-bar/pkg/audio"
	"github.com/nostrapollo/next-meeting-menu-bar/pkg/models"
)

// AlertWindow is the full-screen "meeting starting" prompt with Join and
// Dismiss actions.
type AlertWindow struct {
	window    fyne.Window
	app       fyne.App
	meeting   models.Meeting
	onDismiss func()
	chime     *audio.Chime
}

func NewAlertWindow(app fyne.App, meeting models.Meeting, onDismiss func()) *AlertWindow {
	aw := &AlertWindow{
		app:       app,
		meeting:   meeting,
		onDismiss: onDismiss,
	}

	aw.chime = audio.PlayChime()

	// Create window and build UI on the main Fyne thread
	fyne.Do(func() {
		aw.window = app.NewWindow("Meeting Starting")
		aw.window.SetFullScreen(true)
		aw.buildUI()

		aw.window.SetOnClosed(func() {
			if aw.chime != nil {
				aw.chime.Stop()
			}
			if aw.onDismiss != nil {
				aw.onDismiss()
			}
		})
	})

	return aw
}

func (aw *AlertWindow) buildUI() {
	heading := widget.NewLabel("Meeting Starting Now")
	heading.Alignment = fyne.TextAlignCenter

	title := canvas.NewText(aw.meeting.Title, nil)
	title.TextSize = 36
	title.Alignment = fyne.TextAlignCenter

	timeInfo := fmt.Sprintf("%s - %s",
		aw.meeting.TimeString(),
		aw.meeting.EndDate.Format("3:04 PM"))
	if aw.meeting.CalendarName != "" {
		timeInfo += "  (" + aw.meeting.CalendarName + ")"
	}
	timeLabel := widget.NewLabel(timeInfo)
	timeLabel.Alignment = fyne.TextAlignCenter

	buttons := container.NewHBox()

	if aw.meeting.MeetingURL != nil {
		joinURL := aw.meeting.MeetingURL
		joinButton := widget.NewButton("Join Meeting", func() {
			openMeetingLink(aw.app, joinURL)
			aw.window.Close()
		})
		joinButton.Importance = widget.HighImportance
		buttons.Add(joinButton)
	}

	buttons.Add(widget.NewButton("Dismiss", func() {
		aw.window.Close()
	}))

	content := container.NewVBox(
		container.NewPadded(heading),
		container.NewPadded(title),
		timeLabel,
		widget.NewSeparator(),
		container.NewCenter(buttons),
	)

	aw.window.SetContent(container.NewCenter(content))
}

func (aw *AlertWindow) Show() {
	fyne.Do(func() {
		aw.window.Show()
		aw.window.RequestFocus()
	})
}
