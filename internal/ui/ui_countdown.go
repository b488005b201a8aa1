package ui

import (
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-tet/internal/config"
	"github.com/tartampluch/go-tet/internal/engine"
)

// countdownView holds the widgets of the countdown window.
type countdownView struct {
	heading  *widget.Label
	date     *widget.Label
	values   [4]*canvas.Text // days, hours, minutes, seconds
	units    [4]*widget.Label
	blocks   *fyne.Container
	finished *widget.Label
}

var unitKeys = [4]string{
	config.TKeyUnitDays,
	config.TKeyUnitHours,
	config.TKeyUnitMinutes,
	config.TKeyUnitSeconds,
}

// ShowCountdownWindow displays the live countdown to the current target.
// If the window is already open, it requests focus.
func (app *GoTetApp) ShowCountdownWindow() {
	if app.countdownWindow != nil {
		app.countdownWindow.RequestFocus()
		return
	}

	slog.Info(config.LogMsgOpenCount, config.LogKeyComponent, config.CompUI)

	w := app.App.NewWindow(app.GetMsg(config.TKeyWinCountdown))
	app.countdownWindow = w

	v := &countdownView{
		heading:  widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		date:     widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		finished: widget.NewLabelWithStyle(app.GetMsg(config.TKeyCountdownFinished), fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
	}

	cells := make([]fyne.CanvasObject, 0, len(v.values))
	for i := range v.values {
		v.values[i] = canvas.NewText(engine.PadZero(0), theme.Color(theme.ColorNamePrimary))
		v.values[i].TextSize = config.CountdownDigitSize
		v.values[i].TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
		v.values[i].Alignment = fyne.TextAlignCenter

		v.units[i] = widget.NewLabelWithStyle(app.GetMsg(unitKeys[i]), fyne.TextAlignCenter, fyne.TextStyle{})
		cells = append(cells, container.NewVBox(v.values[i], v.units[i]))
	}
	v.blocks = container.NewGridWithColumns(config.CountdownGridCols, cells...)
	v.finished.Hide()

	app.countdownView = v
	if !app.lastTarget.IsZero() {
		v.apply(app, app.lastTarget, app.lastSnapshot)
	}

	w.SetContent(container.NewPadded(container.NewVBox(v.heading, v.date, v.blocks, v.finished)))
	w.Resize(fyne.NewSize(config.CountdownWinWidth, config.CountdownWinHeight))
	w.SetOnClosed(func() {
		app.countdownWindow = nil
		app.countdownView = nil
	})
	w.Show()
}

// apply renders a snapshot. Must run on the fyne goroutine.
func (v *countdownView) apply(app *GoTetApp, target time.Time, snap engine.Snapshot) {
	v.heading.SetText(app.Translator.Format(config.TKeyCountdownHeading, map[string]any{config.TplYear: target.Year()}))
	v.date.SetText(target.Format(app.dateLayout()))

	for i, n := range [4]int{snap.Days, snap.Hours, snap.Minutes, snap.Seconds} {
		if text := engine.PadZero(n); v.values[i].Text != text {
			v.values[i].Text = text
			v.values[i].Refresh()
		}
		v.units[i].SetText(app.GetMsg(unitKeys[i]))
	}

	if snap.Finished {
		v.blocks.Hide()
		v.finished.SetText(app.GetMsg(config.TKeyCountdownFinished))
		v.finished.Show()
	} else {
		v.finished.Hide()
		v.blocks.Show()
	}
}

// dateLayout returns the localized Go date layout.
func (app *GoTetApp) dateLayout() string {
	layout := app.GetMsg(config.TKeyFormatDate)
	if layout == config.TKeyFormatDate {
		return config.DateFormatISO
	}
	return layout
}
