package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-tet/internal/config"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	langSelect    *widget.Select
	entryPort     *NumericalEntry
	checkReminder *widget.Check
	entryRemDays  *NumericalEntry
	checkToken    *widget.Check
	feedURL       *widget.Entry
	btnResetToken *widget.Button

	// token caches the keyring value while the window is open.
	token string
}

// ShowSettingsWindow displays the configuration dialog allowing users to manage settings.
func (app *GoTetApp) ShowSettingsWindow() {
	if app.Window != nil {
		slog.Debug("Settings window already open, requesting focus", config.LogKeyComponent, config.CompUISet)
		app.Window.RequestFocus()
		return
	}

	slog.Info("Opening settings window", config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.Window = w

	sw := app.buildSettingsWidgets(w)

	// --- General Section (Language & Port) ---
	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = app.GetMsg(config.TKeyHelpLanguage)

	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	generalCard := widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", widget.NewForm(itemLang, itemPort))

	// --- Reminder Section ---
	remRow := container.NewBorder(nil, nil, nil, widget.NewLabel(app.GetMsg(config.TKeyLblDaysBefore)), sw.entryRemDays)
	notifCard := widget.NewCard(app.GetMsg(config.TKeyLblNotif), "", container.NewVBox(sw.checkReminder, remRow))

	// --- Feed Section ---
	itemURL := widget.NewFormItem(app.GetMsg(config.TKeyLblFeedURL), sw.feedURL)
	tokenHelp := widget.NewLabel(app.GetMsg(config.TKeyHelpFeedToken))
	tokenHelp.TextStyle = fyne.TextStyle{Italic: true}
	feedCard := widget.NewCard(app.GetMsg(config.TKeyLblFeed), "", container.NewVBox(
		widget.NewForm(itemURL),
		container.NewBorder(nil, nil, nil, sw.btnResetToken, sw.checkToken),
		tokenHelp,
	))

	// --- Actions ---
	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), func() {
		// Only the Port field has a strict requirement that blocks saving if invalid.
		if err := sw.entryPort.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		app.saveSettings(sw)
		w.Close()
	})
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	footerLabel := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	paddedContent := container.NewPadded(container.NewVBox(
		generalCard,
		notifCard,
		feedCard,
		container.NewGridWithColumns(config.LayoutColumnsDual, btnCancel, btnSave),
		footerLabel,
	))

	w.SetContent(paddedContent)
	w.Resize(fyne.NewSize(config.SettingsWindowWidth, paddedContent.MinSize().Height))
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.Window = nil })
	w.Show()
}

// buildSettingsWidgets creates the inputs pre-filled from preferences.
func (app *GoTetApp) buildSettingsWidgets(w fyne.Window) *settingsWidgets {
	sw := &settingsWidgets{}

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	// Port: requires strict validation (range 1-65535) with localized messages.
	sw.entryPort = NewNumericalEntry(len(strconv.Itoa(config.MaxPort)))
	sw.entryPort.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	sw.entryPort.Validator = func(s string) error {
		if s == "" {
			return errors.New(app.GetMsg(config.TKeyErrPortReq))
		}
		port, err := strconv.Atoi(s)
		if err != nil {
			return errors.New(app.GetMsg(config.TKeyErrPortNum))
		}
		if port < config.MinPort || port > config.MaxPort {
			return errors.New(app.GetMsg(config.TKeyErrPortRange))
		}
		return nil
	}

	sw.entryRemDays = NewNumericalEntry(len(strconv.Itoa(config.MaxReminderDays)))
	sw.entryRemDays.SetText(strconv.Itoa(app.Preferences.IntWithFallback(config.PrefReminderDays, config.DefaultReminderDays)))

	sw.checkReminder = widget.NewCheck(app.GetMsg(config.TKeyLblEnableRem), func(on bool) {
		if on {
			sw.entryRemDays.Enable()
		} else {
			sw.entryRemDays.Disable()
		}
	})
	sw.checkReminder.SetChecked(app.Preferences.Bool(config.PrefReminderEnabled))
	if !sw.checkReminder.Checked {
		sw.entryRemDays.Disable()
	}

	sw.feedURL = widget.NewEntry()
	sw.feedURL.Disable()

	sw.checkToken = widget.NewCheck(app.GetMsg(config.TKeyLblFeedToken), func(bool) {
		app.refreshFeedURL(sw)
	})
	sw.checkToken.Checked = app.Preferences.Bool(config.PrefFeedTokenEnabled)

	sw.btnResetToken = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnResetToken), theme.ViewRefreshIcon(), func() {
		token, err := app.Tokens.ResetFeedToken()
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		sw.token = token
		app.refreshFeedURL(sw)
	})

	sw.entryPort.OnChanged = func(string) { app.refreshFeedURL(sw) }
	app.refreshFeedURL(sw)
	return sw
}

// refreshFeedURL shows the subscription URL matching the current inputs.
// The keyring is read once per window; a failed read is retried next time.
func (app *GoTetApp) refreshFeedURL(sw *settingsWidgets) {
	sw.btnResetToken.Disable()
	if !sw.checkToken.Checked {
		sw.feedURL.SetText(feedURL(sw.entryPort.Text, ""))
		return
	}

	if sw.token == "" {
		token, err := app.Tokens.FeedToken()
		if err != nil {
			slog.Warn(config.MsgTokenUnavail, config.LogKeyError, err, config.LogKeyComponent, config.CompUISet)
			sw.feedURL.SetText(feedURL(sw.entryPort.Text, ""))
			return
		}
		sw.token = token
	}
	sw.btnResetToken.Enable()
	sw.feedURL.SetText(feedURL(sw.entryPort.Text, sw.token))
}

// feedURL builds the local subscription URL of the calendar.
func feedURL(port, token string) string {
	if token == "" {
		return fmt.Sprintf(config.FormatFeedURL, config.LocalhostBindAddr, port, config.RouteFeed)
	}
	return fmt.Sprintf(config.FormatFeedURLToken, config.LocalhostBindAddr, port, config.RouteFeed, config.QueryToken, token)
}

// saveSettings persists the preferences and applies them.
// An empty reminder value disables the reminder even when the box is checked.
func (app *GoTetApp) saveSettings(sw *settingsWidgets) {
	slog.Info("Saving preferences", config.LogKeyComponent, config.CompUISet)

	app.Preferences.SetString(config.PrefLanguage, sw.langSelect.Selected)

	if sw.entryPort.Text != "" {
		app.Preferences.SetString(config.PrefServerPort, sw.entryPort.Text)
	}

	days, err := strconv.Atoi(sw.entryRemDays.Text)
	if err != nil || days < config.MinReminderDays {
		app.Preferences.SetBool(config.PrefReminderEnabled, false)
		slog.Info("Reminders disabled via settings (value is empty)", config.LogKeyComponent, config.CompUISet)
	} else {
		app.Preferences.SetBool(config.PrefReminderEnabled, sw.checkReminder.Checked)
		app.Preferences.SetInt(config.PrefReminderDays, min(days, config.MaxReminderDays))
	}

	app.Preferences.SetBool(config.PrefFeedTokenEnabled, sw.checkToken.Checked)

	slog.Debug(config.MsgConfigChanged,
		config.LogKeyComponent, config.CompUISet,
		config.LogKeyLang, sw.langSelect.Selected,
		config.LogKeyReminder, app.Preferences.Int(config.PrefReminderDays),
		config.LogKeyToken, sw.checkToken.Checked)

	app.UpdateLocalizer()
	app.RefreshTrayMenu()
	// The preference listener wakes the worker to regenerate the feed.
}
