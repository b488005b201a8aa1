package ui

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/tartampluch/go-tet/internal/config"
	"github.com/tartampluch/go-tet/internal/engine"
	"github.com/tartampluch/go-tet/internal/locale"
	"github.com/tartampluch/go-tet/internal/secret"
	"github.com/tartampluch/go-tet/internal/server"
)

//go:embed Icon.png
var appIconData []byte

// TokenStore provides the access token of the calendar feed.
type TokenStore interface {
	FeedToken() (string, error)
	ResetFeedToken() (string, error)
}

// KeyringTokens keeps the token in the OS keyring.
type KeyringTokens struct{}

func (KeyringTokens) FeedToken() (string, error)      { return secret.FeedToken() }
func (KeyringTokens) ResetFeedToken() (string, error) { return secret.ResetFeedToken() }

// GoTetApp encapsulates the UI state, preferences, and background logic.
type GoTetApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	Translator  *locale.Translator
	Ctx         context.Context

	Server  *server.CalendarServer
	Tracker *engine.Tracker
	Tokens  TokenStore
	Clock   engine.Clock // Injected clock for testability (e.g. mocking time travel)

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem    *fyne.MenuItem
	TrayCountdownItem *fyne.MenuItem
	TrayYearsItem     *fyne.MenuItem
	TraySettingsItem  *fyne.MenuItem

	SupportedLanguages []string
	configChan         chan string

	// Years State
	EntriesMut  sync.RWMutex
	Entries     []engine.TetEntry
	yearsWindow fyne.Window

	// Countdown State, only touched on the fyne goroutine.
	countdownWindow fyne.Window
	countdownView   *countdownView
	lastTarget      time.Time
	lastSnapshot    engine.Snapshot
	notifiedYear    int
}

// NewGoTetApp constructs the application and wires dependencies.
// It takes over tracker.OnTick to drive the tray and the countdown window.
func NewGoTetApp(a fyne.App, ctx context.Context, srv *server.CalendarServer, tracker *engine.Tracker) *GoTetApp {
	a.SetIcon(fyne.NewStaticResource(config.IconFile, appIconData))

	app := &GoTetApp{
		App:                a,
		Preferences:        a.Preferences(),
		Translator:         locale.New(a.Preferences().StringWithFallback(config.PrefLanguage, config.DefaultLanguage)),
		Ctx:                ctx,
		Server:             srv,
		Tracker:            tracker,
		Tokens:             KeyringTokens{},
		Clock:              engine.RealClock{}, // Default to real clock in production
		SupportedLanguages: config.SupportedLanguages,
		configChan:         make(chan string, config.ChannelBufferSize),
		Entries:            make([]engine.TetEntry, 0),
	}
	tracker.OnTick = app.onTick
	srv.Source = tracker
	return app
}

// Run launches the application services and the main UI loop.
func (app *GoTetApp) Run() {
	app.UpdateLocalizer()
	app.watchPreferences()

	go func() {
		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	go app.backgroundWorker()
	app.App.Run()
	app.Tracker.Stop()
}

// GetMsg translates a plain message for the active language.
func (app *GoTetApp) GetMsg(key string) string {
	return app.Translator.Msg(key)
}

// UpdateLocalizer applies the language preference.
func (app *GoTetApp) UpdateLocalizer() {
	app.Translator.SetLanguage(app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))
}

// watchPreferences monitors changes to settings to trigger immediate updates.
func (app *GoTetApp) watchPreferences() {
	app.Preferences.AddChangeListener(func() {
		select {
		case app.configChan <- config.MsgConfigChanged:
		default:
		}
	})
}

// setupTrayMenu constructs the system tray menu.
func (app *GoTetApp) setupTrayMenu() {
	// The status line opens the countdown as well.
	app.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, func() {
		app.ShowCountdownWindow()
	})

	app.TrayCountdownItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuCountdown), func() {
		app.ShowCountdownWindow()
	})

	app.TrayYearsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuYears), func() {
		app.ShowYearsWindow()
	})

	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayCountdownItem,
		app.TrayYearsItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *GoTetApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayCountdownItem.Label = app.GetMsg(config.TKeyMenuCountdown)
	app.TrayYearsItem.Label = app.GetMsg(config.TKeyMenuYears)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	if !app.lastTarget.IsZero() {
		app.TrayStatusItem.Label = app.statusLabel(app.lastTarget, app.lastSnapshot)
	}
	app.Menu.Refresh()
}

// backgroundWorker keeps the target and the feed current: at start, every
// RetargetInterval (the day after Tết moves to next year) and on preference changes.
func (app *GoTetApp) backgroundWorker() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	app.performSync()

	ticker := time.NewTicker(config.RetargetInterval)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart)

	for {
		select {
		case <-app.Ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-app.configChan:
			app.performSync()

		case <-ticker.C:
			app.performSync()
		}
	}
}

// performSync refreshes the countdown target, the feed token and the served calendar.
func (app *GoTetApp) performSync() {
	if _, _, err := app.Tracker.Refresh(); err != nil {
		msg := app.Translator.ErrorMessage(err)
		fyne.Do(func() { app.setStatus(msg) })
	}

	app.applyFeedToken()

	gen := &engine.FeedGenerator{
		Clock:         app.Clock,
		FormatSummary: app.summaryFormatter(),
	}

	icsData, entries, err := gen.Generate(app.Ctx, app.loadFeedConfig())
	if err != nil {
		slog.Error(config.ErrFeedGenerate, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
		return
	}

	app.EntriesMut.Lock()
	app.Entries = entries
	app.EntriesMut.Unlock()

	app.Server.Update(icsData)
}

// applyFeedToken configures the server token from preferences and the token store.
// When the store fails the feed is served without a token rather than not at all.
func (app *GoTetApp) applyFeedToken() {
	if !app.Preferences.Bool(config.PrefFeedTokenEnabled) {
		app.Server.SetToken("")
		return
	}
	token, err := app.Tokens.FeedToken()
	if err != nil {
		slog.Warn(config.MsgTokenUnavail,
			config.LogKeyError, err,
			config.LogKeyComponent, config.CompUI)
		app.Server.SetToken("")
		return
	}
	app.Server.SetToken(token)
}

// loadFeedConfig assembles the feed configuration from UI preferences.
func (app *GoTetApp) loadFeedConfig() engine.FeedConfig {
	var cfg engine.FeedConfig
	if app.Preferences.Bool(config.PrefReminderEnabled) {
		days := app.Preferences.IntWithFallback(config.PrefReminderDays, config.DefaultReminderDays)
		cfg.ReminderTrigger = engine.ReminderTrigger(days)
	}
	return cfg
}

// summaryFormatter returns a closure that localizes the event summary.
func (app *GoTetApp) summaryFormatter() func(year int) string {
	return func(year int) string {
		msg := app.Translator.Format(config.TKeyEvtSummary, map[string]any{config.TplYear: year})
		if msg == config.TKeyEvtSummary {
			return fmt.Sprintf(config.FallbackSummary, year)
		}
		return msg
	}
}

// onTick receives every countdown snapshot from the tracker goroutines.
func (app *GoTetApp) onTick(target time.Time, snap engine.Snapshot) {
	fyne.Do(func() {
		app.lastTarget = target
		app.lastSnapshot = snap

		app.setStatus(app.statusLabel(target, snap))
		if app.countdownView != nil {
			app.countdownView.apply(app, target, snap)
		}

		if snap.Finished && app.notifiedYear != target.Year() {
			app.notifiedYear = target.Year()
			app.App.SendNotification(fyne.NewNotification(config.AppName,
				app.Translator.Format(config.TKeyNotifArrived, map[string]any{config.TplYear: target.Year()})))
		}
	})
}

// statusLabel renders the tray status line for a snapshot.
func (app *GoTetApp) statusLabel(target time.Time, snap engine.Snapshot) string {
	year := target.Year()
	switch {
	case snap.Finished:
		return app.Translator.Format(config.TKeyTrayStatusToday, map[string]any{config.TplYear: year})
	case snap.Days > 0:
		return app.Translator.Plural(config.TKeyTrayStatus, snap.Days, map[string]any{config.TplYear: year})
	default:
		return app.Translator.Format(config.TKeyTrayStatusSoon, map[string]any{
			config.TplYear:  year,
			config.TplClock: snap.Clock(),
		})
	}
}

// setStatus updates the top menu item. The menu is only refreshed when the text changes.
func (app *GoTetApp) setStatus(label string) {
	if app.Menu == nil || app.TrayStatusItem == nil || app.TrayStatusItem.Label == label {
		return
	}
	app.TrayStatusItem.Label = label
	app.Menu.Refresh()
}
