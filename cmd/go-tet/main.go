// Command go-tet counts down to the Lunar New Year from the system tray,
// or from a terminal with -headless, and serves the dates as a calendar feed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-tet/internal/config"
	"github.com/tartampluch/go-tet/internal/engine"
	"github.com/tartampluch/go-tet/internal/server"
	"github.com/tartampluch/go-tet/internal/ui"
)

func main() {
	// os.Exit skips defers, so the work lives in runMain.
	os.Exit(runMain())
}

// runMain parses flags, sets up logging and signals, then hands over to the
// tray or headless runner. It returns the process exit code.
func runMain() int {
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	headless := flag.Bool(config.FlagHeadless, false, config.FlagDescHeadless)
	flag.Parse()

	if *showVersion {
		fmt.Print(versionLine())
		return config.ExitCodeSuccess
	}

	// Headless mode prints the countdown on stdout, so its logs go to stderr.
	console := os.Stdout
	mode := config.ModeTray
	if *headless {
		console = os.Stderr
		mode = config.ModeHeadless
	}

	if closer := setupLogging(console, *debugMode); closer != nil {
		defer func() { _ = closer.Close() }()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo(mode)

	var err error
	if *headless {
		err = runHeadless(ctx, os.Stdout)
	} else {
		err = runTray(ctx)
	}
	if err != nil {
		slog.Error(config.ErrAppFailed, config.LogKeyComponent, config.CompMain, config.LogKeyError, err)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// runTray wires the fyne app and blocks until it quits.
func runTray(ctx context.Context) error {
	a := app.NewWithID(config.AppID)
	prefs := a.Preferences()
	prefs.SetString(config.PrefLastRun, config.Version)

	// The port is read once; a change applies on the next start.
	srv := server.NewCalendarServer(prefs.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	gui := ui.NewGoTetApp(a, ctx, srv, engine.NewTracker())

	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	gui.Run()
	return nil
}

func versionLine() string {
	return fmt.Sprintf(config.MsgVersionOutput,
		config.AppName, config.Version, config.Commit, config.Date, runtime.GOOS, runtime.GOARCH)
}

func logStartupInfo(mode string) {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyMode, mode,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyDate, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}
