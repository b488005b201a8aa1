package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tartampluch/go-tet/internal/config"
	"github.com/tartampluch/go-tet/internal/engine"
	"github.com/tartampluch/go-tet/internal/locale"
	"github.com/tartampluch/go-tet/internal/secret"
	"github.com/tartampluch/go-tet/internal/server"
)

// runHeadless serves the feed and prints one countdown line per tick to out,
// with settings taken from the environment. It returns when ctx is cancelled.
func runHeadless(ctx context.Context, out io.Writer) error {
	log := slog.With(config.LogKeyComponent, config.CompMain)

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	log.Info(config.MsgHeadless,
		config.LogKeyPort, settings.Port,
		config.LogKeyLang, settings.Language,
		config.LogKeyReminder, settings.ReminderDays,
		config.LogKeyToken, settings.FeedToken,
	)

	tr := locale.New(settings.Language)

	tracker := engine.NewTracker()
	tracker.Fixed = settings.Target
	tracker.OnTick = func(target time.Time, snap engine.Snapshot) {
		_, _ = fmt.Fprintln(out, countdownLine(tr, target, snap))
	}
	defer tracker.Stop()

	srv := server.NewCalendarServer(settings.Port)
	srv.Source = tracker

	if settings.FeedToken {
		token, err := secret.FeedToken()
		if err != nil {
			return err
		}
		srv.SetToken(token)
	}

	gen := &engine.FeedGenerator{
		FormatSummary: func(year int) string {
			return tr.Format(config.TKeyEvtSummary, map[string]any{config.TplYear: year})
		},
	}
	feedCfg := engine.FeedConfig{ReminderTrigger: engine.ReminderTrigger(settings.ReminderDays)}

	sync := func() {
		if _, _, err := tracker.Refresh(); err != nil {
			_, _ = fmt.Fprintln(out, tr.ErrorMessage(err))
		}
		ics, _, err := gen.Generate(ctx, feedCfg)
		if err != nil {
			log.Error(config.ErrFeedGenerate, config.LogKeyError, err)
			return
		}
		srv.Update(ics)
	}

	serverErr := make(chan error, config.ChannelBufferSize)
	go func() {
		serverErr <- srv.Start(ctx)
	}()

	sync()

	ticker := time.NewTicker(config.RetargetInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Start returns once the server has shut down.
			return <-serverErr
		case err := <-serverErr:
			return err
		case <-ticker.C:
			sync()
		}
	}
}

// countdownLine renders a snapshot as a single localized line.
func countdownLine(tr *locale.Translator, target time.Time, snap engine.Snapshot) string {
	if snap.Finished {
		return tr.Msg(config.TKeyCountdownFinished)
	}
	return tr.Plural(config.TKeyCountdownLine, snap.Days, map[string]any{
		config.TplYear:  target.Year(),
		config.TplClock: snap.Clock(),
	})
}
