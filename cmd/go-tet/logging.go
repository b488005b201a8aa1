package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tartampluch/go-tet/internal/config"
)

// setupLogging installs a JSON slog logger writing to console and, when the
// user cache dir is usable, to a log file truncated on every start.
// The returned closer is nil when no file was opened.
func setupLogging(console io.Writer, debug bool) io.Closer {
	writers := []io.Writer{console}

	var logFile *os.File
	path, err := logFilePath()
	if err == nil {
		logFile, err = os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, path, err)
	} else {
		writers = append(writers, logFile)
	}

	slog.SetDefault(newLogger(io.MultiWriter(writers...), debug))

	if logFile == nil {
		return nil
	}
	slog.Debug(config.MsgLogFileOpen, config.LogKeyComponent, config.CompMain, config.LogKeyLogFile, path)
	return logFile
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, AddSource: debug}))
}

// logFilePath returns the log location inside an owner-only app cache dir.
func logFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	dir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return filepath.Join(dir, config.LogFileName), nil
}
