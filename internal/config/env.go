package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds the headless runtime configuration.
// Fields are populated from environment variables.
type Settings struct {
	Port         string
	Language     string
	Target       time.Time // zero means "upcoming Tết from the table"
	ReminderDays int       // 0 disables the calendar reminder
	FeedToken    bool
}

// LoadSettings reads the settings from the environment, after loading the
// given .env files (EnvFile when none). Missing files are not an error.
func LoadSettings(files ...string) (*Settings, error) {
	if len(files) == 0 {
		files = []string{EnvFile}
	}
	for _, f := range files {
		// godotenv never overrides variables already set in the process.
		err := godotenv.Load(f)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug(MsgEnvFileMissing, LogKeyComponent, CompMain, LogKeyFile, f)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrEnvLoad, err)
		}
	}

	s := &Settings{
		Port:         getEnv(EnvPort, DefaultPort),
		Language:     getEnv(EnvLanguage, DefaultLanguage),
		ReminderDays: DefaultReminderDays,
	}

	var errs []error

	if v := os.Getenv(EnvTarget); v != "" {
		target, err := time.Parse(time.RFC3339, v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %s: %w", EnvTarget, ErrTargetParse, err))
		}
		s.Target = target
	}

	if v := os.Getenv(EnvReminderDays); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %s: %w", EnvReminderDays, ErrReminderDays, err))
		}
		s.ReminderDays = days
	}

	if v := os.Getenv(EnvFeedToken); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %s: %w", EnvFeedToken, ErrFeedTokenParse, err))
		}
		s.FeedToken = enabled
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks every field and reports all problems at once.
func (s *Settings) Validate() error {
	var errs []error

	if err := ValidatePort(s.Port); err != nil {
		errs = append(errs, err)
	}

	if !slices.Contains(SupportedLanguages, s.Language) {
		errs = append(errs, fmt.Errorf("%s: %q", ErrLanguage, s.Language))
	}

	if s.ReminderDays < 0 || s.ReminderDays > MaxReminderDays {
		errs = append(errs, fmt.Errorf("%s: got %d", ErrReminderDays, s.ReminderDays))
	}

	return errors.Join(errs...)
}

// ValidatePort checks that p is a TCP port number.
func ValidatePort(p string) error {
	if p == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrPortNumber, err)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
