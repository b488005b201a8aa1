package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-tet/internal/config"
)

var envKeys = []string{
	config.EnvPort,
	config.EnvLanguage,
	config.EnvTarget,
	config.EnvReminderDays,
	config.EnvFeedToken,
}

// clearEnv unsets every setting for the duration of the test.
// godotenv treats an empty but present variable as set, so unset them for real.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadSettings_Defaults(t *testing.T) {
	clearEnv(t)

	s, err := config.LoadSettings(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultPort, s.Port)
	assert.Equal(t, config.DefaultLanguage, s.Language)
	assert.Equal(t, config.DefaultReminderDays, s.ReminderDays)
	assert.True(t, s.Target.IsZero())
	assert.False(t, s.FeedToken)
}

func TestLoadSettings_MissingFileIsLogged(t *testing.T) {
	clearEnv(t)

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := missingEnvFile(t)
	_, err := config.LoadSettings(path)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), config.MsgEnvFileMissing)
	assert.Contains(t, buf.String(), "missing.env")
}

func TestLoadSettings_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvPort, "19000")
	t.Setenv(config.EnvLanguage, "en")
	t.Setenv(config.EnvTarget, "2027-02-06T00:00:00+07:00")
	t.Setenv(config.EnvReminderDays, "0")
	t.Setenv(config.EnvFeedToken, "true")

	s, err := config.LoadSettings(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "19000", s.Port)
	assert.Equal(t, "en", s.Language)
	assert.True(t, s.Target.Equal(time.Date(2027, 2, 5, 17, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, s.ReminderDays)
	assert.True(t, s.FeedToken)
}

func TestLoadSettings_FromFile(t *testing.T) {
	clearEnv(t)
	t.Cleanup(func() {
		for _, k := range envKeys {
			_ = os.Unsetenv(k)
		}
	})

	path := filepath.Join(t.TempDir(), ".env")
	content := config.EnvPort + "=19001\n" +
		config.EnvReminderDays + "=7\n" +
		config.EnvLanguage + "=en\n"
	require.NoError(t, os.WriteFile(path, []byte(content), config.FilePermUserRW))

	// Process environment wins over the file.
	t.Setenv(config.EnvLanguage, "vi")

	s, err := config.LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "19001", s.Port)
	assert.Equal(t, 7, s.ReminderDays)
	assert.Equal(t, "vi", s.Language)
}

func TestLoadSettings_ReportsAllErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvTarget, "next spring")
	t.Setenv(config.EnvReminderDays, "a week")
	t.Setenv(config.EnvFeedToken, "maybe")

	_, err := config.LoadSettings(missingEnvFile(t))
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, config.EnvTarget)
	assert.Contains(t, msg, config.EnvReminderDays)
	assert.Contains(t, msg, config.EnvFeedToken)
}

func TestLoadSettings_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvPort, "70000")
	t.Setenv(config.EnvLanguage, "fr")

	_, err := config.LoadSettings(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPortRange)
	assert.Contains(t, err.Error(), config.ErrLanguage)
}

func TestSettings_Validate(t *testing.T) {
	valid := config.Settings{Port: "18088", Language: "vi", ReminderDays: 1}

	tests := []struct {
		name    string
		mutate  func(s *config.Settings)
		wantErr bool
	}{
		{"valid", func(*config.Settings) {}, false},
		{"reminder disabled", func(s *config.Settings) { s.ReminderDays = 0 }, false},
		{"reminder max", func(s *config.Settings) { s.ReminderDays = config.MaxReminderDays }, false},
		{"reminder negative", func(s *config.Settings) { s.ReminderDays = -1 }, true},
		{"reminder too far", func(s *config.Settings) { s.ReminderDays = config.MaxReminderDays + 1 }, true},
		{"empty port", func(s *config.Settings) { s.Port = "" }, true},
		{"unknown language", func(s *config.Settings) { s.Language = "de" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, config.ValidatePort("1"))
	assert.NoError(t, config.ValidatePort("65535"))
	assert.EqualError(t, config.ValidatePort(""), config.ErrPortRequired)
	assert.ErrorContains(t, config.ValidatePort("http"), config.ErrPortNumber)
	assert.EqualError(t, config.ValidatePort("0"), config.ErrPortRange)
	assert.EqualError(t, config.ValidatePort("65536"), config.ErrPortRange)
}
