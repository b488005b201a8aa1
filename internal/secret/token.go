// Package secret keeps the calendar feed access token in the OS keyring.
package secret

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tartampluch/go-tet/internal/config"
	"github.com/zalando/go-keyring"
)

// FeedToken returns the stored feed token, creating and storing one on first use.
func FeedToken() (string, error) {
	token, err := keyring.Get(config.KeyringService, config.KeyringFeedAccount)
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%s: %w", config.ErrTokenRead, err)
	}
	return ResetFeedToken()
}

// ResetFeedToken replaces the stored token with a fresh random one.
// Subscribers must update their feed URL afterwards.
func ResetFeedToken() (string, error) {
	token := uuid.NewString()
	if err := keyring.Set(config.KeyringService, config.KeyringFeedAccount, token); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrTokenWrite, err)
	}
	slog.Info(config.MsgTokenCreated, config.LogKeyComponent, config.CompSecret)
	return token, nil
}

// DeleteFeedToken removes the token. A missing token is not an error.
func DeleteFeedToken() error {
	err := keyring.Delete(config.KeyringService, config.KeyringFeedAccount)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%s: %w", config.ErrTokenDelete, err)
	}
	return nil
}
