package secret_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-tet/internal/secret"
	"github.com/zalando/go-keyring"
)

func TestFeedToken_CreatedOnceThenReused(t *testing.T) {
	keyring.MockInit()

	first, err := secret.FeedToken()
	require.NoError(t, err)
	_, err = uuid.Parse(first)
	assert.NoError(t, err, "token should be a UUID string")

	second, err := secret.FeedToken()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResetFeedToken(t *testing.T) {
	keyring.MockInit()

	first, err := secret.FeedToken()
	require.NoError(t, err)

	reset, err := secret.ResetFeedToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, reset)

	current, err := secret.FeedToken()
	require.NoError(t, err)
	assert.Equal(t, reset, current)
}

func TestDeleteFeedToken(t *testing.T) {
	keyring.MockInit()

	assert.NoError(t, secret.DeleteFeedToken(), "deleting a missing token is fine")

	first, err := secret.FeedToken()
	require.NoError(t, err)
	require.NoError(t, secret.DeleteFeedToken())

	next, err := secret.FeedToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, next, "a new token is generated after deletion")
}

func TestFeedToken_KeyringFailure(t *testing.T) {
	keyring.MockInitWithError(errors.New("keyring locked"))

	_, err := secret.FeedToken()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "keyring locked")

	assert.Error(t, secret.DeleteFeedToken())
}
