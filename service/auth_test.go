package service

import (
	"context"
	"testing"

	dmn "github.com/beka-birhanu/mazeflood/domain"
	"github.com/beka-birhanu/mazeflood/infrastruture/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	ctx := context.Background()
	tokens := &fakeTokenizer{}
	logger := &recordingLogger{}
	auth, err := NewAuthService(memory.NewEditorRepo(), tokens, logger)
	require.NoError(t, err)

	const password = "k7#Vq9!mazeRunner$2"

	t.Run("nil dependencies", func(t *testing.T) {
		_, err := NewAuthService(nil, tokens, logger)
		assert.ErrorIs(t, err, ErrNilDependency)
	})

	t.Run("register and sign in", func(t *testing.T) {
		require.NoError(t, auth.Register(ctx, "mouse", password))
		assert.True(t, logger.contains("INFO", "registered editor mouse"))

		editor, token, err := auth.SignIn(ctx, "mouse", password)
		require.NoError(t, err)
		assert.Equal(t, "mouse", editor.Username)
		assert.Equal(t, "token-mouse-24h0m0s", token)
		assert.Equal(t, editor.ID.String(), tokens.last[ClaimEditorID])
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := auth.Register(ctx, "mouse", password)
		assert.ErrorIs(t, err, dmn.ErrUsernameConflict)
	})

	t.Run("weak password", func(t *testing.T) {
		err := auth.Register(ctx, "rat", "123456")
		assert.ErrorIs(t, err, dmn.ErrWeakPassword)
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		_, _, err := auth.SignIn(ctx, "mouse", "nope")
		assert.ErrorIs(t, err, dmn.ErrInvalidCredential)
		_, _, err = auth.SignIn(ctx, "nobody", password)
		assert.ErrorIs(t, err, dmn.ErrInvalidCredential)
	})
}
