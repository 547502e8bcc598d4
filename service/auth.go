package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/mazeflood/domain"
	"github.com/beka-birhanu/mazeflood/service/i"
	"github.com/google/uuid"
)

const tokenLifetime = 24 * time.Hour

// Token claim keys shared with the authorization middleware.
const (
	ClaimEditorID = "editorID"
	ClaimUsername = "username"
)

var ErrNilDependency = errors.New("service: nil dependency")

// Auth registers editors and issues their tokens.
type Auth struct {
	editorRepo i.EditorRepo
	tokenizer  i.Tokenizer
	logger     i.Logger
}

// NewAuthService creates an Auth service.
func NewAuthService(r i.EditorRepo, t i.Tokenizer, l i.Logger) (*Auth, error) {
	if r == nil || t == nil || l == nil {
		return nil, ErrNilDependency
	}
	return &Auth{
		editorRepo: r,
		tokenizer:  t,
		logger:     l,
	}, nil
}

// Register creates a new editor account.
func (a *Auth) Register(ctx context.Context, username, password string) error {
	editorConfig := dmn.EditorConfig{
		ID:            uuid.New(),
		Username:      username,
		PlainPassword: password,
	}

	editor, err := dmn.NewEditor(editorConfig)
	if err != nil {
		return err
	}

	if err := a.editorRepo.Save(ctx, editor); err != nil {
		a.logger.Warning(fmt.Sprintf("saving editor %q: %s", username, err))
		return err
	}

	a.logger.Info(fmt.Sprintf("registered editor %s (%s)", editor.Username, editor.ID))
	return nil
}

// SignIn checks the credentials and returns the editor with a fresh token.
func (a *Auth) SignIn(ctx context.Context, username, password string) (*dmn.Editor, string, error) {
	editor, err := a.editorRepo.ByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, dmn.ErrEditorNotFound) {
			a.logger.Error(fmt.Sprintf("loading editor %q: %s", username, err))
		}
		return nil, "", dmn.ErrInvalidCredential
	}

	if !editor.VerifyPassword(password) {
		return nil, "", dmn.ErrInvalidCredential
	}

	token, err := a.tokenizer.Generate(map[string]interface{}{
		ClaimEditorID: editor.ID.String(),
		ClaimUsername: editor.Username,
	}, tokenLifetime)
	if err != nil {
		return nil, "", err
	}

	return editor, token, nil
}
