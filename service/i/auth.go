package i

import (
	"context"

	dmn "github.com/beka-birhanu/mazeflood/domain"
)

// Authenticator registers editors and signs them in.
type Authenticator interface {
	Register(ctx context.Context, username, password string) error
	SignIn(ctx context.Context, username, password string) (*dmn.Editor, string, error)
}
