package session

import (
	"context"
)

// Storage keys. The web client kept these in browser localStorage; this
// client keeps the same names so a dev can eyeball the stored file.
const (
	TokenKey     = "boardgame_token"
	SessionIDKey = "boardgame_session_id"
)

// Credentials is what the backend hands back after the OAuth redirect.
// The token is opaque to us; the session id is advisory and may be empty.
type Credentials struct {
	Token     string `json:"boardgame_token"`
	SessionID string `json:"boardgame_session_id,omitempty"`
}

// Store defines how credentials are persisted between runs.
// Load returns (nil, nil) when nothing is stored.
type Store interface {
	Save(ctx context.Context, c Credentials) error
	Load(ctx context.Context) (*Credentials, error)
	Clear(ctx context.Context) error
}
