package auth

import (
	"fmt"
	"net/url"

	"github.com/GrigstonJC/boardgame-app/internal/session"
)

// Redirect is the parsed result of the browser coming back from the
// backend after Google sign-in.
type Redirect struct {
	Credentials session.Credentials

	// State echoes the challenge's state token.
	State string

	// CleanURL is the redirect URL with the credential and state query
	// parameters stripped, mirroring what the web client pushed into the
	// address bar after persisting the token.
	CleanURL string
}

// ParseRedirect extracts token, session_id and state from a redirect URL.
// A missing token is an error: nothing gets persisted from a redirect
// that did not carry credentials.
func ParseRedirect(rawURL string) (*Redirect, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("auth: invalid redirect url: %w", err)
	}

	q := u.Query()

	// Provider/backend errors come back as error + error_description.
	if errParam := q.Get("error"); errParam != "" {
		desc := q.Get("error_description")
		if desc == "" {
			desc = errParam
		}
		return nil, fmt.Errorf("auth: login rejected: %s", desc)
	}

	token := q.Get("token")
	if token == "" {
		return nil, fmt.Errorf("auth: redirect missing token")
	}

	r := &Redirect{
		Credentials: session.Credentials{
			Token:     token,
			SessionID: q.Get("session_id"),
		},
		State: q.Get("state"),
	}

	q.Del("token")
	q.Del("session_id")
	q.Del("state")
	u.RawQuery = q.Encode()
	r.CleanURL = u.String()

	return r, nil
}
