package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/GrigstonJC/boardgame-app/internal/api"
	"github.com/GrigstonJC/boardgame-app/internal/logger"
	"github.com/GrigstonJC/boardgame-app/internal/session"
	"github.com/GrigstonJC/boardgame-app/internal/utils"
	clienterrors "github.com/GrigstonJC/boardgame-app/pkg/errors"
)

// ErrNotAuthenticated means no credentials are stored locally. Commands
// that need a token check this before touching the network.
var ErrNotAuthenticated = errors.New("not logged in")

// Flow drives the login/logout sequence against the backend and keeps
// the credential store in sync with it.
type Flow struct {
	client       *api.Client
	store        session.Store
	callbackAddr string
}

func NewFlow(client *api.Client, store session.Store, callbackAddr string) *Flow {
	return &Flow{
		client:       client,
		store:        store,
		callbackAddr: callbackAddr,
	}
}

// LoginResult is a completed sign-in.
type LoginResult struct {
	Identity    *api.Identity
	Credentials session.Credentials
}

// Login runs the whole redirect flow: challenge, loopback listener,
// browser round-trip, credential persistence, identity confirmation.
// prompt is called with the URL the user must open; it may be nil.
func (f *Flow) Login(ctx context.Context, prompt func(authURL string)) (*LoginResult, error) {

	// 1. Ask the backend where to send the browser
	challenge, err := f.client.Login(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Backends without CSRF state get a locally generated nonce so
	// the redirect can still be correlated with this attempt
	authURL := challenge.AuthURL
	expectedState := challenge.State
	if expectedState == "" {
		expectedState = utils.RandomString(16)
		authURL, err = withState(authURL, expectedState)
		if err != nil {
			return nil, err
		}
	}

	// 3. Stand in for the web client: listen where the backend redirects
	listener := newCallbackServer(f.callbackAddr)
	if err := listener.start(); err != nil {
		return nil, fmt.Errorf("auth: callback listener on %s: %w", f.callbackAddr, err)
	}
	defer listener.shutdown()

	if prompt != nil {
		prompt(authURL)
	}

	// 4. Wait for the browser to come back
	redirect, err := listener.wait(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("auth: waiting for redirect: %w", err)
		}
		// Rejected redirect (provider error, missing token): already
		// carries its own auth: prefix
		return nil, err
	}

	if redirect.State != expectedState {
		return nil, fmt.Errorf("auth: state mismatch on redirect")
	}

	// 5. Persist, then confirm the token actually works
	if err := f.store.Save(ctx, redirect.Credentials); err != nil {
		return nil, err
	}

	identity, err := f.client.CurrentUser(ctx, redirect.Credentials.Token)
	if err != nil {
		var authErr *clienterrors.AuthenticationError
		if errors.As(err, &authErr) {
			_ = f.store.Clear(ctx)
		}
		return nil, err
	}

	// redirect_url is the credential-stripped address, what the web
	// client left in the address bar after persisting the token
	logger.Info("login complete", map[string]any{
		"email":        identity.Email,
		"session_id":   redirect.Credentials.SessionID,
		"redirect_url": redirect.CleanURL,
	})

	return &LoginResult{
		Identity:    identity,
		Credentials: redirect.Credentials,
	}, nil
}

// Resume checks stored credentials against the backend. A stored token
// triggers an identity fetch; a 401 clears local state (local logout).
func (f *Flow) Resume(ctx context.Context) (*api.Identity, error) {
	creds, err := f.store.Load(ctx)
	if err != nil {
		logger.Warn("credential store unreadable, treating as logged out", map[string]any{
			"error": err.Error(),
		})
		return nil, ErrNotAuthenticated
	}
	if creds == nil {
		return nil, ErrNotAuthenticated
	}

	identity, err := f.client.CurrentUser(ctx, creds.Token)
	if err != nil {
		var authErr *clienterrors.AuthenticationError
		if errors.As(err, &authErr) {
			// Token rejected: local logout
			_ = f.store.Clear(ctx)
			return nil, fmt.Errorf("session expired: %w", ErrNotAuthenticated)
		}
		return nil, err
	}

	return identity, nil
}

// Protected fetches the bearer-gated resource. Without a stored token it
// fails before any network call.
func (f *Flow) Protected(ctx context.Context) (*api.ProtectedPayload, error) {
	creds, err := f.store.Load(ctx)
	if err != nil || creds == nil {
		return nil, ErrNotAuthenticated
	}

	return f.client.Protected(ctx, creds.Token)
}

// Logout tells the backend to drop the session, then clears local state
// regardless of whether the backend call succeeded. Logging out while
// logged out is a no-op.
func (f *Flow) Logout(ctx context.Context) error {
	creds, err := f.store.Load(ctx)
	if err != nil {
		// Can't read it, but we can still try to remove it
		return f.store.Clear(ctx)
	}
	if creds == nil {
		return nil
	}

	if err := f.client.Logout(ctx, creds.Token); err != nil {
		logger.Warn("backend logout failed, clearing local state anyway", map[string]any{
			"error": err.Error(),
		})
	}

	return f.store.Clear(ctx)
}

// Token returns the stored bearer token, if any.
func (f *Flow) Token(ctx context.Context) (string, error) {
	creds, err := f.store.Load(ctx)
	if err != nil {
		return "", err
	}
	if creds == nil {
		return "", ErrNotAuthenticated
	}
	return creds.Token, nil
}

func withState(authURL, state string) (string, error) {
	u, err := url.Parse(authURL)
	if err != nil {
		return "", fmt.Errorf("auth: invalid auth_url: %w", err)
	}
	q := u.Query()
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
