package auth

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GrigstonJC/boardgame-app/internal/api"
	"github.com/GrigstonJC/boardgame-app/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a minimal stand-in for the Boardgame App API.
type fakeBackend struct {
	srv *httptest.Server

	state       string
	validToken  string
	userCalls   atomic.Int64
	logoutCalls atomic.Int64
	logoutFails bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{state: "st-1", validToken: "tok-123"}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"auth_url": "https://accounts.google.com/o/oauth2/auth?client_id=x", "state": "` + b.state + `"}`))
	})
	mux.HandleFunc("/auth/user", func(w http.ResponseWriter, r *http.Request) {
		b.userCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+b.validToken {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail": "invalid token"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"email": "player@example.com", "name": "Player One", "authenticated": true, "issuer": "google"}`))
	})
	mux.HandleFunc("/api/protected", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.validToken {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail": "invalid token"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message": "welcome", "data": "secret game data", "user_email": "player@example.com", "access_granted": true}`))
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		b.logoutCalls.Add(1)
		if b.logoutFails {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail": "session store down"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func newTestFlow(t *testing.T, b *fakeBackend) (*Flow, session.Store, string) {
	t.Helper()

	addr := freeAddr(t)
	store := session.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	flow := NewFlow(api.New(b.srv.URL, 5*time.Second), store, addr)
	return flow, store, addr
}

// freeAddr reserves a loopback port for the callback listener.
func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

// browserVisit plays the part of the browser coming back from Google.
func browserVisit(t *testing.T, addr, query string) {
	t.Helper()
	go func() {
		resp, err := http.Get("http://" + addr + "/?" + query)
		if err == nil {
			resp.Body.Close()
		}
	}()
}

func TestLoginPersistsRedirectCredentials(t *testing.T) {
	backend := newFakeBackend(t)
	flow, store, addr := newTestFlow(t, backend)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var promptedURL string
	result, err := flow.Login(ctx, func(authURL string) {
		promptedURL = authURL
		browserVisit(t, addr, "token=tok-123&session_id=sess-9&state=st-1")
	})
	require.NoError(t, err)

	assert.Contains(t, promptedURL, "accounts.google.com")
	assert.Equal(t, "player@example.com", result.Identity.Email)
	assert.Equal(t, "tok-123", result.Credentials.Token)
	assert.Equal(t, "sess-9", result.Credentials.SessionID)

	// Token survived to the store
	creds, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "tok-123", creds.Token)
	assert.Equal(t, "sess-9", creds.SessionID)
}

func TestLoginRejectsStateMismatch(t *testing.T) {
	backend := newFakeBackend(t)
	flow, store, addr := newTestFlow(t, backend)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := flow.Login(ctx, func(string) {
		browserVisit(t, addr, "token=tok-123&state=wrong")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")

	// Nothing persisted
	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestLoginGeneratesLocalStateWhenChallengeHasNone(t *testing.T) {
	backend := newFakeBackend(t)
	backend.state = ""
	flow, _, addr := newTestFlow(t, backend)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := flow.Login(ctx, func(authURL string) {
		// The locally generated nonce rides on the auth URL; echo it back
		// like the provider would.
		parts := strings.Split(authURL, "state=")
		require.Len(t, parts, 2)
		state := strings.Split(parts[1], "&")[0]
		browserVisit(t, addr, "token=tok-123&state="+state)
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-123", result.Credentials.Token)
}

func TestLoginClearsStoreWhenTokenRejected(t *testing.T) {
	backend := newFakeBackend(t)
	flow, store, addr := newTestFlow(t, backend)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := flow.Login(ctx, func(string) {
		browserVisit(t, addr, "token=bogus&state=st-1")
	})
	require.Error(t, err)

	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestLoginFailsOnProviderErrorRedirect(t *testing.T) {
	backend := newFakeBackend(t)
	flow, store, addr := newTestFlow(t, backend)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := flow.Login(ctx, func(string) {
		browserVisit(t, addr, "error=access_denied&error_description=user+cancelled")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user cancelled")

	// The rejection ends the login; it does not wait out the context
	require.NotErrorIs(t, err, context.DeadlineExceeded)

	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestLoginFailsOnRedirectWithoutToken(t *testing.T) {
	backend := newFakeBackend(t)
	flow, store, addr := newTestFlow(t, backend)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := flow.Login(ctx, func(string) {
		browserVisit(t, addr, "state=st-1")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing token")
	require.NotErrorIs(t, err, context.DeadlineExceeded)

	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestLoginLogsStrippedRedirectURL(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	backend := newFakeBackend(t)
	flow, _, addr := newTestFlow(t, backend)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := flow.Login(ctx, func(string) {
		browserVisit(t, addr, "game=catan&token=tok-123&session_id=sess-9&state=st-1")
	})
	require.NoError(t, err)

	// The logged address-bar URL keeps unrelated params but never the
	// credential ones
	logged := buf.String()
	assert.Contains(t, logged, "redirect_url")
	assert.Contains(t, logged, "game=catan")
	assert.NotContains(t, logged, "token=tok-123")
}

func TestLoginCanceled(t *testing.T) {
	backend := newFakeBackend(t)
	flow, _, _ := newTestFlow(t, backend)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// Browser never comes back
	_, err := flow.Login(ctx, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResumeFetchesIdentityForStoredToken(t *testing.T) {
	backend := newFakeBackend(t)
	flow, store, _ := newTestFlow(t, backend)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, session.Credentials{Token: "tok-123"}))

	identity, err := flow.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "player@example.com", identity.Email)
	assert.Equal(t, int64(1), backend.userCalls.Load())
}

func TestResumeWithoutCredentials(t *testing.T) {
	backend := newFakeBackend(t)
	flow, _, _ := newTestFlow(t, backend)

	_, err := flow.Resume(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, int64(0), backend.userCalls.Load())
}

func TestResumeClearsRejectedToken(t *testing.T) {
	backend := newFakeBackend(t)
	flow, store, _ := newTestFlow(t, backend)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, session.Credentials{Token: "stale-token"}))

	_, err := flow.Resume(ctx)
	require.ErrorIs(t, err, ErrNotAuthenticated)

	// 401 on user lookup acts as a local logout
	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestProtectedRequiresToken(t *testing.T) {
	backend := newFakeBackend(t)
	flow, _, _ := newTestFlow(t, backend)

	_, err := flow.Protected(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestProtectedWithToken(t *testing.T) {
	backend := newFakeBackend(t)
	flow, store, _ := newTestFlow(t, backend)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, session.Credentials{Token: "tok-123"}))

	payload, err := flow.Protected(ctx)
	require.NoError(t, err)
	assert.Equal(t, "secret game data", payload.Data)
	assert.True(t, payload.AccessGranted)
}

func TestLogoutClearsLocalStateEvenWhenBackendFails(t *testing.T) {
	backend := newFakeBackend(t)
	backend.logoutFails = true
	flow, store, _ := newTestFlow(t, backend)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, session.Credentials{Token: "tok-123", SessionID: "sess-9"}))

	require.NoError(t, flow.Logout(ctx))
	assert.Equal(t, int64(1), backend.logoutCalls.Load())

	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestLogoutWhileLoggedOut(t *testing.T) {
	backend := newFakeBackend(t)
	flow, _, _ := newTestFlow(t, backend)

	require.NoError(t, flow.Logout(context.Background()))
	assert.Equal(t, int64(0), backend.logoutCalls.Load())
}
