package auth

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/GrigstonJC/boardgame-app/internal/logger"
	"github.com/gin-gonic/gin"
)

// callbackServer is the loopback listener standing in for the web client:
// the backend redirects the browser here after Google sign-in, carrying
// the token in query parameters.
type callbackServer struct {
	server  *http.Server
	results chan callbackResult
}

// callbackResult carries either a parsed redirect or the reason it was
// rejected. Errors must reach the waiting flow too: a provider error
// redirect ends the login, it does not leave it hanging.
type callbackResult struct {
	redirect *Redirect
	err      error
}

func newCallbackServer(addr string) *callbackServer {
	gin.SetMode(gin.ReleaseMode)

	s := &callbackServer{
		// Buffered: the handler must not block on a caller that already
		// gave up waiting.
		results: make(chan callbackResult, 1),
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// The backend's redirect target path is its own business; accept the
	// parameters on any path.
	router.NoRoute(s.handleRedirect)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// start binds the listener synchronously so an occupied port surfaces
// immediately, then serves in the background.
func (s *callbackServer) start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("callback listener failed", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	return nil
}

func (s *callbackServer) handleRedirect(c *gin.Context) {
	redirect, err := ParseRedirect(c.Request.URL.String())
	if err != nil {
		logger.Warn("callback rejected", map[string]any{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		s.deliver(callbackResult{err: err})
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8",
			[]byte("<html><body><h1>Sign-in failed</h1><p>"+err.Error()+"</p></body></html>"))
		return
	}

	s.deliver(callbackResult{redirect: redirect})

	c.Data(http.StatusOK, "text/html; charset=utf-8",
		[]byte("<html><body><h1>Signed in</h1><p>You can close this tab and return to the terminal.</p></body></html>"))
}

func (s *callbackServer) deliver(res callbackResult) {
	select {
	case s.results <- res:
	default:
		// A second redirect after the first was consumed; ignore it.
	}
}

// wait blocks until the browser comes back or ctx ends. A rejected
// redirect returns its error.
func (s *callbackServer) wait(ctx context.Context) (*Redirect, error) {
	select {
	case res := <-s.results:
		return res.redirect, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *callbackServer) shutdown() {
	// Background context: shutdown must still run when the caller's
	// context is already canceled.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}
