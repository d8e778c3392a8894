package middleware

import (
	"net/http"
	"time"

	"github.com/GrigstonJC/boardgame-app/internal/logger"
	"github.com/google/uuid"
)

// RequestIDHeader is attached to every outgoing API call so backend logs
// can be correlated with client logs.
const RequestIDHeader = "X-Request-Id"

type requestIDTransport struct {
	next http.RoundTripper
}

// WithRequestID wraps a RoundTripper so each request carries a fresh
// X-Request-Id unless the caller already set one.
func WithRequestID(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &requestIDTransport{next: next}
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) == "" {
		// Clone: RoundTrippers must not mutate the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	return t.next.RoundTrip(req)
}

type loggingTransport struct {
	next http.RoundTripper
}

// WithLogging wraps a RoundTripper with one structured log line per call.
func WithLogging(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(req)

	fields := map[string]any{
		"method":     req.Method,
		"path":       req.URL.Path,
		"request_id": req.Header.Get(RequestIDHeader),
		"elapsed_ms": time.Since(start).Milliseconds(),
	}

	if err != nil {
		fields["error"] = err.Error()
		logger.Error("api request failed", fields)
		return nil, err
	}

	fields["status"] = resp.StatusCode
	logger.Info("api request", fields)
	return resp, nil
}
