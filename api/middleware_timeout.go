package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// timeoutWriter serializes access to the underlying ResponseWriter so the
// handler goroutine and the timeout branch never write concurrently. Once the
// deadline fires, handler writes are dropped.
type timeoutWriter struct {
	w        http.ResponseWriter
	mu       sync.Mutex
	timedOut bool
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.w.Header()
}

func (tw *timeoutWriter) WriteHeader(statusCode int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return
	}
	tw.w.WriteHeader(statusCode)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	return tw.w.Write(b)
}

// markTimedOut claims the writer for the timeout response. Returns false when
// the handler already finished writing.
func (tw *timeoutWriter) markTimedOut() bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return false
	}
	tw.timedOut = true
	tw.w.WriteHeader(http.StatusRequestTimeout)
	tw.w.Write([]byte(`{"error": "request timeout"}`))
	return true
}

// TimeoutMiddleware adds request timeout to prevent long-running requests
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)
			tw := &timeoutWriter{w: w}

			done := make(chan bool, 1)
			go func() {
				next.ServeHTTP(tw, r)
				done <- true
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if ctx.Err() == context.DeadlineExceeded && tw.markTimedOut() {
					zap.S().Warnw("request timeout",
						"path", r.URL.Path,
						"method", r.Method,
						"timeout", timeout)
				}
			}
		})
	}
}
