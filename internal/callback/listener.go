// Package callback runs the loopback listener that receives the OAuth
// provider redirect during login
package callback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// Result carries the code/state pair delivered by the provider redirect
type Result struct {
	Provider string
	Code     string
	State    string
}

// Listener is a one-shot HTTP listener for the login redirect. It plays
// the role of the web client's callback page: it only captures the
// code/state pair, the token exchange happens elsewhere.
type Listener struct {
	addr   string
	logger *slog.Logger

	srv     *http.Server
	ln      net.Listener
	results chan Result
	once    sync.Once
}

// NewListener creates a listener bound to addr (e.g. "127.0.0.1:8910").
// Port 0 picks a free port.
func NewListener(addr string, logger *slog.Logger) *Listener {
	return &Listener{
		addr:    addr,
		logger:  logger,
		results: make(chan Result, 1),
	}
}

// Start binds the listener and begins serving. It returns immediately;
// use Wait to block for the redirect.
func (l *Listener) Start() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("binding callback listener: %w", err)
	}
	l.ln = ln

	r := chi.NewRouter()
	r.Get("/auth/callback/{provider}", l.handleCallback)

	l.srv = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.logger.Warn("callback listener stopped", "error", err)
		}
	}()

	l.logger.Debug("callback listener started", "addr", ln.Addr().String())
	return nil
}

// RedirectURL returns the URL the provider should redirect to for the
// given provider name
func (l *Listener) RedirectURL(provider string) string {
	return fmt.Sprintf("http://%s/auth/callback/%s", l.ln.Addr().String(), provider)
}

// Wait blocks until the redirect arrives or ctx expires
func (l *Listener) Wait(ctx context.Context) (Result, error) {
	select {
	case res := <-l.results:
		return res, nil
	case <-ctx.Done():
		return Result{}, fmt.Errorf("waiting for login redirect: %w", ctx.Err())
	}
}

// Close shuts the listener down
func (l *Listener) Close() {
	if l.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = l.srv.Shutdown(ctx)
	}
}

func (l *Listener) handleCallback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	if code == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `<html><body><p>Login failed: the provider did not return an authorization code. You can close this tab.</p></body></html>`)
		return
	}

	// Only the first redirect counts; a reload of the page must not
	// deliver the code twice.
	delivered := false
	l.once.Do(func() {
		l.results <- Result{Provider: provider, Code: code, State: state}
		delivered = true
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if delivered {
		fmt.Fprint(w, `<html><body><p>Login received. Return to your terminal to continue.</p></body></html>`)
	} else {
		fmt.Fprint(w, `<html><body><p>Login already completed. You can close this tab.</p></body></html>`)
	}
}
