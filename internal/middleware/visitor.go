package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/alexedwards/scs/v2"
)

const visitedKey = "visited"

type VisitTracker interface {
	TrackVisit(ctx context.Context, ipAddress string) error
}

// TrackVisitors records the first request of every session as a visit.
// It must run inside sessionManager.LoadAndSave.
func TrackVisitors(sessionManager *scs.SessionManager, tracker VisitTracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !sessionManager.Exists(ctx, visitedKey) {
				if err := tracker.TrackVisit(ctx, clientIP(r)); err != nil {
					// A lost visit must not fail the request.
					slog.Warn("failed to track visitor", "error", err)
				} else {
					sessionManager.Put(ctx, visitedKey, true)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. chi's RealIP middleware has
// already replaced it with the forwarded address when one was sent.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
