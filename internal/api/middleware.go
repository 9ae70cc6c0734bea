package api

import (
	"context"
	"net/http"
	"strings"

	"ethnicityfacts/internal"
)

// RedirectTargets resolves a request path to its redirect target
type RedirectTargets interface {
	Target(ctx context.Context, path string) (string, bool, error)
}

// Redirects answers GET and HEAD requests for moved pages with a 301. API,
// health and metrics paths are never redirected.
func Redirects(targets RedirectTargets) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if (r.Method != http.MethodGet && r.Method != http.MethodHead) || reserved(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			to, ok, err := targets.Target(r.Context(), r.URL.Path)
			if err != nil {
				internal.DefaultLogger.Warn("[Redirects] lookup failed for %s: %v", r.URL.Path, err)
			}
			if ok {
				http.Redirect(w, r, to, http.StatusMovedPermanently)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func reserved(path string) bool {
	return path == "/healthz" || path == "/metrics" || strings.HasPrefix(path, "/api/")
}
