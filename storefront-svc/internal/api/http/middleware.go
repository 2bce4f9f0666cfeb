package httpapi

import (
	"context"
	"net/http"

	"overcooked-delivery/storefront-svc/internal/domain"
	"overcooked-delivery/storefront-svc/internal/service"
)

// withStorefront opens the session's stores for the duration of the request.
func (h *Handler) withStorefront(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mirror := &cookieMirror{w: w, ttl: h.cookies.ttl, secure: h.cookies.secure}
		sf, release, err := h.Loader.Open(r.Context(), sessionIDFrom(r.Context()), mirror)
		if err != nil {
			h.logger.Errorw("failed to open storefront", "session", sessionIDFrom(r.Context()), "error", err)
			writeError(w, err)
			return
		}
		defer release()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), storefrontKey, sf)))
	})
}

func storefrontFrom(ctx context.Context) *service.Storefront {
	sf, _ := ctx.Value(storefrontKey).(*service.Storefront)
	return sf
}

// requireRole lets the request through only when the access guard allows
// the current session.
func requireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	guard := service.NewAccessGuard(roles...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sf := storefrontFrom(r.Context())
			switch guard.Evaluate(sf.Session.Snapshot()) {
			case service.DecisionAllow:
				next.ServeHTTP(w, r)
			case service.DecisionPending:
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "session is loading"})
			default:
				writeJSON(w, http.StatusUnauthorized, map[string]string{
					"error":    "login required",
					"redirect": string(domain.DestinationLogin),
				})
			}
		})
	}
}
